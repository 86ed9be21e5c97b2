package dither

import (
	"math"

	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// riemersmaDitherer implements spec §4.5.C: traverse the image along a
// Hilbert space-filling curve (padded to the next power of two, emitting
// only in-bounds points), carrying a ring buffer of the last H errors
// weighted by exp(-0.1*i) as feedback into the next pixel's input.
//
// No pack example walks a Hilbert curve; the curve generator follows the
// standard d2xy recursive bit-interleaving construction. serpentineLinear
// swaps the curve traversal for a plain boustrophedon (serpentine raster)
// order while keeping the same ring-buffer feedback, per spec's "also
// provide a serpentine-linear traversal variant".
type riemersmaDitherer struct {
	historyLen      int
	serpentineLinear bool
}

// NewRiemersma builds a Hilbert-curve ditherer with the given error
// history length (8, 16, or 32 per spec §4.5.C).
func NewRiemersma(historyLen int) Ditherer {
	if historyLen != 8 && historyLen != 16 && historyLen != 32 {
		historyLen = 16
	}
	return riemersmaDitherer{historyLen: historyLen}
}

// NewSerpentineLinear builds the serpentine-raster variant of Riemersma
// dithering: same ring-buffer feedback, boustrophedon traversal instead
// of a Hilbert curve.
func NewSerpentineLinear(historyLen int) Ditherer {
	if historyLen != 8 && historyLen != 16 && historyLen != 32 {
		historyLen = 16
	}
	return riemersmaDitherer{historyLen: historyLen, serpentineLinear: true}
}

// hilbertOrder returns the sequence of (x,y) points visiting a 2^order x
// 2^order grid along the Hilbert curve.
func hilbertOrder(order int) [][2]int {
	n := 1 << uint(order)
	total := n * n
	out := make([][2]int, total)
	for d := 0; d < total; d++ {
		x, y := hilbertD2XY(n, d)
		out[d] = [2]int{x, y}
	}
	return out
}

func hilbertD2XY(n, d int) (x, y int) {
	t := d
	for s := 1; s < n; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		x, y = hilbertRot(s, x, y, rx, ry)
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}

func hilbertRot(n, x, y, rx, ry int) (int, int) {
	if ry == 0 {
		if rx == 1 {
			x = n - 1 - x
			y = n - 1 - y
		}
		x, y = y, x
	}
	return x, y
}

func nextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

func log2Int(v int) int {
	o := 0
	for (1 << uint(o)) < v {
		o++
	}
	return o
}

type errHistory struct {
	buf     [][3]float64 // r,g,b
	weights []float64
	head    int
	n       int
}

func newErrHistory(h int) *errHistory {
	w := make([]float64, h)
	for i := range w {
		w[i] = math.Exp(-0.1 * float64(i))
	}
	return &errHistory{buf: make([][3]float64, h), weights: w}
}

func (eh *errHistory) push(r, g, b float64) {
	eh.head = (eh.head - 1 + len(eh.buf)) % len(eh.buf)
	eh.buf[eh.head] = [3]float64{r, g, b}
	if eh.n < len(eh.buf) {
		eh.n++
	}
}

func (eh *errHistory) feedback() (r, g, b float64) {
	for i := 0; i < eh.n; i++ {
		idx := (eh.head + i) % len(eh.buf)
		w := eh.weights[i]
		e := eh.buf[idx]
		r += e[0] * w
		g += e[1] * w
		b += e[2] * w
	}
	return
}

func (d riemersmaDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)
	hist := newErrHistory(d.historyLen)

	visit := func(x, y int) {
		c := src.At(x, y)
		fr, fg, fb := hist.feedback()
		const damping = 0.5

		r := clamp8(int32(float64(c.R) + fr*damping))
		g := clamp8(int32(float64(c.G) + fg*damping))
		b := clamp8(int32(float64(c.B) + fb*damping))

		idx := nearest(lk, metric.RGBA{A: c.A, R: r, G: g, B: b})
		dst.Set(x, y, idx)

		chosen := palette[idx]
		hist.push(float64(r)-float64(chosen.R), float64(g)-float64(chosen.G), float64(b)-float64(chosen.B))
	}

	if d.serpentineLinear {
		for y := 0; y < h; y++ {
			if y%2 == 0 {
				for x := 0; x < w; x++ {
					visit(x, y)
				}
			} else {
				for x := w - 1; x >= 0; x-- {
					visit(x, y)
				}
			}
		}
		return
	}

	side := nextPow2(maxInt(w, h))
	order := log2Int(side)
	for _, p := range hilbertOrder(order) {
		x, y := p[0], p[1]
		if x >= w || y >= h {
			continue
		}
		visit(x, y)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
