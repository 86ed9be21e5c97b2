package dither

import (
	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// GenerateBayer builds the recursive Bayer threshold matrix of size n per
// spec §4.5.B: base case B(2) = [[0,2],[3,1]]; B(2n)[i,j] =
// 4*B(n)[i%n,j%n] + offset, offsets {0,2,3,1} in the four quadrants.
// Returns an InvalidArgument-shaped error via ok=false when n is not a
// power of two or n < 2 (spec §8's Bayer generation testable property).
func GenerateBayer(n int) (matrix [][]int, ok bool) {
	if n < 2 || !isPowerOfTwo(n) {
		return nil, false
	}
	return generateBayer(n), true
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func generateBayer(n int) [][]int {
	if n == 2 {
		return [][]int{{0, 2}, {3, 1}}
	}
	half := n / 2
	prev := generateBayer(half)
	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
	}
	offsets := [4]int{0, 2, 3, 1}
	quadrants := [4][2]int{{0, 0}, {0, half}, {half, 0}, {half, half}}
	for q, off := range offsets {
		oi, oj := quadrants[q][0], quadrants[q][1]
		for i := 0; i < half; i++ {
			for j := 0; j < half; j++ {
				out[oi+i][oj+j] = 4*prev[i][j] + off
			}
		}
	}
	return out
}

var halftone8x8 = [8][8]int{
	{24, 10, 12, 26, 35, 47, 49, 37},
	{8, 0, 2, 14, 45, 59, 61, 51},
	{22, 6, 4, 16, 43, 57, 63, 53},
	{30, 20, 18, 28, 33, 41, 55, 39},
	{34, 46, 48, 36, 25, 11, 13, 27},
	{44, 58, 60, 50, 9, 1, 3, 15},
	{42, 56, 62, 52, 23, 7, 5, 17},
	{32, 40, 54, 38, 31, 21, 19, 29},
}

// orderedDitherer implements spec §4.5.B's threshold-matrix family over
// either a generated Bayer matrix or the literal halftone matrix.
type orderedDitherer struct {
	matrix [][]int
	size   int
}

// NewBayer builds an ordered Ditherer using a Bayer matrix of size n
// (must be a power of two in [2,256]); falls back to size 8 if n is
// invalid, matching the "silently ignored" bayer_index rule of spec §7.
func NewBayer(n int) Ditherer {
	m, ok := GenerateBayer(n)
	if !ok {
		m, _ = GenerateBayer(8)
		n = 8
	}
	return orderedDitherer{matrix: m, size: n}
}

// uniformDitherer reproduces the "ADitherer Uniform adds a constant 0.5"
// behavior noted in spec §9: every channel is biased by a fixed 0.5
// (scaled to the 0-255 range) with no x/y dependence at all, unlike the
// rest of the ordered family. Kept as the literal, slightly-buggy-looking
// behavior rather than reinterpreted into a real threshold matrix.
type uniformDitherer struct{}

// NewUniform builds the constant-bias ditherer.
func NewUniform() Ditherer { return uniformDitherer{} }

func (uniformDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}
	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)
	const bias int32 = 128 // 0.5 scaled to the 0-255 channel range

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			r := clamp8(int32(c.R) + bias)
			g := clamp8(int32(c.G) + bias)
			b := clamp8(int32(c.B) + bias)
			idx := nearest(lk, metric.RGBA{A: c.A, R: r, G: g, B: b})
			dst.Set(x, y, idx)
		}
	}
}

// NewHalftone builds an ordered Ditherer using the literal 8x8 halftone
// matrix from spec §6.
func NewHalftone() Ditherer {
	m := make([][]int, 8)
	for i := 0; i < 8; i++ {
		m[i] = make([]int, 8)
		for j := 0; j < 8; j++ {
			m[i][j] = halftone8x8[i][j]
		}
	}
	return orderedDitherer{matrix: m, size: 8}
}

func (d orderedDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)
	s := d.size
	denom := float64(s*s - 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			threshold := (float64(d.matrix[y%s][x%s])/denom - 0.5) * 255

			c := src.At(x, y)
			r := clamp8(int32(c.R) + int32(threshold))
			g := clamp8(int32(c.G) + int32(threshold))
			b := clamp8(int32(c.B) + int32(threshold))

			idx := nearest(lk, metric.RGBA{A: c.A, R: r, G: g, B: b})
			dst.Set(x, y, idx)
		}
	}
}
