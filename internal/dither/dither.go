// Package dither implements spec §4.5's pixel→palette-index mapping
// strategies: error-diffusion, ordered, space-filling-curve, noise,
// Knoll, N-closest, N-convex, and adaptive dispatch.
package dither

import (
	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// Source is the pixel reader a Ditherer consumes; it never exposes a raw
// pointer across the package boundary, mirroring the teacher's own
// get/set accessor pair rather than an unsafe bitmap.
type Source interface {
	Width() int
	Height() int
	At(x, y int) metric.RGBA
}

// Target is the index buffer a Ditherer writes into.
type Target interface {
	Width() int
	Height() int
	Set(x, y int, index uint8)
}

// Ditherer maps every source pixel to a palette index. Per spec §4.5: an
// empty palette writes zeros everywhere; a single-color palette writes
// zero everywhere; two runs over identical inputs produce identical
// output.
type Ditherer interface {
	Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric)
}

// clamp8 clamps a signed arithmetic accumulator to a valid byte.
func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// nearest resolves a color to a palette index via the supplied lookup
// cache, returning 0 when the lookup finds nothing. Callers construct one
// Lookup per Dither call and reuse it across the whole image.
func nearest(lk *paletteindex.Lookup, c metric.RGBA) uint8 {
	idx, ok := lk.Find(c)
	if !ok {
		return 0
	}
	return idx
}

// writeDegenerate handles the two palette edge cases common to every
// ditherer: empty and single-color palettes both resolve to an all-zero
// target without consulting the source at all.
func writeDegenerate(dst Target, palette []metric.RGBA) bool {
	if len(palette) > 1 {
		return false
	}
	w, h := dst.Width(), dst.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, 0)
		}
	}
	return true
}
