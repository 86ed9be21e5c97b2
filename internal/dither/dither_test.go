package dither

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

type fakeSource struct {
	w, h int
	fn   func(x, y int) metric.RGBA
}

func (s fakeSource) Width() int  { return s.w }
func (s fakeSource) Height() int { return s.h }
func (s fakeSource) At(x, y int) metric.RGBA { return s.fn(x, y) }

type fakeTarget struct {
	w, h int
	pix  []uint8
}

func newFakeTarget(w, h int) *fakeTarget { return &fakeTarget{w: w, h: h, pix: make([]uint8, w*h)} }
func (t *fakeTarget) Width() int         { return t.w }
func (t *fakeTarget) Height() int        { return t.h }
func (t *fakeTarget) Set(x, y int, idx uint8) { t.pix[y*t.w+x] = idx }

func gradientSource(w, h int) fakeSource {
	return fakeSource{w: w, h: h, fn: func(x, y int) metric.RGBA {
		v := uint8(x * 255 / (w - 1))
		return metric.RGBA{A: 255, R: v, G: v, B: v}
	}}
}

func blackWhitePalette() []metric.RGBA {
	return []metric.RGBA{{A: 255}, {A: 255, R: 255, G: 255, B: 255}}
}

var allDitherers = []func() Ditherer{
	func() Ditherer { return NewErrorDiffusion("FloydSteinberg", true) },
	func() Ditherer { return NewErrorDiffusion("Atkinson", false) },
	func() Ditherer { return NewErrorDiffusion("Stucki", true) },
	func() Ditherer { return NewBayer(8) },
	func() Ditherer { return NewHalftone() },
	func() Ditherer { return NewUniform() },
	func() Ditherer { return NewRiemersma(16) },
	func() Ditherer { return NewSerpentineLinear(16) },
	func() Ditherer { return NewWhiteNoise(1, 0.5) },
	func() Ditherer { return NewBlueNoise(1, 0.5) },
	func() Ditherer { return NewKnoll(8, 16, 0.5) },
	func() Ditherer { return NewNClosest(4, NClosestDistanceWeighted, 1) },
	func() Ditherer { return NewNConvex(3, NConvexBarycentric, 1) },
	func() Ditherer { return NewAdaptive(StrategySmart, 1) },
}

func TestDitherersProduceInPaletteIndices(t *testing.T) {
	pal := blackWhitePalette()
	src := gradientSource(16, 4)
	m := metric.Euclidean()

	for _, mk := range allDitherers {
		d := mk()
		dst := newFakeTarget(16, 4)
		d.Dither(src, dst, pal, m)
		for _, idx := range dst.pix {
			assert.Less(t, int(idx), len(pal), "dithered index out of palette range")
		}
	}
}

func TestDitherersAreDeterministic(t *testing.T) {
	pal := blackWhitePalette()
	src := gradientSource(16, 4)
	m := metric.Euclidean()

	for _, mk := range allDitherers {
		d1, d2 := mk(), mk()
		dst1, dst2 := newFakeTarget(16, 4), newFakeTarget(16, 4)
		d1.Dither(src, dst1, pal, m)
		d2.Dither(src, dst2, pal, m)
		assert.Equal(t, dst1.pix, dst2.pix, "two runs over identical input must match")
	}
}

func TestEmptyPaletteWritesZero(t *testing.T) {
	d := NewErrorDiffusion("FloydSteinberg", false)
	src := gradientSource(4, 4)
	dst := newFakeTarget(4, 4)
	d.Dither(src, dst, nil, metric.Euclidean())
	for _, v := range dst.pix {
		assert.Zero(t, v)
	}
}

func TestSingleColorPaletteWritesZero(t *testing.T) {
	d := NewErrorDiffusion("FloydSteinberg", false)
	src := gradientSource(4, 4)
	dst := newFakeTarget(4, 4)
	d.Dither(src, dst, []metric.RGBA{{A: 255, R: 1, G: 2, B: 3}}, metric.Euclidean())
	for _, v := range dst.pix {
		assert.Zero(t, v)
	}
}

func TestGenerateBayerSizes(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16} {
		m, ok := GenerateBayer(n)
		require.True(t, ok)
		require.Len(t, m, n)
		require.Len(t, m[0], n)
	}
}

func TestRegistryForResolvesEveryKnownKind(t *testing.T) {
	kinds := []string{
		"None", "FloydSteinberg", "Atkinson", "Stucki", "Bayer", "Halftone", "Uniform",
		"Riemersma", "SerpentineLinear", "WhiteNoise", "BlueNoise", "BrownNoise",
		"PinkNoise", "Knoll", "NClosest", "NConvex", "Adaptive",
	}
	pal := blackWhitePalette()
	src := gradientSource(8, 2)
	m := metric.Euclidean()

	for _, k := range kinds {
		t.Run(k, func(t *testing.T) {
			d := For(Options{Kind: k, Seed: 1})
			require.NotNil(t, d)
			dst := newFakeTarget(8, 2)
			d.Dither(src, dst, pal, m)
		})
	}
}

func TestRegistryBayerIndexOverridesKind(t *testing.T) {
	d := For(Options{Kind: "FloydSteinberg", BayerIndex: 3})
	_, ok := d.(orderedDitherer)
	assert.True(t, ok, "bayer_index in [1,8] must override the configured ditherer with a Bayer matrix")
}
