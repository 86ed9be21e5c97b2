package dither

import (
	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// Options carries the subset of root Config fields the registry needs,
// mirroring internal/quantize/registry.go's plain-fields approach to
// avoid importing the root package.
type Options struct {
	Kind       string
	BayerIndex int // [1,8]; when set, overrides Kind to a Bayer matrix
	Serpentine bool
	Seed       uint64
}

// For resolves a configured ditherer kind to a Ditherer, applying the
// bayer_index override rule from spec §6/§7 before dispatching on Kind.
func For(opt Options) Ditherer {
	if opt.BayerIndex >= 1 && opt.BayerIndex <= 8 {
		return NewBayer(1 << uint(opt.BayerIndex))
	}

	switch opt.Kind {
	case "None":
		return nopDitherer{}
	case "FloydSteinberg", "EqualFloydSteinberg", "FalseFloydSteinberg",
		"JarvisJudiceNinke", "Stucki", "Atkinson", "Burkes", "Sierra",
		"TwoRowSierra", "SierraLite", "Pigeon", "StevensonArce",
		"ShiauFan", "ShiauFan2", "Fan93",
		"Simple", "TwoD", "Down", "DoubleDown", "Diagonal",
		"Diamond", "VerticalDiamond", "HorizontalDiamond":
		return NewErrorDiffusion(opt.Kind, opt.Serpentine)
	case "Bayer":
		return NewBayer(8)
	case "Halftone":
		return NewHalftone()
	case "Uniform":
		return NewUniform()
	case "Riemersma":
		return NewRiemersma(16)
	case "SerpentineLinear":
		return NewSerpentineLinear(16)
	case "WhiteNoise":
		return NewWhiteNoise(opt.Seed, 0.5)
	case "BlueNoise":
		return NewBlueNoise(opt.Seed, 0.5)
	case "BrownNoise":
		return NewBrownNoise(opt.Seed, 0.5)
	case "PinkNoise":
		return NewPinkNoise(opt.Seed, 0.5)
	case "Knoll":
		return NewKnoll(8, 16, 0.5)
	case "NClosest":
		return NewNClosest(4, NClosestDistanceWeighted, opt.Seed)
	case "NConvex":
		return NewNConvex(3, NConvexBarycentric, opt.Seed)
	case "Adaptive":
		return NewAdaptive(StrategySmart, opt.Seed)
	default:
		return NewErrorDiffusion("FloydSteinberg", opt.Serpentine)
	}
}

// nopDitherer writes each pixel's nearest palette index: the "None"
// option skips dithering and relies purely on nearest-color lookup with
// no error feedback or threshold perturbation at all.
type nopDitherer struct{}

func (nopDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}
	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, nearest(lk, src.At(x, y)))
		}
	}
}
