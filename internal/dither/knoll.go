package dither

import (
	"sort"

	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// knollDitherer implements spec §4.5.E: generate K candidate palette
// indices by iteratively nudging a running "goal" color toward the
// original pixel, sort candidates by luminance, and pick the one at the
// Bayer-matrix-selected rank. Named for Thomas Knoll's ordered-dither
// variant used in several commercial image editors.
type knollDitherer struct {
	bayer            [][]int
	size             int
	k                int
	errorMultiplier  float64
}

// NewKnoll builds a Knoll ordered Ditherer. k selects how many candidates
// are generated per pixel (8, 16, or 32); errorMultiplier controls how
// strongly each iteration's residual feeds into the next candidate's goal
// (0.25, 0.5, or 0.75 per spec).
func NewKnoll(bayerSize, k int, errorMultiplier float64) Ditherer {
	m, ok := GenerateBayer(bayerSize)
	if !ok {
		m, _ = GenerateBayer(8)
		bayerSize = 8
	}
	if k != 8 && k != 16 && k != 32 {
		k = 16
	}
	return knollDitherer{bayer: m, size: bayerSize, k: k, errorMultiplier: errorMultiplier}
}

func (d knollDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)
	s := d.size

	type candidate struct {
		idx uint8
		lum float64
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			goal := [3]float64{float64(c.R), float64(c.G), float64(c.B)}

			candidates := make([]candidate, 0, d.k)
			for i := 0; i < d.k; i++ {
				gc := metric.RGBA{
					A: c.A,
					R: clamp8(int32(goal[0])),
					G: clamp8(int32(goal[1])),
					B: clamp8(int32(goal[2])),
				}
				idx := nearest(lk, gc)
				chosen := palette[idx]

				lum := 0.299*float64(chosen.R) + 0.587*float64(chosen.G) + 0.114*float64(chosen.B)
				candidates = append(candidates, candidate{idx: idx, lum: lum})

				goal[0] += (float64(c.R) - float64(chosen.R)) * d.errorMultiplier
				goal[1] += (float64(c.G) - float64(chosen.G)) * d.errorMultiplier
				goal[2] += (float64(c.B) - float64(chosen.B)) * d.errorMultiplier
			}

			sort.Slice(candidates, func(i, j int) bool { return candidates[i].lum < candidates[j].lum })

			pos := (d.bayer[y%s][x%s] * d.k) / (s * s)
			if pos >= len(candidates) {
				pos = len(candidates) - 1
			}
			dst.Set(x, y, candidates[pos].idx)
		}
	}
}
