package dither

import (
	"sort"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// nClosestSelection picks among the N nearest palette entries for a
// source color, per spec §4.5.F.
type nClosestSelection int

const (
	NClosestUniformRandom nClosestSelection = iota
	NClosestDistanceWeighted
	NClosestRoundRobin
	NClosestLuminance
	NClosestBlueNoise
)

// nClosestDitherer implements spec §4.5.F: find the N closest palette
// entries to the source color, then pick one via a configurable rule.
type nClosestDitherer struct {
	n         int
	selection nClosestSelection
	seed      uint64
	blueTile  [64][64]float64
}

// NewNClosest builds an N-Closest Ditherer.
func NewNClosest(n int, selection nClosestSelection, seed uint64) Ditherer {
	if n < 1 {
		n = 1
	}
	d := nClosestDitherer{n: n, selection: selection, seed: seed}
	if selection == NClosestBlueNoise {
		d.blueTile = generateBlueNoiseTile(seed)
	}
	return d
}

type candDist struct {
	idx  uint8
	dist uint32
}

func nClosestCandidates(c metric.RGBA, palette []metric.RGBA, m metric.Metric, n int) []candDist {
	all := make([]candDist, len(palette))
	for i, p := range palette {
		all[i] = candDist{idx: uint8(i), dist: m.Distance(c, p)}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func (d nClosestDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			cands := nClosestCandidates(c, palette, m, d.n)

			var chosen uint8
			switch d.selection {
			case NClosestUniformRandom:
				r := hash2D(x, y, d.seed)
				pos := int(r * float64(len(cands)))
				if pos >= len(cands) {
					pos = len(cands) - 1
				}
				chosen = cands[pos].idx

			case NClosestDistanceWeighted:
				// Weight inversely by distance: closer candidates are
				// proportionally more likely.
				var total float64
				weights := make([]float64, len(cands))
				for i, cd := range cands {
					w := 1.0 / float64(cd.dist+1)
					weights[i] = w
					total += w
				}
				r := hash2D(x, y, d.seed) * total
				var acc float64
				chosen = cands[len(cands)-1].idx
				for i, w := range weights {
					acc += w
					if r <= acc {
						chosen = cands[i].idx
						break
					}
				}

			case NClosestRoundRobin:
				pos := (x + 37*y) % len(cands)
				chosen = cands[pos].idx

			case NClosestLuminance:
				// Spec §9: uses sorted-list position as the luminance
				// proxy, not the candidate's real palette luminance —
				// reproduced literally rather than "fixed".
				targetLum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
				bestPos := 0
				bestDiff := -1.0
				for i := range cands {
					proxyLum := float64(i) / float64(len(cands)-1+1) * 255
					diff := proxyLum - targetLum
					if diff < 0 {
						diff = -diff
					}
					if bestDiff < 0 || diff < bestDiff {
						bestDiff = diff
						bestPos = i
					}
				}
				chosen = cands[bestPos].idx

			case NClosestBlueNoise:
				t := (d.blueTile[y%64][x%64] + 1) / 2
				pos := int(t * float64(len(cands)))
				if pos >= len(cands) {
					pos = len(cands) - 1
				}
				chosen = cands[pos].idx
			}

			dst.Set(x, y, chosen)
		}
	}
}
