package dither

import "github.com/hicolorgif/hicolorgif/internal/metric"

// nConvexStrategy selects how a query's position inside the convex hull
// of its N closest palette entries is approximated, per spec §4.5.G.
type nConvexStrategy int

const (
	NConvexBarycentric nConvexStrategy = iota
	NConvexProjection
	NConvexSpatialHash
	NConvexWeightedRandom
)

// nConvexDitherer implements spec §4.5.G.
type nConvexDitherer struct {
	n        int
	strategy nConvexStrategy
	seed     uint64
}

// NewNConvex builds an N-Convex Ditherer.
func NewNConvex(n int, strategy nConvexStrategy, seed uint64) Ditherer {
	if n < 2 {
		n = 2
	}
	return nConvexDitherer{n: n, strategy: strategy, seed: seed}
}

func (d nConvexDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			cands := nClosestCandidates(c, palette, m, d.n)

			var chosen uint8
			switch d.strategy {
			case NConvexProjection:
				chosen = d.projection(c, palette, cands)
			case NConvexSpatialHash:
				idx := int(hash2D(x, y, d.seed) * float64(len(cands)))
				if idx >= len(cands) {
					idx = len(cands) - 1
				}
				chosen = cands[idx].idx
			case NConvexWeightedRandom:
				chosen = d.weightedRandom(x, y, cands)
			default: // NConvexBarycentric
				chosen = d.barycentric(c, palette, cands)
			}

			dst.Set(x, y, chosen)
		}
	}
}

// barycentric approximates the query's position within the hull of its N
// candidates by weighting each candidate inversely to its distance,
// normalizing, and picking the candidate with the largest resulting
// weight (a discrete stand-in for true barycentric interpolation, since
// the output must still be a single palette index).
func (d nConvexDitherer) barycentric(c metric.RGBA, palette []metric.RGBA, cands []candDist) uint8 {
	best := cands[0].idx
	var bestWeight float64 = -1
	for _, cd := range cands {
		w := 1.0 / float64(cd.dist+1)
		if w > bestWeight {
			bestWeight = w
			best = cd.idx
		}
	}
	return best
}

// projection handles N=2 as an orthogonal projection onto the line
// between the two candidates, and N>=3 as a centroid-oriented polygon:
// pick the candidate whose direction from the centroid best aligns with
// the query's direction from the centroid.
func (d nConvexDitherer) projection(c metric.RGBA, palette []metric.RGBA, cands []candDist) uint8 {
	if len(cands) == 2 {
		a := palette[cands[0].idx]
		b := palette[cands[1].idx]
		abx := float64(b.R) - float64(a.R)
		aby := float64(b.G) - float64(a.G)
		abz := float64(b.B) - float64(a.B)
		apx := float64(c.R) - float64(a.R)
		apy := float64(c.G) - float64(a.G)
		apz := float64(c.B) - float64(a.B)
		denom := abx*abx + aby*aby + abz*abz
		if denom == 0 {
			return cands[0].idx
		}
		t := (apx*abx + apy*aby + apz*abz) / denom
		if t < 0.5 {
			return cands[0].idx
		}
		return cands[1].idx
	}

	var cr, cg, cb float64
	for _, cd := range cands {
		p := palette[cd.idx]
		cr += float64(p.R)
		cg += float64(p.G)
		cb += float64(p.B)
	}
	n := float64(len(cands))
	cr, cg, cb = cr/n, cg/n, cb/n

	qx, qy, qz := float64(c.R)-cr, float64(c.G)-cg, float64(c.B)-cb
	qNorm := qx*qx + qy*qy + qz*qz

	best := cands[0].idx
	bestDot := -1.0
	for _, cd := range cands {
		p := palette[cd.idx]
		dx, dy, dz := float64(p.R)-cr, float64(p.G)-cg, float64(p.B)-cb
		dot := dx*qx + dy*qy + dz*qz
		if qNorm > 0 {
			dot /= qNorm
		}
		if dot > bestDot {
			bestDot = dot
			best = cd.idx
		}
	}
	return best
}

func (d nConvexDitherer) weightedRandom(x, y int, cands []candDist) uint8 {
	var total float64
	weights := make([]float64, len(cands))
	for i, cd := range cands {
		w := 1.0 / float64(cd.dist+1)
		weights[i] = w
		total += w
	}
	r := hash2D(x, y, d.seed) * total
	var acc float64
	for i, w := range weights {
		acc += w
		if r <= acc {
			return cands[i].idx
		}
	}
	return cands[len(cands)-1].idx
}
