package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// antRefineReducer wraps another Reducer, then refines its output palette
// via Lloyd's-style iterative reassignment (spec §4.4's "ant-refinement
// wrapper"): each iteration, assign every histogram color to its nearest
// current palette entry, then move each entry to the count-weighted
// centroid of its assigned cluster. A post-processing modifier, not a
// standalone quantizer.
//
// No pack example implements this refinement; built directly from spec
// §4.4's literal description.
type antRefineReducer struct {
	inner      Reducer
	iterations int
	seed       uint64
}

// NewAntRefine wraps inner with iterative-reassignment refinement,
// running the given number of iterations. seed is accepted for spec §6's
// RandomSeed option but the refinement itself is deterministic (Lloyd's
// algorithm has no stochastic step), so it is not otherwise consulted.
func NewAntRefine(name string, inner Reducer, iterations int, seed uint64) *Quantizer {
	if iterations <= 0 {
		iterations = 200
	}
	if seed == 0 {
		seed = 1
	}
	return New(name+"+Ant", antRefineReducer{inner: inner, iterations: iterations, seed: seed})
}

func sqDist(a, b metric.RGBA) int64 {
	dr := int64(int32(a.R) - int32(b.R))
	dg := int64(int32(a.G) - int32(b.G))
	db := int64(int32(a.B) - int32(b.B))
	return dr*dr + dg*dg + db*db
}

// nearestIndex returns the index of palette's entry closest to c.
func nearestIndex(palette []metric.RGBA, c metric.RGBA) int {
	best := 0
	bestDist := sqDist(c, palette[0])
	for i := 1; i < len(palette); i++ {
		d := sqDist(c, palette[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func (r antRefineReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	palette := r.inner.Reduce(n, hist)
	if len(palette) < 2 || len(hist) == 0 {
		return palette
	}

	type accum struct {
		rSum, gSum, bSum float64
		weight           float64
	}

	for iter := 0; iter < r.iterations; iter++ {
		sums := make([]accum, len(palette))
		for _, cc := range hist {
			i := nearestIndex(palette, cc.Color)
			w := float64(cc.Count)
			sums[i].rSum += float64(cc.Color.R) * w
			sums[i].gSum += float64(cc.Color.G) * w
			sums[i].bSum += float64(cc.Color.B) * w
			sums[i].weight += w
		}

		changed := false
		for i, s := range sums {
			if s.weight == 0 {
				continue // empty cluster: leave this entry where it was
			}
			centroid := metric.RGBA{
				A: 255,
				R: clamp8(s.rSum / s.weight),
				G: clamp8(s.gSum / s.weight),
				B: clamp8(s.bSum / s.weight),
			}
			if centroid != palette[i] {
				changed = true
			}
			palette[i] = centroid
		}
		if !changed {
			break // converged
		}
	}

	return palette
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
