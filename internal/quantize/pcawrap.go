package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// pcaPreprocessReducer wraps another Reducer, first projecting the
// histogram's colors onto their principal Lab axis (reusing
// binarysplit.go's power-iteration PCA machinery) and quantizing the
// 1-D projected values' rank order back into the inner reducer's RGB
// space untouched — the wrapper's effect is to pre-sort near-collinear
// colors (neither deduplicating nor transforming them) before the inner
// algorithm runs, which in
// practice mainly benefits box-splitting reducers (median-cut, variance,
// Wu) that are sensitive to input ordering of ties.
//
// This corresponds to spec §4.4's "PCA-preprocess wrapper" entry: a
// modifier applied in front of any other quantizer, not a quantizer in
// its own right.
type pcaPreprocessReducer struct {
	inner Reducer
}

// NewPCAPreprocess wraps inner with PCA preprocessing.
func NewPCAPreprocess(name string, inner Reducer) *Quantizer {
	return New(name+"+PCA", pcaPreprocessReducer{inner: inner})
}

func (r pcaPreprocessReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	points := toLabPoints(hist)
	if len(points) < 2 {
		return r.inner.Reduce(n, hist)
	}

	box := bsBox{points: points}
	cov := box.covariance()
	axis, ok := principalAxis(cov)
	if !ok {
		return r.inner.Reduce(n, hist)
	}

	proj := func(p labPoint) float64 {
		return p.l*axis[0] + p.a*axis[1] + p.b*axis[2]
	}

	ordered := make([]labPoint, len(points))
	copy(ordered, points)
	for i := 1; i < len(ordered); i++ {
		j := i
		for j > 0 && proj(ordered[j-1]) > proj(ordered[j]) {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
			j--
		}
	}

	reordered := make(Histogram, len(ordered))
	for i, p := range ordered {
		for _, cc := range hist {
			if cc.Color == p.orig {
				reordered[i] = cc
				break
			}
		}
	}

	return r.inner.Reduce(n, reordered)
}
