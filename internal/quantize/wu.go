package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// wuReducer implements a simplified greedy variant of Wu's color
// quantizer: colors live in a single 3-D box that is repeatedly split
// along the channel and position that minimizes the sum of the two
// resulting boxes' weighted variance (the "greedy orthogonal
// bipartitioning" spec §4.4 names as a Wu sibling), rather than Wu's
// original moment-table O(1)-per-candidate variant.
//
// No example repo in the pack implements Wu's algorithm; this is built
// from the classical description, following the same box/average/split
// shape as mediancut.go and variance.go's varianceReducer so the three sit
// together as siblings in this package, per spec §4.4 grouping them as
// "variance-family" algorithms.
type wuReducer struct{}

// NewWu builds the greedy variance-minimizing Quantizer.
func NewWu() *Quantizer { return New("Wu", wuReducer{}) }

type wuBox struct {
	colors []ColorCount
}

func (b wuBox) totalCount() uint64 {
	var total uint64
	for _, c := range b.colors {
		total += uint64(c.Count)
	}
	return total
}

func (b wuBox) mean() (r, g, bl float64) {
	var rSum, gSum, bSum float64
	total := float64(b.totalCount())
	if total == 0 {
		return 0, 0, 0
	}
	for _, cc := range b.colors {
		w := float64(cc.Count)
		rSum += float64(cc.Color.R) * w
		gSum += float64(cc.Color.G) * w
		bSum += float64(cc.Color.B) * w
	}
	return rSum / total, gSum / total, bSum / total
}

func (b wuBox) variance() float64 {
	mr, mg, mb := b.mean()
	var acc float64
	for _, cc := range b.colors {
		w := float64(cc.Count)
		dr := float64(cc.Color.R) - mr
		dg := float64(cc.Color.G) - mg
		db := float64(cc.Color.B) - mb
		acc += w * (dr*dr + dg*dg + db*db)
	}
	return acc
}

// bestSplit tries all three channels and every valid cut point, returning
// the split minimizing combined child variance.
func (b wuBox) bestSplit() (wuBox, wuBox, bool) {
	if len(b.colors) < 2 {
		return wuBox{}, wuBox{}, false
	}

	type candidate struct {
		left, right []ColorCount
		score       float64
	}
	var best *candidate

	for ch := 0; ch < 3; ch++ {
		sorted := make([]ColorCount, len(b.colors))
		copy(sorted, b.colors)
		insertionSortByChannel(sorted, ch)

		for cut := 1; cut < len(sorted); cut++ {
			left := wuBox{colors: sorted[:cut]}
			right := wuBox{colors: sorted[cut:]}
			if left.totalCount() == 0 || right.totalCount() == 0 {
				continue
			}
			score := left.variance() + right.variance()
			if best == nil || score < best.score {
				best = &candidate{left: left.colors, right: right.colors, score: score}
			}
		}
	}

	if best == nil {
		return wuBox{}, wuBox{}, false
	}
	return wuBox{colors: best.left}, wuBox{colors: best.right}, true
}

func insertionSortByChannel(h []ColorCount, ch int) {
	for i := 1; i < len(h); i++ {
		j := i
		for j > 0 && channelOf(h[j-1].Color, ch) > channelOf(h[j].Color, ch) {
			h[j-1], h[j] = h[j], h[j-1]
			j--
		}
	}
}

func (b wuBox) average() metric.RGBA {
	mr, mg, mb := b.mean()
	return metric.RGBA{A: 255, R: uint8(mr), G: uint8(mg), B: uint8(mb)}
}

func (wuReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	boxes := []wuBox{{colors: append(Histogram(nil), hist...)}}

	for len(boxes) < n {
		// Split the box whose split would reduce total variance the most.
		bi := -1
		var bestGain float64
		var bestLeft, bestRight wuBox
		for i, b := range boxes {
			left, right, ok := b.bestSplit()
			if !ok {
				continue
			}
			gain := b.variance() - (left.variance() + right.variance())
			if bi == -1 || gain > bestGain {
				bi = i
				bestGain = gain
				bestLeft, bestRight = left, right
			}
		}
		if bi == -1 {
			break
		}
		boxes[bi] = bestLeft
		boxes = append(boxes, bestRight)
	}

	out := make([]metric.RGBA, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.average())
	}
	return out
}
