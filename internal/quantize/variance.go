package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// varianceReducer splits the box with the largest variance (rather than
// Wu's largest-variance-reduction heuristic, or median-cut's
// largest-range heuristic) at its mean along its highest-variance
// channel. spec §4.4 lists "variance-based" and "variance-cut" as
// distinct named entries from Wu and median-cut, so this keeps its own,
// simpler split rule: one pass to find the worst box, one to find its
// dominant channel, cut at the mean rather than the weighted median.
//
// Built from the classical description (no direct pack analogue), kept
// alongside mediancut.go and wu.go as the third member of spec §4.4's
// variance-family trio.
type varianceReducer struct {
	cut bool // true selects the "variance-cut" edge-case behavior
}

// NewVarianceBased builds the variance-based Quantizer (splits at the
// weighted mean of the chosen channel).
func NewVarianceBased() *Quantizer { return New("VarianceBased", varianceReducer{cut: false}) }

// NewVarianceCut builds the variance-cut Quantizer (splits at the
// midpoint of the chosen channel's range instead of its mean, trading
// perceptual accuracy for a cheaper, more balanced split).
func NewVarianceCut() *Quantizer { return New("VarianceCut", varianceReducer{cut: true}) }

type vBox struct {
	colors []ColorCount
}

func (b vBox) totalCount() uint64 {
	var total uint64
	for _, c := range b.colors {
		total += uint64(c.Count)
	}
	return total
}

func (b vBox) channelVariance(ch int) (mean, variance float64) {
	total := float64(b.totalCount())
	if total == 0 {
		return 0, 0
	}
	var sum float64
	for _, cc := range b.colors {
		sum += float64(channelOf(cc.Color, ch)) * float64(cc.Count)
	}
	mean = sum / total
	var acc float64
	for _, cc := range b.colors {
		d := float64(channelOf(cc.Color, ch)) - mean
		acc += d * d * float64(cc.Count)
	}
	return mean, acc / total
}

func (b vBox) totalVariance() float64 {
	var total float64
	for ch := 0; ch < 3; ch++ {
		_, v := b.channelVariance(ch)
		total += v
	}
	return total
}

func (b vBox) dominantChannel() (ch int, mean float64) {
	bestV := -1.0
	for c := 0; c < 3; c++ {
		m, v := b.channelVariance(c)
		if v > bestV {
			bestV = v
			ch = c
			mean = m
		}
	}
	return
}

func (b vBox) channelRange(ch int) (lo, hi uint8) {
	lo, hi = 255, 0
	for _, cc := range b.colors {
		v := channelOf(cc.Color, ch)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return
}

func (b vBox) split(useMidpoint bool) (vBox, vBox, bool) {
	if len(b.colors) < 2 {
		return vBox{}, vBox{}, false
	}
	ch, mean := b.dominantChannel()

	threshold := mean
	if useMidpoint {
		lo, hi := b.channelRange(ch)
		threshold = (float64(lo) + float64(hi)) / 2
	}

	var left, right []ColorCount
	for _, cc := range b.colors {
		if float64(channelOf(cc.Color, ch)) <= threshold {
			left = append(left, cc)
		} else {
			right = append(right, cc)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		// Degenerate split (all colors on one side of the threshold):
		// fall back to an even positional split so the loop still
		// terminates.
		sorted := make([]ColorCount, len(b.colors))
		copy(sorted, b.colors)
		insertionSortByChannel(sorted, ch)
		mid := len(sorted) / 2
		left, right = sorted[:mid], sorted[mid:]
	}
	return vBox{colors: left}, vBox{colors: right}, true
}

func (b vBox) average() metric.RGBA {
	var rSum, gSum, bSum, total uint64
	for _, cc := range b.colors {
		w := uint64(cc.Count)
		rSum += uint64(cc.Color.R) * w
		gSum += uint64(cc.Color.G) * w
		bSum += uint64(cc.Color.B) * w
		total += w
	}
	if total == 0 {
		if len(b.colors) > 0 {
			return b.colors[0].Color
		}
		return metric.RGBA{A: 255}
	}
	return metric.RGBA{A: 255, R: uint8(rSum / total), G: uint8(gSum / total), B: uint8(bSum / total)}
}

func (r varianceReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	boxes := []vBox{{colors: append(Histogram(nil), hist...)}}

	for len(boxes) < n {
		bi := -1
		var worst float64
		for i, b := range boxes {
			if len(b.colors) < 2 {
				continue
			}
			v := b.totalVariance()
			if bi == -1 || v > worst {
				bi = i
				worst = v
			}
		}
		if bi == -1 {
			break
		}
		left, right, ok := boxes[bi].split(r.cut)
		if !ok {
			break
		}
		boxes[bi] = left
		boxes = append(boxes, right)
	}

	out := make([]metric.RGBA, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.average())
	}
	return out
}
