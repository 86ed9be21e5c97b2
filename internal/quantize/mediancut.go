package quantize

import (
	"sort"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// mediancutReducer implements the classic median-cut algorithm: repeatedly
// split the box with the largest total count along its widest channel at
// the weighted median, until there are n boxes, then average each box.
//
// Grounded on soniakeys-quant's median/median.go box-splitting recursion
// (longest axis selection, weighted-median split point, box population
// carried as indices into a shared color slice rather than copied slices).
type mediancutReducer struct{}

// NewMedianCut builds the classic median-cut Quantizer.
func NewMedianCut() *Quantizer { return New("MedianCut", mediancutReducer{}) }

type mcBox struct {
	colors []ColorCount
}

func (b mcBox) totalCount() uint32 {
	var total uint32
	for _, c := range b.colors {
		total += c.Count
	}
	return total
}

// widestChannel returns the channel (0=R,1=G,2=B) with the widest spread.
func (b mcBox) widestChannel() int {
	var minV, maxV [3]uint8
	minV = [3]uint8{255, 255, 255}
	for _, cc := range b.colors {
		rgb := [3]uint8{cc.Color.R, cc.Color.G, cc.Color.B}
		for i := 0; i < 3; i++ {
			if rgb[i] < minV[i] {
				minV[i] = rgb[i]
			}
			if rgb[i] > maxV[i] {
				maxV[i] = rgb[i]
			}
		}
	}
	best := 0
	bestSpread := 0
	for i := 0; i < 3; i++ {
		spread := int(maxV[i]) - int(minV[i])
		if spread > bestSpread {
			bestSpread = spread
			best = i
		}
	}
	return best
}

func channelOf(c metric.RGBA, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// split partitions b along its widest channel at the point where cumulative
// weighted count first reaches half the box's total, producing two boxes.
func (b mcBox) split() (mcBox, mcBox) {
	ch := b.widestChannel()
	sorted := make([]ColorCount, len(b.colors))
	copy(sorted, b.colors)
	sort.Slice(sorted, func(i, j int) bool {
		return channelOf(sorted[i].Color, ch) < channelOf(sorted[j].Color, ch)
	})

	total := b.totalCount()
	half := total / 2
	var running uint32
	cut := len(sorted) / 2
	for i, cc := range sorted {
		running += cc.Count
		if running >= half {
			cut = i + 1
			break
		}
	}
	if cut <= 0 {
		cut = 1
	}
	if cut >= len(sorted) {
		cut = len(sorted) - 1
	}

	return mcBox{colors: sorted[:cut]}, mcBox{colors: sorted[cut:]}
}

func (b mcBox) average() metric.RGBA {
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
	return metric.RGBA{
		A: 255,
		R: uint8(rSum / total),
		G: uint8(gSum / total),
		B: uint8(bSum / total),
	}
}

func (mediancutReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	boxes := []mcBox{{colors: append(Histogram(nil), hist...)}}

	for len(boxes) < n {
		// Pick the box with the largest total count to split next (the
		// soniakeys lineage splits the most "weighty" box first so early
		// splits separate dominant colors rather than rare outliers).
		bi := -1
		var bestWeight uint32
		for i, b := range boxes {
			if len(b.colors) < 2 {
				continue
			}
			w := b.totalCount()
			if bi == -1 || w > bestWeight {
				bi = i
				bestWeight = w
			}
		}
		if bi == -1 {
			break
		}

		left, right := boxes[bi].split()
		boxes[bi] = left
		boxes = append(boxes, right)
	}

	out := make([]metric.RGBA, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.average())
	}
	return out
}
