package quantize

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// binarySplitReducer implements PCA-based binary splitting: each box is
// projected to CIELAB (via go-colorful, the same conversion
// internal/metric's CIE family uses), its principal axis found via power
// iteration on the 3x3 weighted covariance matrix, and the box split at
// the weighted median along that axis. This is the algorithm spec §4.4
// calls out separately from the plain binarysplit entries in the
// variance family, since the split axis is data-driven rather than a
// fixed channel.
//
// Grounded on go-colorful's Color.Lab() (already used by
// internal/metric/cie.go) for the perceptual projection; the
// power-iteration eigensolver itself has no pack analogue and is
// implemented directly from the standard PCA formulation.
type binarySplitReducer struct{}

// NewBinarySplit builds the PCA binary-split Quantizer.
func NewBinarySplit() *Quantizer { return New("BinarySplit", binarySplitReducer{}) }

type labPoint struct {
	l, a, b float64
	weight  float64
	orig    metric.RGBA
}

func toLabPoints(hist Histogram) []labPoint {
	out := make([]labPoint, len(hist))
	for i, cc := range hist {
		cf := colorful.Color{
			R: float64(cc.Color.R) / 255.0,
			G: float64(cc.Color.G) / 255.0,
			B: float64(cc.Color.B) / 255.0,
		}
		l, a, b := cf.Lab()
		out[i] = labPoint{l: l, a: a, b: b, weight: float64(cc.Count), orig: cc.Color}
	}
	return out
}

type bsBox struct {
	points []labPoint
}

func (b bsBox) totalWeight() float64 {
	var total float64
	for _, p := range b.points {
		total += p.weight
	}
	return total
}

func (b bsBox) mean() (l, a, bb float64) {
	total := b.totalWeight()
	if total == 0 {
		return 0, 0, 0
	}
	for _, p := range b.points {
		l += p.l * p.weight
		a += p.a * p.weight
		bb += p.b * p.weight
	}
	return l / total, a / total, bb / total
}

// covariance returns the 3x3 weighted covariance matrix of the box's Lab
// coordinates, flattened row-major.
func (b bsBox) covariance() [9]float64 {
	ml, ma, mb := b.mean()
	total := b.totalWeight()
	var cov [9]float64
	if total == 0 {
		return cov
	}
	for _, p := range b.points {
		dl := p.l - ml
		da := p.a - ma
		db := p.b - mb
		w := p.weight
		cov[0] += w * dl * dl
		cov[1] += w * dl * da
		cov[2] += w * dl * db
		cov[3] += w * da * dl
		cov[4] += w * da * da
		cov[5] += w * da * db
		cov[6] += w * db * dl
		cov[7] += w * db * da
		cov[8] += w * db * db
	}
	for i := range cov {
		cov[i] /= total
	}
	return cov
}

// principalAxis finds the dominant eigenvector of a 3x3 symmetric matrix
// via power iteration. Returns (0,0,0) with ok=false if the box has zero
// variance (all points coincide), signaling the caller to treat the box
// as unsplittable and fall back to an identity/positional split.
func principalAxis(cov [9]float64) (axis [3]float64, ok bool) {
	v := [3]float64{1, 1, 1}
	for iter := 0; iter < 50; iter++ {
		nv := [3]float64{
			cov[0]*v[0] + cov[1]*v[1] + cov[2]*v[2],
			cov[3]*v[0] + cov[4]*v[1] + cov[5]*v[2],
			cov[6]*v[0] + cov[7]*v[1] + cov[8]*v[2],
		}
		norm := math.Sqrt(nv[0]*nv[0] + nv[1]*nv[1] + nv[2]*nv[2])
		if norm < 1e-12 {
			// Open Question resolution: zero-variance box (a uniform
			// color cluster) has no meaningful principal axis; treat as
			// the identity transform and let the caller fall back to a
			// positional split instead of spinning on a degenerate
			// matrix.
			return [3]float64{0, 0, 0}, false
		}
		v = [3]float64{nv[0] / norm, nv[1] / norm, nv[2] / norm}
	}
	return v, true
}

func (b bsBox) split() (bsBox, bsBox, bool) {
	if len(b.points) < 2 {
		return bsBox{}, bsBox{}, false
	}

	cov := b.covariance()
	axis, ok := principalAxis(cov)
	if !ok {
		mid := len(b.points) / 2
		return bsBox{points: b.points[:mid]}, bsBox{points: b.points[mid:]}, true
	}

	proj := func(p labPoint) float64 {
		return p.l*axis[0] + p.a*axis[1] + p.b*axis[2]
	}

	sorted := make([]labPoint, len(b.points))
	copy(sorted, b.points)
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && proj(sorted[j-1]) > proj(sorted[j]) {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			j--
		}
	}

	total := b.totalWeight()
	half := total / 2
	var running float64
	cut := len(sorted) / 2
	for i, p := range sorted {
		running += p.weight
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

	return bsBox{points: sorted[:cut]}, bsBox{points: sorted[cut:]}, true
}

func (b bsBox) average() metric.RGBA {
	var rSum, gSum, bSum, total uint64
	for _, p := range b.points {
		w := uint64(p.weight)
		rSum += uint64(p.orig.R) * w
		gSum += uint64(p.orig.G) * w
		bSum += uint64(p.orig.B) * w
		total += w
	}
	if total == 0 {
		if len(b.points) > 0 {
			return b.points[0].orig
		}
		return metric.RGBA{A: 255}
	}
	return metric.RGBA{A: 255, R: uint8(rSum / total), G: uint8(gSum / total), B: uint8(bSum / total)}
}

func (binarySplitReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	boxes := []bsBox{{points: toLabPoints(hist)}}

	for len(boxes) < n {
		bi := -1
		var bestWeight float64
		for i, b := range boxes {
			if len(b.points) < 2 {
				continue
			}
			w := b.totalWeight()
			if bi == -1 || w > bestWeight {
				bi = i
				bestWeight = w
			}
		}
		if bi == -1 {
			break
		}
		left, right, ok := boxes[bi].split()
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
