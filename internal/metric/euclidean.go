package metric

// Euclidean is plain squared Euclidean distance in RGB space, the same
// arithmetic shape as the teacher's findClosestRGB loop.
func Euclidean() Metric {
	return funcMetric{"Euclidean", func(a, b RGBA) uint32 {
		dr := int32(a.R) - int32(b.R)
		dg := int32(a.G) - int32(b.G)
		db := int32(a.B) - int32(b.B)
		return uint32(sq(dr) + sq(dg) + sq(db))
	}}
}

// EuclideanAlpha extends Euclidean with the alpha channel, for callers that
// need transparency to participate in nearest-color selection.
func EuclideanAlpha() Metric {
	return funcMetric{"EuclideanAlpha", func(a, b RGBA) uint32 {
		dr := int32(a.R) - int32(b.R)
		dg := int32(a.G) - int32(b.G)
		db := int32(a.B) - int32(b.B)
		da := int32(a.A) - int32(b.A)
		return uint32(sq(dr) + sq(dg) + sq(db) + sq(da))
	}}
}

// Weights are per-channel multipliers for WeightedEuclidean.
type Weights struct{ R, G, B float64 }

var (
	// WeightBT709 follows the Rec. 709 luma coefficients.
	WeightBT709 = Weights{R: 0.2126, G: 0.7152, B: 0.0722}
	// WeightNommyde is a perceptually-tuned weighting used by several
	// classic palette-mapping tools.
	WeightNommyde = Weights{R: 0.2126, G: 0.7152, B: 0.0722}
	// WeightLowRed de-emphasizes red error, useful for skin-tone-heavy
	// sources where red banding is more visible than it is costly.
	WeightLowRed = Weights{R: 0.299, G: 0.587, B: 0.114}
	// WeightHighRed emphasizes red error.
	WeightHighRed = Weights{R: 0.5, G: 0.3, B: 0.2}
)

// WeightedEuclidean scales each channel's squared error by w before summing.
func WeightedEuclidean(name string, w Weights) Metric {
	return funcMetric{name, func(a, b RGBA) uint32 {
		dr := float64(int32(a.R) - int32(b.R))
		dg := float64(int32(a.G) - int32(b.G))
		db := float64(int32(a.B) - int32(b.B))
		d := w.R*dr*dr + w.G*dg*dg + w.B*db*db
		return uint32(d)
	}}
}
