package metric

// Kind mirrors the root package's MetricKind as a plain string so this
// package stays independent of it.
type Kind string

// For resolves a configured metric kind to a Metric instance. "Default" (or
// the empty string) resolves to CompuPhase, the pipeline's zero-config
// metric per spec §6.
func For(kind Kind) Metric {
	switch kind {
	case "Euclidean":
		return Euclidean()
	case "EuclideanAlpha":
		return EuclideanAlpha()
	case "WeightedEuclidean", "WeightedBT709":
		return WeightedEuclidean("WeightedBT709", WeightBT709)
	case "WeightedNommyde":
		return WeightedEuclidean("WeightedNommyde", WeightNommyde)
	case "WeightedLowRed":
		return WeightedEuclidean("WeightedLowRed", WeightLowRed)
	case "WeightedHighRed":
		return WeightedEuclidean("WeightedHighRed", WeightHighRed)
	case "Manhattan":
		return Manhattan()
	case "WeightedManhattan":
		return WeightedManhattan(WeightBT709)
	case "WeightedYUV":
		return WeightedYUV(4, 1, 1)
	case "WeightedYCbCr":
		return WeightedYCbCr(4, 1, 1)
	case "PNGQuant":
		return PNGQuant()
	case "CIE94Textiles":
		return CIE94Textiles()
	case "CIE94GraphicArts":
		return CIE94GraphicArts()
	case "CIEDE2000":
		return CIEDE2000()
	case "CompuPhase", "Default", "":
		return CompuPhase()
	default:
		return CompuPhase()
	}
}
