package metric

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Manhattan sums absolute per-channel differences.
func Manhattan() Metric {
	return funcMetric{"Manhattan", func(a, b RGBA) uint32 {
		dr := abs32(int32(a.R) - int32(b.R))
		dg := abs32(int32(a.G) - int32(b.G))
		db := abs32(int32(a.B) - int32(b.B))
		return uint32(dr) + uint32(dg) + uint32(db)
	}}
}

// WeightedManhattan scales each channel's absolute error by w before summing.
func WeightedManhattan(w Weights) Metric {
	return funcMetric{"WeightedManhattan", func(a, b RGBA) uint32 {
		dr := float64(abs32(int32(a.R) - int32(b.R)))
		dg := float64(abs32(int32(a.G) - int32(b.G)))
		db := float64(abs32(int32(a.B) - int32(b.B)))
		return uint32(w.R*dr + w.G*dg + w.B*db)
	}}
}
