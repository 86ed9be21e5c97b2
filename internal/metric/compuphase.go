package metric

// CompuPhase implements the "redmean" approximation:
//
//	rMean = (r1+r2)/2
//	d = ((512+rMean)*dr^2 >> 8) + 4*dg^2 + ((767-rMean)*db^2 >> 8)
//
// This is the pipeline's Default metric (spec §6).
func CompuPhase() Metric {
	return funcMetric{"CompuPhase", func(a, b RGBA) uint32 {
		rMean := (int64(a.R) + int64(b.R)) / 2
		dr := int64(a.R) - int64(b.R)
		dg := int64(a.G) - int64(b.G)
		db := int64(a.B) - int64(b.B)

		d := ((512+rMean)*dr*dr)>>8 + 4*dg*dg + ((767-rMean)*db*db)>>8
		if d < 0 {
			d = 0
		}
		return uint32(d)
	}}
}
