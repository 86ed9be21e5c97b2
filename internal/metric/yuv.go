package metric

// toYUV converts 8-bit RGB to analog YUV (BT.601 matrix).
func toYUV(c RGBA) (y, u, v float64) {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	y = 0.299*r + 0.587*g + 0.114*b
	u = -0.14713*r - 0.28886*g + 0.436*b
	v = 0.615*r - 0.51499*g - 0.10001*b
	return
}

// toYCbCr converts 8-bit RGB to digital Y'CbCr (BT.601, full range as in
// JPEG/JFIF).
func toYCbCr(c RGBA) (y, cb, cr float64) {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	y = 0.299*r + 0.587*g + 0.114*b
	cb = 128 - 0.168736*r - 0.331264*g + 0.5*b
	cr = 128 + 0.5*r - 0.418688*g - 0.081312*b
	return
}

// WeightedYUV converts both colors to YUV and measures weighted Euclidean
// distance in luma-chroma space.
func WeightedYUV(wy, wu, wv float64) Metric {
	return funcMetric{"WeightedYUV", func(a, b RGBA) uint32 {
		y1, u1, v1 := toYUV(a)
		y2, u2, v2 := toYUV(b)
		dy, du, dv := y1-y2, u1-u2, v1-v2
		return uint32(wy*dy*dy + wu*du*du + wv*dv*dv)
	}}
}

// WeightedYCbCr is WeightedYUV's digital-space sibling.
func WeightedYCbCr(wy, wcb, wcr float64) Metric {
	return funcMetric{"WeightedYCbCr", func(a, b RGBA) uint32 {
		y1, cb1, cr1 := toYCbCr(a)
		y2, cb2, cr2 := toYCbCr(b)
		dy, dcb, dcr := y1-y2, cb1-cb2, cr1-cr2
		return uint32(wy*dy*dy + wcb*dcb*dcb + wcr*dcr*dcr)
	}}
}

// PNGQuant mirrors pngquant's perceptual weighting: luma dominates, with a
// smaller chroma contribution and an alpha term folded in for consistency
// with sources that carry partial transparency.
func PNGQuant() Metric {
	return funcMetric{"PNGQuant", func(a, b RGBA) uint32 {
		y1, cb1, cr1 := toYCbCr(a)
		y2, cb2, cr2 := toYCbCr(b)
		dy, dcb, dcr := y1-y2, cb1-cb2, cr1-cr2
		da := float64(int32(a.A) - int32(b.A))
		return uint32(2*dy*dy + dcb*dcb + dcr*dcr + 0.5*da*da)
	}}
}
