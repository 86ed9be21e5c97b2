package metric

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// toLab converts an 8-bit color to CIELAB via go-colorful's sRGB->Lab
// conversion, the same conversion willibrandon-aseprite-mcp's
// findNearestColor uses (through colorful.Color) before measuring
// perceptual distance.
func toLab(c RGBA) (l, a, bb float64) {
	cc := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	return cc.Lab()
}

// cieScale converts the perceptual Lab-space distances (roughly single
// digits to low hundreds for very different colors) to the integer scale
// the rest of the metrics operate on, so comparisons stay meaningful at u32
// (spec §4.1).
const cieScale = 1000.0

// cie94 implements the CIE94 color difference formula for the given
// application-specific K1/K2 impurity factors, with Kl=1 for graphic arts
// and Kl=2 for textiles per the two parameter sets spec §4.1 names.
func cie94(l1, a1, b1, l2, a2, b2, kl, k1, k2 float64) float64 {
	c1 := math.Hypot(a1, b1)
	c2 := math.Hypot(a2, b2)
	dl := l1 - l2
	dc := c1 - c2
	da := a1 - a2
	db := b1 - b2
	dhSq := da*da + db*db - dc*dc
	if dhSq < 0 {
		dhSq = 0
	}

	const kc, kh = 1.0, 1.0
	sl := 1.0
	// Weighting by the geometric mean of both chromas, rather than the
	// first color's chroma alone, keeps the distance symmetric.
	cm := math.Sqrt(c1 * c2)
	sc := 1 + k1*cm
	sh := 1 + k2*cm

	tl := dl / (kl * sl)
	tc := dc / (kc * sc)
	th := math.Sqrt(dhSq) / (kh * sh)

	return math.Sqrt(tl*tl + tc*tc + th*th)
}

// CIE94 implements CIE94 color difference with the given Kl/K1/K2
// parameters.
func CIE94(kl, k1, k2 float64) Metric {
	return funcMetric{"CIE94", func(a, b RGBA) uint32 {
		l1, a1, b1 := toLab(a)
		l2, a2, b2 := toLab(b)
		d := cie94(l1, a1, b1, l2, a2, b2, kl, k1, k2)
		return uint32(d * cieScale)
	}}
}

// CIE94Textiles uses the textile-industry parameter set (Kl=2, K1=0.048,
// K2=0.014).
func CIE94Textiles() Metric { return CIE94(2, 0.048, 0.014) }

// CIE94GraphicArts uses the graphic-arts parameter set (Kl=1, K1=0.045,
// K2=0.015).
func CIE94GraphicArts() Metric { return CIE94(1, 0.045, 0.015) }

// CIEDE2000 implements the 2000 revision of the CIE color difference
// formula, operating in CIELAB with its cube-root chroma term and atan2
// hue-angle handling.
func CIEDE2000() Metric {
	return funcMetric{"CIEDE2000", func(a, b RGBA) uint32 {
		l1, a1, b1 := toLab(a)
		l2, a2, b2 := toLab(b)
		d := ciede2000(l1, a1, b1, l2, a2, b2)
		return uint32(d * cieScale)
	}}
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// ciede2000 implements the Sharma/Wu/Dalal reference formula.
func ciede2000(L1, A1, B1, L2, A2, B2 float64) float64 {
	const kl, kc, kh = 1.0, 1.0, 1.0

	c1 := math.Hypot(A1, B1)
	c2 := math.Hypot(A2, B2)
	cBar := (c1 + c2) / 2

	g := 0.5 * (1 - math.Sqrt(math.Pow(cBar, 7)/(math.Pow(cBar, 7)+math.Pow(25, 7))))
	a1p := (1 + g) * A1
	a2p := (1 + g) * A2

	c1p := math.Hypot(a1p, B1)
	c2p := math.Hypot(a2p, B2)

	hp := func(a, b float64) float64 {
		if a == 0 && b == 0 {
			return 0
		}
		h := rad2deg(math.Atan2(b, a))
		if h < 0 {
			h += 360
		}
		return h
	}
	h1p := hp(a1p, B1)
	h2p := hp(a2p, B2)

	dLp := L2 - L1
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p == 0 {
		dhp = 0
	} else {
		dhp = h2p - h1p
		switch {
		case dhp > 180:
			dhp -= 360
		case dhp < -180:
			dhp += 360
		}
	}
	dHp := 2 * math.Sqrt(c1p*c2p) * math.Sin(deg2rad(dhp)/2)

	lBarP := (L1 + L2) / 2
	cBarP := (c1p + c2p) / 2

	var hBarP float64
	switch {
	case c1p*c2p == 0:
		hBarP = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		hBarP = (h1p + h2p) / 2
	case h1p+h2p < 360:
		hBarP = (h1p + h2p + 360) / 2
	default:
		hBarP = (h1p + h2p - 360) / 2
	}

	t := 1 - 0.17*math.Cos(deg2rad(hBarP-30)) +
		0.24*math.Cos(deg2rad(2*hBarP)) +
		0.32*math.Cos(deg2rad(3*hBarP+6)) -
		0.20*math.Cos(deg2rad(4*hBarP-63))

	dTheta := 30 * math.Exp(-math.Pow((hBarP-275)/25, 2))
	rc := 2 * math.Sqrt(math.Pow(cBarP, 7)/(math.Pow(cBarP, 7)+math.Pow(25, 7)))
	sl := 1 + (0.015*math.Pow(lBarP-50, 2))/math.Sqrt(20+math.Pow(lBarP-50, 2))
	sc := 1 + 0.045*cBarP
	sh := 1 + 0.015*cBarP*t
	rt := -math.Sin(deg2rad(2*dTheta)) * rc

	tl := dLp / (kl * sl)
	tc := dCp / (kc * sc)
	th := dHp / (kh * sh)

	return math.Sqrt(tl*tl + tc*tc + th*th + rt*tc*th)
}
