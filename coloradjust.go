package hicolorgif

import "math"

// applyColorAdjustments returns a PixelBuffer with saturation and contrast
// boosts applied, per spec §12's pre-histogram color adjustment knobs.
// 1.0 for either factor leaves the source unchanged, so the common case
// (DefaultConfig) skips the per-pixel walk entirely.
func applyColorAdjustments(src PixelBuffer, saturation, contrast float64) PixelBuffer {
	if saturation == 1.0 && contrast == 1.0 {
		return src
	}

	w, h := src.Width(), src.Height()
	out := make([]Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = adjustPixel(src.At(x, y), saturation, contrast)
		}
	}
	return NewPixelBuffer(w, h, out)
}

// adjustPixel boosts saturation around the pixel's own luma (so gray stays
// gray) and boosts contrast around mid-gray, matching the order a simple
// photo-editing pipeline applies them: saturation first, then contrast.
func adjustPixel(c Color, saturation, contrast float64) Color {
	l := c.Luminance()

	r := l + (float64(c.R)-l)*saturation
	g := l + (float64(c.G)-l)*saturation
	b := l + (float64(c.B)-l)*saturation

	const mid = 127.5
	r = mid + (r-mid)*contrast
	g = mid + (g-mid)*contrast
	b = mid + (b-mid)*contrast

	return Color{
		A: c.A,
		R: clampChannel(r),
		G: clampChannel(g),
		B: clampChannel(b),
	}
}

func clampChannel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
