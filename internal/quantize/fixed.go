package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// fixedReducer ignores the input histogram entirely and returns a fixed,
// literal palette, per spec §4.4's fixed-palette family (EGA16, VGA256,
// WebSafe216, Mac8Bit). These exist for users who want deterministic,
// platform-reference output rather than content-adaptive colors.
type fixedReducer struct {
	palette []metric.RGBA
}

// NewFixed wraps a literal palette as a Quantizer. The wrapping Quantizer
// still enforces the N-entry/dedup/single-color contract, so a fixed
// palette shorter than the requested N is padded the same way an
// adaptive algorithm's under-production would be.
func NewFixed(name string, palette []metric.RGBA) *Quantizer {
	return New(name, fixedReducer{palette: palette})
}

func (r fixedReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	if n >= len(r.palette) {
		return append([]metric.RGBA(nil), r.palette...)
	}
	return append([]metric.RGBA(nil), r.palette[:n]...)
}

func rgb(r, g, b uint8) metric.RGBA { return metric.RGBA{A: 255, R: r, G: g, B: b} }

// EGA16 is the 16-color EGA palette.
func EGA16() []metric.RGBA {
	return []metric.RGBA{
		rgb(0, 0, 0), rgb(0, 0, 170), rgb(0, 170, 0), rgb(0, 170, 170),
		rgb(170, 0, 0), rgb(170, 0, 170), rgb(170, 85, 0), rgb(170, 170, 170),
		rgb(85, 85, 85), rgb(85, 85, 255), rgb(85, 255, 85), rgb(85, 255, 255),
		rgb(255, 85, 85), rgb(255, 85, 255), rgb(255, 255, 85), rgb(255, 255, 255),
	}
}

// VGA256 is the standard 6x6x6 color cube plus a 40-shade grayscale ramp
// used by the VGA 256-color default palette.
func VGA256() []metric.RGBA {
	steps := [6]uint8{0, 51, 102, 153, 204, 255}
	out := make([]metric.RGBA, 0, 256)
	for _, r := range steps {
		for _, g := range steps {
			for _, b := range steps {
				out = append(out, rgb(r, g, b))
			}
		}
	}
	for i := 0; i < 256-len(out); i++ {
		v := uint8((i * 255) / 39)
		out = append(out, rgb(v, v, v))
	}
	return out
}

// WebSafe216 is the 6x6x6 web-safe color cube (steps of 51).
func WebSafe216() []metric.RGBA {
	steps := [6]uint8{0, 51, 102, 153, 204, 255}
	out := make([]metric.RGBA, 0, 216)
	for _, r := range steps {
		for _, g := range steps {
			for _, b := range steps {
				out = append(out, rgb(r, g, b))
			}
		}
	}
	return out
}

// Mac8Bit is the classic Macintosh 8-bit system palette's color cube
// approximation (6x6x6 cube plus the grayscale ramp, the Mac palette's
// documented structure prior to its irregular final 16 entries).
func Mac8Bit() []metric.RGBA {
	steps := [6]uint8{255, 204, 153, 102, 51, 0}
	out := make([]metric.RGBA, 0, 256)
	for _, r := range steps {
		for _, g := range steps {
			for _, b := range steps {
				out = append(out, rgb(r, g, b))
			}
		}
	}
	for i := 0; i < 256-len(out); i++ {
		v := uint8(255 - (i*255)/39)
		out = append(out, rgb(v, v, v))
	}
	return out
}
