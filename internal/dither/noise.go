package dither

import (
	"github.com/hicolorgif/hicolorgif/internal/metric"
	"github.com/hicolorgif/hicolorgif/internal/paletteindex"
)

// noiseSpectrum selects a deterministic pseudo-random threshold source
// per spec §4.5.D.
type noiseSpectrum int

const (
	noiseWhite noiseSpectrum = iota
	noiseBlue
	noiseBrown
	noisePink
)

// noiseDitherer implements spec §4.5.D. All spectra are pure functions of
// (x, y, seed): no mutable RNG state, so determinism (spec §4.5's
// contract and §8's testable property) holds trivially.
type noiseDitherer struct {
	spectrum  noiseSpectrum
	seed      uint64
	intensity float64
	blueTile  [64][64]float64
}

// NewWhiteNoise builds a white-noise Ditherer.
func NewWhiteNoise(seed uint64, intensity float64) Ditherer {
	return noiseDitherer{spectrum: noiseWhite, seed: seed, intensity: clampIntensity(intensity)}
}

// NewBlueNoise builds a blue-noise Ditherer, precomputing its 64x64 tile.
func NewBlueNoise(seed uint64, intensity float64) Ditherer {
	d := noiseDitherer{spectrum: noiseBlue, seed: seed, intensity: clampIntensity(intensity)}
	d.blueTile = generateBlueNoiseTile(seed)
	return d
}

// NewBrownNoise builds a brown-noise Ditherer.
func NewBrownNoise(seed uint64, intensity float64) Ditherer {
	return noiseDitherer{spectrum: noiseBrown, seed: seed, intensity: clampIntensity(intensity)}
}

// NewPinkNoise builds a pink-noise Ditherer.
func NewPinkNoise(seed uint64, intensity float64) Ditherer {
	return noiseDitherer{spectrum: noisePink, seed: seed, intensity: clampIntensity(intensity)}
}

func clampIntensity(v float64) float64 {
	switch {
	case v <= 0.3:
		return 0.3
	case v >= 0.7:
		return 0.7
	default:
		return v
	}
}

// hash2D returns a deterministic pseudo-random value in [0,1) for (x, y,
// seed), used as the building block for every spectrum below.
func hash2D(x, y int, seed uint64) float64 {
	h := seed
	h ^= uint64(x)*0x9E3779B97F4A7C15 + 0x85EBCA6B
	h ^= uint64(y)*0xC2B2AE3D27D4EB4F + 0x27D4EB2F
	h = (h ^ (h >> 33)) * 0xFF51AFD7ED558CCD
	h = (h ^ (h >> 33)) * 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	return float64(h%1_000_000) / 1_000_000.0
}

func generateBlueNoiseTile(seed uint64) [64][64]float64 {
	var white [64][64]float64
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			white[y][x] = hash2D(x, y, seed)*2 - 1
		}
	}

	// High-pass filter: subtract a 3x3 box-blurred version of the white
	// field from itself, the standard cheap approximation to blue noise
	// (energy concentrated in high spatial frequencies).
	var out [64][64]float64
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			var sum float64
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := (x+dx+64)%64, (y+dy+64)%64
					sum += white[ny][nx]
					count++
				}
			}
			avg := sum / float64(count)
			out[y][x] = white[y][x] - avg
		}
	}
	return out
}

func (d noiseDitherer) threshold(x, y int) float64 {
	switch d.spectrum {
	case noiseBlue:
		return d.blueTile[y%64][x%64]

	case noiseBrown:
		var sum, weight float64
		for scale := 1; scale <= 4; scale++ {
			w := 1.0 / float64(scale*scale)
			v := hash2D(x/scale, y/scale, d.seed+uint64(scale))*2 - 1
			sum += v * w
			weight += w
		}
		if weight == 0 {
			return 0
		}
		return sum / weight

	case noisePink:
		var sum, amp float64
		amp = 1.0
		for octave := 0; octave < 6; octave++ {
			scale := 1 << uint(octave)
			v := hash2D(x/scale, y/scale, d.seed+uint64(octave)*7919)*2 - 1
			sum += v * amp
			amp /= 2
		}
		return sum / 2 // normalize roughly into [-1,1]

	default: // noiseWhite
		return hash2D(x, y, d.seed)*2 - 1
	}
}

func (d noiseDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}

	w, h := src.Width(), src.Height()
	lk := paletteindex.New(palette, m)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := d.threshold(x, y) * d.intensity * 255
			c := src.At(x, y)
			r := clamp8(int32(float64(c.R) + t))
			g := clamp8(int32(float64(c.G) + t))
			b := clamp8(int32(float64(c.B) + t))

			idx := nearest(lk, metric.RGBA{A: c.A, R: r, G: g, B: b})
			dst.Set(x, y, idx)
		}
	}
}
