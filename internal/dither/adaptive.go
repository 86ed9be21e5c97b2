package dither

import "github.com/hicolorgif/hicolorgif/internal/metric"

// AdaptiveStrategy selects which scoring bias the adaptive analyzer uses
// when picking a concrete ditherer, per spec §4.5.H.
type AdaptiveStrategy int

const (
	StrategyQualityOptimized AdaptiveStrategy = iota
	StrategyBalanced
	StrategyPerformanceOptimized
	StrategySmart
)

// imageCharacteristics holds the sampled statistics spec §4.5.H computes
// before dispatching to a concrete ditherer.
type imageCharacteristics struct {
	colorComplexity   float64 // distinct colors relative to sample size
	edgeDensity       float64 // local Sobel-like gradient magnitude
	gradientSmoothness float64 // inverse of 3x3 luminance variance
	noiseLevel        float64 // neighbor-delta magnitude
	detailLevel       float64 // combination of edge density and noise
}

func luminance(c metric.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// analyze samples src and computes its characteristics. totalPixels < 10
// is the literal divide-by-zero guard spec §9 calls out: the color
// complexity denominator min(1000, totalPixels/10) would be zero for
// tiny images, so it is clamped to 1 instead.
func analyze(src Source) imageCharacteristics {
	w, h := src.Width(), src.Height()
	totalPixels := w * h

	seen := make(map[uint32]struct{})
	var edgeAcc, smoothAcc, noiseAcc float64
	var samples int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(x, y)
			seen[uint32(c.A)<<24|uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B)] = struct{}{}

			if x > 0 && y > 0 && x < w-1 && y < h-1 {
				samples++

				// Sobel-like approximation: horizontal and vertical
				// luminance gradients via immediate neighbors.
				lc := luminance(c)
				lr := luminance(src.At(x+1, y))
				ll := luminance(src.At(x-1, y))
				ld := luminance(src.At(x, y+1))
				lu := luminance(src.At(x, y-1))

				gx := lr - ll
				gy := ld - lu
				edgeAcc += abs64(gx) + abs64(gy)

				var mean float64
				lums := [9]float64{
					luminance(src.At(x-1, y-1)), lu, luminance(src.At(x+1, y-1)),
					ll, lc, lr,
					luminance(src.At(x-1, y+1)), ld, luminance(src.At(x+1, y+1)),
				}
				for _, l := range lums {
					mean += l
				}
				mean /= 9
				var variance float64
				for _, l := range lums {
					d := l - mean
					variance += d * d
				}
				variance /= 9
				smoothAcc += variance

				noiseAcc += abs64(lc-lr) + abs64(lc-ll) + abs64(lc-ld) + abs64(lc-lu)
			}
		}
	}

	denom := float64(totalPixels) / 10
	if denom > 1000 {
		denom = 1000
	}
	if totalPixels < 10 {
		denom = 1 // Spec §9: guard against division by zero for tiny images.
	}
	colorComplexity := float64(len(seen)) / denom
	if colorComplexity > 1.0 {
		colorComplexity = 1.0
	}

	edgeDensity := 0.0
	smoothness := 0.0
	noise := 0.0
	if samples > 0 {
		edgeDensity = normalize(edgeAcc/float64(samples), 255*2)
		smoothness = 1.0 - normalize(smoothAcc/float64(samples), 255*255/4)
		noise = normalize(noiseAcc/float64(samples), 255*4)
	}

	detail := (edgeDensity + noise) / 2

	return imageCharacteristics{
		colorComplexity:    colorComplexity,
		edgeDensity:        edgeDensity,
		gradientSmoothness: smoothness,
		noiseLevel:         noise,
		detailLevel:        detail,
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	r := v / max
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// adaptiveDitherer implements spec §4.5.H: analyze the image, then
// dispatch to a concrete ditherer chosen by strategy. Deterministic given
// the same image, since analyze and the scoring below are pure functions
// of pixel content.
type adaptiveDitherer struct {
	strategy AdaptiveStrategy
	seed     uint64
}

// NewAdaptive builds an adaptive Ditherer.
func NewAdaptive(strategy AdaptiveStrategy, seed uint64) Ditherer {
	return adaptiveDitherer{strategy: strategy, seed: seed}
}

// candidateDitherer names a concrete ditherer the adaptive strategy can
// dispatch to, with static suitability weights used by the smart scoring
// function below.
type candidateDitherer struct {
	name                string
	build               func(seed uint64) Ditherer
	detailWeight        float64
	smoothnessWeight    float64
	complexityWeight    float64
	performanceWeight   float64 // higher = cheaper, favored by performance-optimized
}

func adaptiveCandidates() []candidateDitherer {
	return []candidateDitherer{
		{
			name:              "FloydSteinberg",
			build:             func(seed uint64) Ditherer { return NewErrorDiffusion("FloydSteinberg", true) },
			detailWeight:      0.8,
			smoothnessWeight:  0.3,
			complexityWeight:  0.6,
			performanceWeight: 0.5,
		},
		{
			name:              "Stucki",
			build:             func(seed uint64) Ditherer { return NewErrorDiffusion("Stucki", true) },
			detailWeight:      0.9,
			smoothnessWeight:  0.4,
			complexityWeight:  0.7,
			performanceWeight: 0.3,
		},
		{
			name:              "Bayer8",
			build:             func(seed uint64) Ditherer { return NewBayer(8) },
			detailWeight:      0.3,
			smoothnessWeight:  0.9,
			complexityWeight:  0.3,
			performanceWeight: 0.9,
		},
		{
			name:              "BlueNoise",
			build:             func(seed uint64) Ditherer { return NewBlueNoise(seed, 0.5) },
			detailWeight:      0.5,
			smoothnessWeight:  0.6,
			complexityWeight:  0.5,
			performanceWeight: 0.7,
		},
	}
}

func (d adaptiveDitherer) pick(ch imageCharacteristics) Ditherer {
	candidates := adaptiveCandidates()

	switch d.strategy {
	case StrategyQualityOptimized:
		return candidates[1].build(d.seed) // Stucki: widest, highest-quality kernel
	case StrategyPerformanceOptimized:
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.performanceWeight > best.performanceWeight {
				best = c
			}
		}
		return best.build(d.seed)
	case StrategySmart:
		best := candidates[0]
		bestScore := -1.0
		for _, c := range candidates {
			score := c.detailWeight*ch.detailLevel +
				c.smoothnessWeight*ch.gradientSmoothness +
				c.complexityWeight*ch.colorComplexity +
				c.performanceWeight*(1-ch.detailLevel)*0.25
			if score > bestScore {
				bestScore = score
				best = c
			}
		}
		return best.build(d.seed)
	default: // StrategyBalanced
		if ch.detailLevel > 0.6 {
			return candidates[1].build(d.seed)
		}
		if ch.gradientSmoothness > 0.6 {
			return candidates[2].build(d.seed)
		}
		return candidates[0].build(d.seed)
	}
}

func (d adaptiveDitherer) Dither(src Source, dst Target, palette []metric.RGBA, m metric.Metric) {
	if writeDegenerate(dst, palette) {
		return
	}
	ch := analyze(src)
	chosen := d.pick(ch)
	chosen.Dither(src, dst, palette, m)
}
