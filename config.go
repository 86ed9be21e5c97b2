package hicolorgif

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
)

// QuantizerKind selects a palette-reduction algorithm (spec §4.4).
type QuantizerKind string

const (
	QuantizerNeuQuant       QuantizerKind = "NeuQuant"
	QuantizerMedianCut      QuantizerKind = "MedianCut"
	QuantizerOctree         QuantizerKind = "Octree"
	QuantizerWu             QuantizerKind = "Wu"
	QuantizerVarianceCut    QuantizerKind = "VarianceCut"
	QuantizerVarianceBased  QuantizerKind = "VarianceBased"
	QuantizerBinarySplitting QuantizerKind = "BinarySplitting"
	QuantizerADU            QuantizerKind = "ADU"
	QuantizerEGA16          QuantizerKind = "EGA16"
	QuantizerVGA256         QuantizerKind = "VGA256"
	QuantizerWebSafe        QuantizerKind = "WebSafe"
	QuantizerMac8Bit        QuantizerKind = "Mac8Bit"
)

// DithererKind selects a pixel→index mapping strategy (spec §4.5).
type DithererKind string

const (
	DitherNone                DithererKind = "None"
	DitherFloydSteinberg      DithererKind = "FloydSteinberg"
	DitherEqualFloydSteinberg DithererKind = "EqualFloydSteinberg"
	DitherFalseFloydSteinberg DithererKind = "FalseFloydSteinberg"
	DitherJarvisJudiceNinke   DithererKind = "JarvisJudiceNinke"
	DitherStucki              DithererKind = "Stucki"
	DitherAtkinson            DithererKind = "Atkinson"
	DitherBurkes              DithererKind = "Burkes"
	DitherSierra              DithererKind = "Sierra"
	DitherTwoRowSierra        DithererKind = "TwoRowSierra"
	DitherSierraLite          DithererKind = "SierraLite"
	DitherPigeon              DithererKind = "Pigeon"
	DitherStevensonArce       DithererKind = "StevensonArce"
	DitherShiauFan            DithererKind = "ShiauFan"
	DitherShiauFan2           DithererKind = "ShiauFan2"
	DitherFan93               DithererKind = "Fan93"
	DitherSimple              DithererKind = "Simple"
	DitherTwoD                DithererKind = "TwoD"
	DitherDown                DithererKind = "Down"
	DitherDoubleDown          DithererKind = "DoubleDown"
	DitherDiagonal            DithererKind = "Diagonal"
	DitherDiamond             DithererKind = "Diamond"
	DitherVerticalDiamond     DithererKind = "VerticalDiamond"
	DitherHorizontalDiamond   DithererKind = "HorizontalDiamond"
	DitherBayer               DithererKind = "Bayer"
	DitherHalftone            DithererKind = "Halftone"
	DitherUniform             DithererKind = "Uniform"
	DitherRiemersma           DithererKind = "Riemersma"
	DitherSerpentineLinear    DithererKind = "SerpentineLinear"
	DitherWhiteNoise          DithererKind = "WhiteNoise"
	DitherBlueNoise           DithererKind = "BlueNoise"
	DitherBrownNoise          DithererKind = "BrownNoise"
	DitherPinkNoise           DithererKind = "PinkNoise"
	DitherKnoll               DithererKind = "Knoll"
	DitherNClosest            DithererKind = "NClosest"
	DitherNConvex             DithererKind = "NConvex"
	DitherAdaptive            DithererKind = "Adaptive"
)

// MetricKind selects a color-distance metric (spec §4.1).
type MetricKind string

const (
	MetricDefault             MetricKind = "Default"
	MetricEuclidean           MetricKind = "Euclidean"
	MetricEuclideanAlpha      MetricKind = "EuclideanAlpha"
	MetricWeightedEuclidean   MetricKind = "WeightedEuclidean"
	MetricWeightedBT709       MetricKind = "WeightedBT709"
	MetricWeightedNommyde     MetricKind = "WeightedNommyde"
	MetricWeightedLowRed      MetricKind = "WeightedLowRed"
	MetricWeightedHighRed     MetricKind = "WeightedHighRed"
	MetricCompuPhase          MetricKind = "CompuPhase"
	MetricManhattan           MetricKind = "Manhattan"
	MetricWeightedManhattan   MetricKind = "WeightedManhattan"
	MetricWeightedYUV         MetricKind = "WeightedYUV"
	MetricWeightedYCbCr       MetricKind = "WeightedYCbCr"
	MetricPNGQuant            MetricKind = "PNGQuant"
	MetricCIE94Textiles       MetricKind = "CIE94Textiles"
	MetricCIE94GraphicArts    MetricKind = "CIE94GraphicArts"
	MetricCIEDE2000           MetricKind = "CIEDE2000"
)

// ColorOrdering selects how the sub-image planner orders distinct colors
// across sub-images (spec §4.6).
type ColorOrdering string

const (
	MostUsedFirst     ColorOrdering = "MostUsedFirst"
	LeastUsedFirst    ColorOrdering = "LeastUsedFirst"
	HighLuminanceFirst ColorOrdering = "HighLuminanceFirst"
	LowLuminanceFirst  ColorOrdering = "LowLuminanceFirst"
	FromCenter         ColorOrdering = "FromCenter"
	RandomOrdering     ColorOrdering = "Random"
)

// Config holds every recognized pipeline option (spec §6).
type Config struct {
	Quantizer        QuantizerKind `json:"quantizer"`
	UsePCA           bool          `json:"use_pca"`
	UseAntRefinement bool          `json:"use_ant_refinement"`
	AntIterations    int           `json:"ant_iterations"`

	Ditherer   DithererKind `json:"ditherer"`
	BayerIndex int          `json:"bayer_index"`
	Serpentine bool         `json:"serpentine"`

	Metric MetricKind `json:"metric"`

	ColorOrdering                ColorOrdering `json:"color_ordering"`
	FirstSubImageInitsBackground bool          `json:"first_sub_image_inits_background"`
	UseBackFilling                bool          `json:"use_back_filling"`
	RandomSeed                    int64         `json:"random_seed"`

	NoCompression bool `json:"no_compression"`

	// NeuQuantSample is the teacher's 1-30 sampling-interval quality knob,
	// only consulted when Quantizer == QuantizerNeuQuant.
	NeuQuantSample int `json:"neuquant_sample"`

	// SaturationBoost and ContrastBoost are pre-histogram pixel
	// adjustments in [0.0, 2.0]; 1.0 leaves the source unchanged.
	SaturationBoost float64 `json:"saturation_boost"`
	ContrastBoost   float64 `json:"contrast_boost"`

	// Repeat is the Netscape loop count: -1 = play once, 0 = loop
	// forever, N>0 = loop N times.
	Repeat int `json:"repeat"`
}

// DefaultConfig returns the zero-configuration pipeline: the teacher's own
// NeuQuant quantizer, Floyd-Steinberg dithering, the CompuPhase metric
// (spec §6's "Default"), most-used-first color ordering, and the
// background-initializing overlay mode.
func DefaultConfig() Config {
	return Config{
		Quantizer:                     QuantizerNeuQuant,
		AntIterations:                 25,
		Ditherer:                      DitherFloydSteinberg,
		Metric:                        MetricDefault,
		ColorOrdering:                 MostUsedFirst,
		FirstSubImageInitsBackground: true,
		NeuQuantSample:                10,
		SaturationBoost:               1.0,
		ContrastBoost:                 1.0,
		Repeat:                        0,
	}
}

// Validate surfaces InvalidArgument configuration errors before any byte is
// written, per spec §7.
func (c Config) Validate() error {
	if c.AntIterations < 0 {
		return newError(ErrInvalidArgument, "Config.Validate", fmt.Errorf("ant_iterations must be >= 0, got %d", c.AntIterations))
	}
	// Spec §7: out-of-range bayer_index is silently ignored, not an
	// error — normalized away in normalizedDitherer, not here.
	if c.SaturationBoost < 0 || c.ContrastBoost < 0 {
		return newError(ErrInvalidArgument, "Config.Validate", fmt.Errorf("saturation/contrast boost must be >= 0"))
	}
	return nil
}

// normalizedDitherer applies the bayer_index override rule from spec §6:
// a BayerIndex in [1,8] overrides Ditherer to an ordered Bayer matrix of
// size 2^BayerIndex; any other BayerIndex value is ignored.
func (c Config) normalizedDitherer() (kind DithererKind, bayerSize int) {
	if c.BayerIndex >= 1 && c.BayerIndex <= 8 {
		return DitherBayer, 1 << uint(c.BayerIndex)
	}
	return c.Ditherer, 0
}

// isPowerOfTwo reports whether n is a positive power of two, the same test
// the Bayer matrix generator in internal/dither applies with its own copy
// (spec §8).
func isPowerOfTwo(n int) bool {
	return n >= 1 && bits.OnesCount(uint(n)) == 1
}

// LoadConfigFile overlays a JSON file's fields onto DefaultConfig, following
// the teacher-adjacent defaults-then-overlay-then-validate pattern.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(ErrIO, "LoadConfigFile", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, newError(ErrInvalidArgument, "LoadConfigFile", fmt.Errorf("malformed config %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
