// Command hicolorgif converts a still image, or the first frame of an
// animation, into a high-color-layered animated GIF.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hicolorgif/hicolorgif"
	"github.com/hicolorgif/hicolorgif/internal/framesource"
)

// CLI flags, mirroring the teacher-adjacent gemini-cli's package-level
// flag variables bound in init().
var (
	inputFlag         string
	outputFlag        string
	quantizerFlag     string
	dithererFlag      string
	metricFlag        string
	orderingFlag      string
	bayerIndexFlag    int
	serpentineFlag    bool
	usePCAFlag        bool
	useAntFlag        bool
	noCompressionFlag bool
	repeatFlag        int
	manifestFlag      string
	dumpHistogramFlag string
	logLevelFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "hicolorgif",
	Short: "Convert truecolor images and animations into high-color layered GIFs",
	Long: `hicolorgif approximates a truecolor source image as an animated GIF
by layering many 8-bit indexed sub-images, each carrying its own local
color table, instead of the usual single 256-color compromise. For an
animated source only the first frame is converted.

Examples:
  hicolorgif --input photo.png --output photo.gif
  hicolorgif -i clip.webp -o clip.gif --ditherer Atkinson --quantizer Wu
  hicolorgif -i photo.jpg -o photo.gif --bayer-index 4 --use-ant-refinement`,
	RunE: runConvert,
}

func init() {
	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Source image or animation path (required)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination GIF path (required)")
	rootCmd.Flags().StringVarP(&quantizerFlag, "quantizer", "q", string(hicolorgif.QuantizerNeuQuant), "Palette reduction algorithm (Encode does not run a quantizer, so this does not change the output)")
	rootCmd.Flags().StringVarP(&dithererFlag, "ditherer", "d", string(hicolorgif.DitherFloydSteinberg), "Pixel-to-index mapping strategy")
	rootCmd.Flags().StringVarP(&metricFlag, "metric", "m", string(hicolorgif.MetricDefault), "Color distance metric")
	rootCmd.Flags().StringVar(&orderingFlag, "ordering", string(hicolorgif.MostUsedFirst), "Sub-image color ordering")
	rootCmd.Flags().IntVar(&bayerIndexFlag, "bayer-index", 0, "Override ditherer with a 2^n Bayer matrix, n in [1,8]")
	rootCmd.Flags().BoolVar(&serpentineFlag, "serpentine", false, "Alternate scan direction per row for error-diffusion ditherers")
	rootCmd.Flags().BoolVar(&usePCAFlag, "use-pca", false, "Preprocess the histogram with a PCA reorder before quantizing (no effect on the output: Encode does not run a quantizer)")
	rootCmd.Flags().BoolVar(&useAntFlag, "use-ant-refinement", false, "Refine the quantized palette by iterative nearest-color reassignment (no effect on the output: Encode does not run a quantizer)")
	rootCmd.Flags().BoolVar(&noCompressionFlag, "no-compression", false, "Emit uncompressed LZW sub-blocks instead of compressed ones")
	rootCmd.Flags().IntVar(&repeatFlag, "repeat", 0, "Netscape loop count: -1 once, 0 forever, N>0 N times")
	rootCmd.Flags().StringVar(&manifestFlag, "manifest", "", "Optional JSON manifest of per-file option overrides")
	rootCmd.Flags().StringVar(&dumpHistogramFlag, "dump-histogram", "", "Write the source histogram to this path, zstd-compressed")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "Logging level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	if inputFlag == "" || outputFlag == "" {
		return fmt.Errorf("both --input and --output are required")
	}

	logger := hicolorgif.NewLogger(logLevelFlag)

	cfg := hicolorgif.DefaultConfig()
	cfg.Quantizer = hicolorgif.QuantizerKind(quantizerFlag)
	cfg.Ditherer = hicolorgif.DithererKind(dithererFlag)
	cfg.Metric = hicolorgif.MetricKind(metricFlag)
	cfg.ColorOrdering = hicolorgif.ColorOrdering(orderingFlag)
	cfg.BayerIndex = bayerIndexFlag
	cfg.Serpentine = serpentineFlag
	cfg.UsePCA = usePCAFlag
	cfg.UseAntRefinement = useAntFlag
	cfg.NoCompression = noCompressionFlag
	cfg.Repeat = repeatFlag

	if manifestFlag != "" {
		overrides, err := loadManifest(manifestFlag)
		if err != nil {
			return err
		}
		name := filepath.Base(inputFlag)
		if o, ok := overrides[name]; ok {
			cfg = applyOverride(cfg, o)
		}
	}

	enc, err := hicolorgif.NewEncoder(cfg, logger)
	if err != nil {
		return err
	}

	in, err := os.Open(inputFlag)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputFlag, err)
	}
	defer in.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputFlag)), ".")
	if format == "jpg" {
		format = "jpeg"
	}

	src, err := framesource.Open(in, format)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputFlag, err)
	}

	out, err := os.Create(outputFlag)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputFlag, err)
	}
	defer out.Close()

	img, _, ok, err := src.NextFrame()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s contains no frames", inputFlag)
	}
	buf := hicolorgif.FromImage(img)

	if dumpHistogramFlag != "" {
		hist := hicolorgif.BuildHistogram(buf)
		if err := dumpHistogram(dumpHistogramFlag, hist); err != nil {
			return err
		}
	}

	if err := enc.Encode(out, buf); err != nil {
		return fmt.Errorf("converting %s: %w", inputFlag, err)
	}

	fmt.Printf("wrote %s\n", outputFlag)
	return nil
}
