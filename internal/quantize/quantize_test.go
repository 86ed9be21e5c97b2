package quantize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

func rampHistogram(n int) Histogram {
	h := make(Histogram, n)
	for i := 0; i < n; i++ {
		v := uint8(i * 255 / (n - 1))
		h[i] = ColorCount{Color: metric.RGBA{A: 255, R: v, G: v, B: v}, Count: uint32(i + 1)}
	}
	return h
}

func TestQuantizerReduceReturnsExactlyN(t *testing.T) {
	hist := rampHistogram(64)

	for _, q := range []*Quantizer{
		NewMedianCut(), NewOctree(), NewWu(), NewVarianceCut(), NewVarianceBased(),
		NewBinarySplit(), NewADU(5), NewNeuQuant(10),
	} {
		t.Run(q.Name(), func(t *testing.T) {
			out := q.Reduce(16, hist)
			assert.Len(t, out, 16, "Reduce(16, ...) must return exactly 16 entries")
		})
	}
}

func TestQuantizerReduceZeroIsEmpty(t *testing.T) {
	out := NewMedianCut().Reduce(0, rampHistogram(8))
	assert.Empty(t, out)
}

func TestQuantizerReduceContainsSingleColor(t *testing.T) {
	hist := Histogram{{Color: metric.RGBA{A: 255, R: 10, G: 20, B: 30}, Count: 1}}

	out := NewWu().Reduce(4, hist)
	require.Len(t, out, 4)
	assert.Contains(t, out, metric.RGBA{A: 255, R: 10, G: 20, B: 30})
}

func TestQuantizerReduceDedupesOutput(t *testing.T) {
	out := NewOctree().Reduce(8, rampHistogram(4))
	seen := make(map[metric.RGBA]bool)
	for _, c := range out {
		assert.False(t, seen[c], "duplicate color %v in quantized palette", c)
		seen[c] = true
	}
}

func TestFixedPalettesHaveExpectedSize(t *testing.T) {
	assert.Len(t, EGA16(), 16)
	assert.Len(t, VGA256(), 256)
	assert.Len(t, WebSafe216(), 216)
	assert.Len(t, Mac8Bit(), 256)
}

func TestPCAPreprocessDelegatesReduce(t *testing.T) {
	inner := NewMedianCut()
	wrapped := NewPCAPreprocess(inner.Name(), inner.r)

	out := wrapped.Reduce(8, rampHistogram(32))
	assert.Len(t, out, 8)
}

func TestAntRefineProducesValidPalette(t *testing.T) {
	inner := NewMedianCut()
	wrapped := NewAntRefine(inner.Name(), inner.r, 5, 42)

	out := wrapped.Reduce(8, rampHistogram(32))
	assert.Len(t, out, 8)
}

func TestRegistryForResolvesEveryKnownKind(t *testing.T) {
	kinds := []string{
		"NeuQuant", "MedianCut", "Octree", "Wu", "VarianceCut", "VarianceBased",
		"BinarySplitting", "ADU", "EGA16", "VGA256", "WebSafe", "Mac8Bit", "",
	}
	for _, k := range kinds {
		t.Run(k, func(t *testing.T) {
			q := For(Options{Kind: k, NeuQuantSample: 10, AntIterations: 3})
			require.NotNil(t, q)
			out := q.Reduce(4, rampHistogram(16))
			assert.Len(t, out, 4)
		})
	}
}

func TestRegistryComposesPCAAndAntRefinement(t *testing.T) {
	q := For(Options{Kind: "MedianCut", UsePCA: true, UseAntRefinement: true, AntIterations: 3, RandomSeed: 7})
	out := q.Reduce(8, rampHistogram(32))
	assert.Len(t, out, 8)
}
