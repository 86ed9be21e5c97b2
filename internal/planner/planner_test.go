package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

func colorAt(v uint8) metric.RGBA { return metric.RGBA{A: 255, R: v, G: v, B: v} }

// makeHist builds n distinct colors, one pixel each, laid out along a
// single row so Width=n, Height=1.
func makeHist(n int) []HistEntry {
	hist := make([]HistEntry, n)
	for i := 0; i < n; i++ {
		hist[i] = HistEntry{
			Color:  colorAt(uint8(i % 256)),
			Count:  uint32(n - i),
			Coords: []Point{{X: i, Y: 0}},
		}
	}
	return hist
}

func TestPlansEmptyHistogramReturnsNil(t *testing.T) {
	plans := Plans(nil, Options{Width: 4, Height: 4})
	assert.Nil(t, plans)
}

func TestPlansGroupSizesWithoutBackgroundInit(t *testing.T) {
	hist := makeHist(300)
	plans := Plans(hist, Options{Width: 300, Height: 1})

	require.Len(t, plans, 2)
	// First group: 255 colors + 1 reserved transparent slot.
	assert.Len(t, plans[0].Palette, 256)
	assert.Equal(t, 255, plans[0].TransparentIndex)
	// Second group: remaining 45 colors + 1 transparent slot.
	assert.Len(t, plans[1].Palette, 46)
}

func TestPlansFirstGroupInitsBackgroundNoTransparency(t *testing.T) {
	hist := makeHist(10)
	plans := Plans(hist, Options{Width: 10, Height: 1, FirstSubImageInitsBackground: true})

	require.Len(t, plans, 1)
	assert.True(t, plans[0].DithersFullFrame)
	assert.Equal(t, -1, plans[0].TransparentIndex)
	for _, active := range plans[0].Mask {
		assert.True(t, active, "background-initializing plan must claim every pixel")
	}
}

func TestPlansMaskUnionCoversEveryPixelOnce(t *testing.T) {
	hist := makeHist(600)
	plans := Plans(hist, Options{Width: 600, Height: 1})

	count := make([]int, 600)
	for _, p := range plans {
		for i, active := range p.Mask {
			if active {
				count[i]++
			}
		}
	}
	for i, c := range count {
		assert.Equal(t, 1, c, "pixel %d must be claimed by exactly one sub-image", i)
	}
}

func TestPlansBackFillingClaimsLeftoverPixelsInLastGroup(t *testing.T) {
	// 260 histogram entries on a 260-pixel row but only 200 distinct
	// coordinates: the last 60 entries reuse x=0..59, so pixels 200..259
	// carry no histogram color and are left for back-fill.
	hist := make([]HistEntry, 0, 260)
	for i := 0; i < 200; i++ {
		hist = append(hist, HistEntry{Color: colorAt(uint8(i)), Count: uint32(260 - i), Coords: []Point{{X: i, Y: 0}}})
	}
	for i := 200; i < 260; i++ {
		hist = append(hist, HistEntry{Color: colorAt(uint8(i)), Count: uint32(260 - i), Coords: []Point{{X: i % 200, Y: 0}}})
	}

	plans := Plans(hist, Options{Width: 260, Height: 1, UseBackFilling: true})
	require.NotEmpty(t, plans)

	last := plans[len(plans)-1]
	for x := 200; x < 260; x++ {
		assert.True(t, last.Mask[x], "pixel %d must be back-filled by the last sub-image", x)
	}

	count := make([]int, 260)
	for _, p := range plans {
		for i, active := range p.Mask {
			if active {
				count[i]++
			}
		}
	}
	for i, c := range count {
		assert.GreaterOrEqual(t, c, 1, "pixel %d left unclaimed even with back-filling", i)
	}
}

func TestOrderingMostUsedFirst(t *testing.T) {
	hist := []HistEntry{
		{Color: colorAt(1), Count: 5, Coords: []Point{{0, 0}}},
		{Color: colorAt(2), Count: 50, Coords: []Point{{1, 0}}},
		{Color: colorAt(3), Count: 20, Coords: []Point{{2, 0}}},
	}
	ordered := orderedColors(hist, Options{Ordering: MostUsedFirst})
	assert.Equal(t, colorAt(2), ordered[0].Color)
	assert.Equal(t, colorAt(1), ordered[len(ordered)-1].Color)
}

func TestOrderingLeastUsedFirst(t *testing.T) {
	hist := []HistEntry{
		{Color: colorAt(1), Count: 5, Coords: []Point{{0, 0}}},
		{Color: colorAt(2), Count: 50, Coords: []Point{{1, 0}}},
	}
	ordered := orderedColors(hist, Options{Ordering: LeastUsedFirst})
	assert.Equal(t, colorAt(1), ordered[0].Color)
}

func TestOrderingHighLuminanceFirst(t *testing.T) {
	hist := []HistEntry{
		{Color: metric.RGBA{A: 255}, Count: 1, Coords: []Point{{0, 0}}},
		{Color: metric.RGBA{A: 255, R: 255, G: 255, B: 255}, Count: 1, Coords: []Point{{1, 0}}},
	}
	ordered := orderedColors(hist, Options{Ordering: HighLuminanceFirst})
	assert.Equal(t, uint8(255), ordered[0].Color.R)
}

func TestOrderingRandomIsDeterministicForSeed(t *testing.T) {
	hist := makeHist(20)
	a := orderedColors(hist, Options{Ordering: RandomOrdering, RandomSeed: 42})
	b := orderedColors(hist, Options{Ordering: RandomOrdering, RandomSeed: 42})
	assert.Equal(t, a, b, "same seed must produce same shuffle")
}
