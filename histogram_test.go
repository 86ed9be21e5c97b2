package hicolorgif

import "testing"

func checkerboard(w, h int) PixelBuffer {
	pix := make([]Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				pix[y*w+x] = Color{A: 255, R: 255}
			} else {
				pix[y*w+x] = Color{A: 255, B: 255}
			}
		}
	}
	return NewPixelBuffer(w, h, pix)
}

func TestBuildHistogramCountsDistinctColors(t *testing.T) {
	buf := checkerboard(8, 8)
	hist := BuildHistogram(buf)

	if hist.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", hist.Len())
	}

	red, ok := hist.Lookup(Color{A: 255, R: 255})
	if !ok {
		t.Fatal("expected red entry")
	}
	blue, ok := hist.Lookup(Color{A: 255, B: 255})
	if !ok {
		t.Fatal("expected blue entry")
	}
	if red.Count+blue.Count != 64 {
		t.Errorf("red.Count+blue.Count = %d, want 64", red.Count+blue.Count)
	}
	if red.Count != 32 || blue.Count != 32 {
		t.Errorf("red/blue counts = %d/%d, want 32/32", red.Count, blue.Count)
	}
}

func TestBuildHistogramTracksAllCoordinates(t *testing.T) {
	buf := checkerboard(4, 4)
	hist := BuildHistogram(buf)

	red, _ := hist.Lookup(Color{A: 255, R: 255})
	if len(red.Coords) != int(red.Count) {
		t.Errorf("len(Coords) = %d, want Count = %d", len(red.Coords), red.Count)
	}
}

func TestBuildHistogramSplitsOddHeightAcrossStripes(t *testing.T) {
	// A height that doesn't divide evenly across GOMAXPROCS workers must
	// still visit every pixel exactly once.
	buf := checkerboard(3, 7)
	hist := BuildHistogram(buf)

	var total uint32
	for _, e := range hist.Entries() {
		total += e.Count
	}
	if total != 21 {
		t.Errorf("total pixel count = %d, want 21", total)
	}
}

func TestBuildHistogramSingleColor(t *testing.T) {
	pix := make([]Color, 9)
	for i := range pix {
		pix[i] = Color{A: 255, R: 10, G: 20, B: 30}
	}
	hist := BuildHistogram(NewPixelBuffer(3, 3, pix))

	if hist.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", hist.Len())
	}
	e, _ := hist.Lookup(Color{A: 255, R: 10, G: 20, B: 30})
	if e.Count != 9 {
		t.Errorf("Count = %d, want 9", e.Count)
	}
}

func TestBuildHistogramLookupMiss(t *testing.T) {
	hist := BuildHistogram(checkerboard(2, 2))
	if _, ok := hist.Lookup(Color{A: 255, R: 1, G: 2, B: 3}); ok {
		t.Error("Lookup found an entry for a color never present in the buffer")
	}
}
