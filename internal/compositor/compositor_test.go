package compositor

import "testing"

type fakeIndex struct {
	w, h int
	pix  []uint8
}

func (f fakeIndex) Width() int        { return f.w }
func (f fakeIndex) Height() int       { return f.h }
func (f fakeIndex) At(x, y int) uint8 { return f.pix[y*f.w+x] }

func TestComposeEmptyMaskDropsSubImage(t *testing.T) {
	mask := make([]bool, 4*4)
	idx := fakeIndex{w: 4, h: 4, pix: make([]uint8, 16)}

	_, ok := Compose(mask, 4, 4, idx, -1, DisposeNone, 1)
	if ok {
		t.Error("expected ok=false for an all-false mask")
	}
}

func TestComposeCropsToBoundingRect(t *testing.T) {
	// 4x4 frame, only the 2x2 square at (1,1)-(2,2) is active.
	w, h := 4, 4
	mask := make([]bool, w*h)
	for _, p := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		mask[p[1]*w+p[0]] = true
	}
	idx := fakeIndex{w: w, h: h, pix: []uint8{
		0, 0, 0, 0,
		0, 5, 6, 0,
		0, 7, 8, 0,
		0, 0, 0, 0,
	}}

	frame, ok := Compose(mask, w, h, idx, -1, DisposeNone, 1)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if frame.Left != 1 || frame.Top != 1 || frame.Width != 2 || frame.Height != 2 {
		t.Fatalf("bounding rect = {%d,%d,%d,%d}, want {1,1,2,2}", frame.Left, frame.Top, frame.Width, frame.Height)
	}
	want := []uint8{5, 6, 7, 8}
	for i, v := range want {
		if frame.Pixels[i] != v {
			t.Errorf("Pixels[%d] = %d, want %d", i, frame.Pixels[i], v)
		}
	}
}

func TestComposeFillsInactivePixelsWithTransparentIndex(t *testing.T) {
	w, h := 2, 2
	mask := []bool{true, false, false, true}
	idx := fakeIndex{w: w, h: h, pix: []uint8{3, 9, 9, 4}}

	frame, ok := Compose(mask, w, h, idx, 7, DisposeNone, 1)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if !frame.HasTransparency || frame.TransparentIndex != 7 {
		t.Errorf("HasTransparency/TransparentIndex = %v/%d, want true/7", frame.HasTransparency, frame.TransparentIndex)
	}
	if frame.Pixels[1] != 7 || frame.Pixels[2] != 7 {
		t.Errorf("inactive pixels = %d,%d, want transparent index 7", frame.Pixels[1], frame.Pixels[2])
	}
	if frame.Pixels[0] != 3 || frame.Pixels[3] != 4 {
		t.Errorf("active pixels = %d,%d, want 3,4", frame.Pixels[0], frame.Pixels[3])
	}
}

func TestDisposalForFirstBackgroundInitializing(t *testing.T) {
	if got := DisposalFor(0, true); got != DisposeToBackground {
		t.Errorf("DisposalFor(0, true) = %v, want DisposeToBackground", got)
	}
}

func TestDisposalForNonFirstOrNonInitializing(t *testing.T) {
	cases := []struct {
		i    int
		init bool
	}{
		{0, false},
		{1, true},
		{2, true},
	}
	for _, c := range cases {
		if got := DisposalFor(c.i, c.init); got != DisposeNone {
			t.Errorf("DisposalFor(%d, %v) = %v, want DisposeNone", c.i, c.init, got)
		}
	}
}

func TestDelayForLastSubImageUsesFinalDelay(t *testing.T) {
	if got := DelayFor(2, 3, 250); got != 250 {
		t.Errorf("DelayFor(last) = %d, want 250", got)
	}
}

func TestDelayForNonLastSubImageUsesMinimumUnit(t *testing.T) {
	if got := DelayFor(0, 3, 250); got != 1 {
		t.Errorf("DelayFor(non-last) = %d, want 1", got)
	}
}
