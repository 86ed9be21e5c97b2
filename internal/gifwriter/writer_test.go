package gifwriter

import (
	"bytes"
	"testing"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

func solidPalette() []metric.RGBA {
	return []metric.RGBA{
		{A: 255, R: 255, G: 0, B: 0},
		{A: 255, R: 0, G: 255, B: 0},
	}
}

func TestWriteHeaderAndTrailer(t *testing.T) {
	f := Frame{
		Width: 2, Height: 2,
		Palette:          solidPalette(),
		Pixels:           []uint8{0, 1, 1, 0},
		TransparentIndex: -1,
		Disposal:         DisposeNone,
		Delay:            10,
	}

	var buf bytes.Buffer
	if err := Write(&buf, Options{Width: 2, Height: 2}, []Frame{f}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data := buf.Bytes()
	if string(data[:6]) != "GIF89a" {
		t.Errorf("header = %q, want GIF89a", data[:6])
	}
	if data[len(data)-1] != 0x3B {
		t.Errorf("trailer = %#x, want 0x3B", data[len(data)-1])
	}
}

func TestWriteNoGlobalColorTable(t *testing.T) {
	f := Frame{
		Width: 1, Height: 1,
		Palette:          solidPalette(),
		Pixels:           []uint8{0},
		TransparentIndex: -1,
		Disposal:         DisposeNone,
		Delay:            1,
	}

	var buf bytes.Buffer
	if err := Write(&buf, Options{Width: 1, Height: 1}, []Frame{f}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data := buf.Bytes()
	// LSD packed byte is at offset 10 (6-byte header + 2x width + 2x height).
	packed := data[10]
	if packed&0x80 != 0 {
		t.Error("global color table flag set; this pipeline never emits one")
	}
}

func TestWriteRejectsOversizedPalette(t *testing.T) {
	big := make([]metric.RGBA, 257)
	f := Frame{
		Width: 1, Height: 1,
		Palette:          big,
		Pixels:           []uint8{0},
		TransparentIndex: -1,
	}

	var buf bytes.Buffer
	if err := Write(&buf, Options{Width: 1, Height: 1}, []Frame{f}); err == nil {
		t.Error("expected an error for a 257-entry palette")
	}
}

func TestWriteRejectsOutOfRangeIndex(t *testing.T) {
	f := Frame{
		Width: 1, Height: 1,
		Palette:          solidPalette(),
		Pixels:           []uint8{5},
		TransparentIndex: -1,
	}

	var buf bytes.Buffer
	if err := Write(&buf, Options{Width: 1, Height: 1}, []Frame{f}); err == nil {
		t.Error("expected an error for an out-of-range palette index")
	}
}

func TestColorTableSizeBits(t *testing.T) {
	cases := []struct {
		n    int
		want byte
	}{
		{1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2}, {256, 7},
	}
	for _, c := range cases {
		if got := colorTableSizeBits(c.n); got != c.want {
			t.Errorf("colorTableSizeBits(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
