package hicolorgif

import (
	"bytes"
	"testing"
)

func twoColorBuffer(w, h int) PixelBuffer {
	pix := make([]Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				pix[y*w+x] = Color{A: 255, R: 255}
			} else {
				pix[y*w+x] = Color{A: 255, B: 255}
			}
		}
	}
	return NewPixelBuffer(w, h, pix)
}

func TestEncodeProducesWellFormedGIF(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, twoColorBuffer(8, 8)); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := buf.Bytes()
	if len(out) < 13 {
		t.Fatalf("output too short to be a GIF: %d bytes", len(out))
	}
	if string(out[:6]) != "GIF89a" {
		t.Errorf("header = %q, want GIF89a", out[:6])
	}
	if out[len(out)-1] != 0x3B {
		t.Errorf("trailer = %#x, want 0x3B", out[len(out)-1])
	}
}

func TestEncodeRejectsZeroDimensions(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	err = enc.Encode(&bytes.Buffer{}, NewPixelBuffer(0, 0, nil))
	if err == nil {
		t.Fatal("expected an error for zero-dimension input")
	}
	if !IsKind(err, ErrInvalidArgument) {
		t.Errorf("err kind = %v, want ErrInvalidArgument", err)
	}
}

func TestEncodeHighColorSourceProducesMultipleSubImages(t *testing.T) {
	// A 20x20 gradient easily exceeds 256 distinct colors, forcing the
	// planner to emit more than one layered sub-image.
	w, h := 20, 20
	pix := make([]Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = Color{A: 255, R: uint8(x * 12), G: uint8(y * 12), B: uint8((x + y) * 6)}
		}
	}
	src := NewPixelBuffer(w, h, pix)

	cfg := DefaultConfig()
	enc, err := NewEncoder(cfg, nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out := buf.Bytes()
	// Every image descriptor starts with 0x2C; more than one occurrence
	// means more than one sub-image was emitted.
	count := bytes.Count(out, []byte{0x2C})
	if count < 2 {
		t.Errorf("image descriptor count = %d, want >= 2 for a high-color source", count)
	}
}

func TestEncodeRespectsNoGlobalColorTable(t *testing.T) {
	enc, err := NewEncoder(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, twoColorBuffer(4, 4)); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	data := buf.Bytes()
	packed := data[10]
	if packed&0x80 != 0 {
		t.Error("global color table flag set; this pipeline never emits one")
	}
}

func TestNewEncoderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AntIterations = -1
	if _, err := NewEncoder(cfg, nil); err == nil {
		t.Error("expected NewEncoder to surface an invalid config before any byte is written")
	}
}

func TestQuantizePaletteReturnsRequestedSize(t *testing.T) {
	hist := BuildHistogram(twoColorBuffer(8, 8))
	out := quantizePalette(hist, DefaultConfig())
	if len(out) != 2 {
		t.Errorf("len(quantizePalette) = %d, want 2 (hist has 2 distinct colors)", len(out))
	}
}
