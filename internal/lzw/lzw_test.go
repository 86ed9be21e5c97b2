package lzw

import "testing"

func TestMinCodeSize(t *testing.T) {
	cases := []struct {
		paletteSize int
		want        int
	}{
		{1, 2},
		{2, 2},
		{3, 2},
		{4, 2},
		{5, 3},
		{16, 4},
		{17, 5},
		{256, 8},
	}
	for _, c := range cases {
		if got := MinCodeSize(c.paletteSize); got != c.want {
			t.Errorf("MinCodeSize(%d) = %d, want %d", c.paletteSize, got, c.want)
		}
	}
}

func TestEncodeRoundTripShape(t *testing.T) {
	pix := make([]uint8, 64)
	for i := range pix {
		pix[i] = uint8(i % 4)
	}

	data, minCode := Encode(pix, 4)
	if minCode != 2 {
		t.Fatalf("Encode minCodeSize = %d, want 2", minCode)
	}
	if len(data) == 0 {
		t.Fatal("Encode produced no output")
	}
}

func TestEncodeEmpty(t *testing.T) {
	data, minCode := Encode(nil, 4)
	if minCode != 2 {
		t.Errorf("minCodeSize = %d, want 2", minCode)
	}
	if len(data) == 0 {
		t.Error("expected at least CLEAR+EOI codes for empty input")
	}
}

func TestEncodeUncompressedLonger(t *testing.T) {
	pix := make([]uint8, 256)
	for i := range pix {
		pix[i] = uint8(i % 8)
	}

	compressed, _ := Encode(pix, 8)
	uncompressed, _ := EncodeUncompressed(pix, 8)

	// Uncompressed mode clears before every symbol, so it should never be
	// smaller than the compressed stream on data with real repetition.
	if len(uncompressed) < len(compressed) {
		t.Errorf("uncompressed (%d bytes) unexpectedly shorter than compressed (%d bytes)", len(uncompressed), len(compressed))
	}
}

func TestFrameSubBlocking(t *testing.T) {
	data := make([]byte, 600)
	framed := Frame(data)

	// 600 bytes -> 255 + 255 + 90, each prefixed by a length byte, plus a
	// trailing 0x00 block terminator.
	wantLen := 1 + 255 + 1 + 255 + 1 + 90 + 1
	if len(framed) != wantLen {
		t.Fatalf("Frame length = %d, want %d", len(framed), wantLen)
	}
	if framed[0] != 255 {
		t.Errorf("first sub-block length = %d, want 255", framed[0])
	}
	if framed[len(framed)-1] != 0x00 {
		t.Error("missing terminating 0x00 block")
	}
}

func TestFrameEmpty(t *testing.T) {
	framed := Frame(nil)
	if len(framed) != 1 || framed[0] != 0x00 {
		t.Errorf("Frame(nil) = %v, want [0x00]", framed)
	}
}
