package framesource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodePNGReturnsSingleStillFrame(t *testing.T) {
	data := encodePNG(t, solidRGBA(3, 3, color.RGBA{R: 200, A: 255}))

	frames, err := Decode(bytes.NewReader(data), "png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("len(frames) = %d, want 1", len(frames))
	}
	if frames[0].Delay != 0 {
		t.Errorf("Delay = %d, want 0 for a still image", frames[0].Delay)
	}
}

func TestOpenAndNextFrameExhausts(t *testing.T) {
	data := encodePNG(t, solidRGBA(2, 2, color.RGBA{G: 150, A: 255}))

	src, err := Open(bytes.NewReader(data), "png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	img, delay, ok, err := src.NextFrame()
	if err != nil || !ok || img == nil {
		t.Fatalf("NextFrame #1 = (%v, %d, %v, %v), want a valid frame", img, delay, ok, err)
	}

	_, _, ok, err = src.NextFrame()
	if ok || err != nil {
		t.Fatalf("NextFrame #2 = (ok=%v, err=%v), want (false, nil) once exhausted", ok, err)
	}
}

func TestApplyOrientationRotate90(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	out := applyOrientation(img, 6)
	b := out.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Fatalf("rotated bounds = %v, want 1x2", b)
	}
}

func TestApplyOrientationIdentityForNormalOrientation(t *testing.T) {
	img := solidRGBA(2, 2, color.RGBA{R: 10, A: 255})
	out := applyOrientation(img, 1)
	if out != image.Image(img) {
		t.Error("orientation 1 (normal) must return the image unchanged")
	}
}

func TestFlipHMirrorsHorizontally(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})

	out := flipH(img)
	_, _, b0, _ := out.At(0, 0).RGBA()
	if b0 == 0 {
		t.Error("flipH: pixel at (0,0) should now carry the original (1,0) blue pixel")
	}
}

func TestDrawOverSkipsTransparentSource(t *testing.T) {
	canvas := solidRGBA(2, 2, color.RGBA{R: 100, A: 255})
	src := image.NewRGBA(image.Rect(0, 0, 2, 2)) // fully transparent

	drawOver(canvas, src)
	r, _, _, _ := canvas.At(0, 0).RGBA()
	if r>>8 != 100 {
		t.Error("drawOver must not overwrite opaque canvas pixels with a fully transparent source")
	}
}

func TestDecodeMalformedPNGFails(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not an image")), "png"); err == nil {
		t.Error("expected an error for malformed PNG data")
	}
}
