package hicolorgif

import "testing"

func solidBuffer(w, h int, c Color) PixelBuffer {
	pix := make([]Color, w*h)
	for i := range pix {
		pix[i] = c
	}
	return NewPixelBuffer(w, h, pix)
}

func TestApplyColorAdjustmentsIdentityShortCircuits(t *testing.T) {
	src := solidBuffer(2, 2, Color{A: 255, R: 10, G: 20, B: 30})
	out := applyColorAdjustments(src, 1.0, 1.0)
	if out != src {
		t.Error("identity saturation/contrast must return the source buffer unchanged, not a copy")
	}
}

func TestApplyColorAdjustmentsPreservesGray(t *testing.T) {
	gray := Color{A: 255, R: 128, G: 128, B: 128}
	src := solidBuffer(1, 1, gray)
	out := applyColorAdjustments(src, 2.0, 1.0)
	got := out.At(0, 0)
	if got.R != gray.R || got.G != gray.G || got.B != gray.B {
		t.Errorf("saturation boost must leave a gray pixel unchanged, got %+v", got)
	}
}

func TestApplyColorAdjustmentsBoostsSaturation(t *testing.T) {
	c := Color{A: 255, R: 200, G: 100, B: 100}
	src := solidBuffer(1, 1, c)
	out := applyColorAdjustments(src, 2.0, 1.0).At(0, 0)
	if out.R <= c.R {
		t.Errorf("R channel above luma must increase under a saturation boost: got %d, want > %d", out.R, c.R)
	}
	if out.G >= c.G {
		t.Errorf("G channel below luma must decrease under a saturation boost: got %d, want < %d", out.G, c.G)
	}
}

func TestApplyColorAdjustmentsBoostsContrast(t *testing.T) {
	c := Color{A: 255, R: 200, G: 200, B: 200}
	src := solidBuffer(1, 1, c)
	out := applyColorAdjustments(src, 1.0, 2.0).At(0, 0)
	if out.R <= c.R {
		t.Errorf("channel above mid-gray must increase under a contrast boost: got %d, want > %d", out.R, c.R)
	}
}

func TestClampChannelSaturatesAtBounds(t *testing.T) {
	if got := clampChannel(300); got != 255 {
		t.Errorf("clampChannel(300) = %d, want 255", got)
	}
	if got := clampChannel(-50); got != 0 {
		t.Errorf("clampChannel(-50) = %d, want 0", got)
	}
}

func TestApplyColorAdjustmentsPreservesAlpha(t *testing.T) {
	c := Color{A: 128, R: 200, G: 50, B: 10}
	src := solidBuffer(1, 1, c)
	out := applyColorAdjustments(src, 1.5, 1.5).At(0, 0)
	if out.A != c.A {
		t.Errorf("A = %d, want unchanged %d", out.A, c.A)
	}
}
