package metric

import "testing"

func TestEuclideanIdentityAndSymmetry(t *testing.T) {
	a := RGBA{A: 255, R: 10, G: 20, B: 30}
	b := RGBA{A: 255, R: 200, G: 5, B: 90}

	m := Euclidean()
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("Distance(a, a) = %d, want 0", d)
	}
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Error("Euclidean distance is not symmetric")
	}
}

func TestManhattanIdentityAndSymmetry(t *testing.T) {
	a := RGBA{R: 1, G: 2, B: 3}
	b := RGBA{R: 250, G: 10, B: 0}

	m := Manhattan()
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("Distance(a, a) = %d, want 0", d)
	}
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Error("Manhattan distance is not symmetric")
	}
}

func TestWeightedEuclideanZeroWeightIgnoresChannel(t *testing.T) {
	w := Weights{R: 0, G: 1, B: 0}
	m := WeightedEuclidean("test", w)

	a := RGBA{R: 0, G: 50, B: 0}
	b := RGBA{R: 255, G: 50, B: 255}
	if d := m.Distance(a, b); d != 0 {
		t.Errorf("expected zero distance when only the zero-weighted channels differ, got %d", d)
	}
}

func TestCIE94AndCIEDE2000Identity(t *testing.T) {
	a := RGBA{A: 255, R: 128, G: 64, B: 32}
	for _, m := range []Metric{CIE94Textiles(), CIE94GraphicArts(), CIEDE2000()} {
		if d := m.Distance(a, a); d != 0 {
			t.Errorf("%s: Distance(a, a) = %d, want 0", m.Name(), d)
		}
	}
}

func TestCIEDE2000Symmetry(t *testing.T) {
	a := RGBA{A: 255, R: 10, G: 200, B: 30}
	b := RGBA{A: 255, R: 220, G: 15, B: 240}

	m := CIEDE2000()
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Error("CIEDE2000 distance is not symmetric")
	}
}

func TestForDefaultsToCompuPhase(t *testing.T) {
	m1 := For("")
	m2 := For("Default")
	m3 := For("CompuPhase")
	if m1.Name() != m2.Name() || m2.Name() != m3.Name() {
		t.Errorf("expected empty/Default/CompuPhase to resolve to the same metric, got %q/%q/%q", m1.Name(), m2.Name(), m3.Name())
	}
}

func TestForUnknownKindFallsBack(t *testing.T) {
	m := For("NotARealMetric")
	if m == nil {
		t.Fatal("For returned nil for an unknown kind")
	}
}
