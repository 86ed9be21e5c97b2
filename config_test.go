package hicolorgif

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsNegativeAntIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AntIterations = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for negative ant_iterations")
	}
}

func TestValidateRejectsNegativeBoosts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SaturationBoost = -0.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for negative saturation_boost")
	}
}

func TestNormalizedDithererAppliesBayerOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BayerIndex = 3
	kind, size := cfg.normalizedDitherer()
	if kind != DitherBayer || size != 8 {
		t.Errorf("normalizedDitherer() = (%v, %d), want (Bayer, 8)", kind, size)
	}
}

func TestNormalizedDithererIgnoresOutOfRangeBayerIndex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ditherer = DitherAtkinson
	cfg.BayerIndex = 9
	kind, size := cfg.normalizedDitherer()
	if kind != DitherAtkinson || size != 0 {
		t.Errorf("normalizedDitherer() = (%v, %d), want (Atkinson, 0)", kind, size)
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[int]bool{0: false, 1: true, 2: true, 3: false, 256: true, 255: false}
	for n, want := range cases {
		if got := isPowerOfTwo(n); got != want {
			t.Errorf("isPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestLoadConfigFileOverlaysOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"ditherer":"Atkinson","repeat":3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Ditherer != DitherAtkinson {
		t.Errorf("Ditherer = %v, want Atkinson", cfg.Ditherer)
	}
	if cfg.Repeat != 3 {
		t.Errorf("Repeat = %d, want 3", cfg.Repeat)
	}
	// Fields absent from the overlay must keep their default value.
	if cfg.Quantizer != QuantizerNeuQuant {
		t.Errorf("Quantizer = %v, want unchanged default NeuQuant", cfg.Quantizer)
	}
}

func TestLoadConfigFileRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}

func TestLoadConfigFileMissingFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
