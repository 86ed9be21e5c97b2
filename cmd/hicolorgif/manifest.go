package main

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/hicolorgif/hicolorgif"
)

// frameOverride holds the per-input-file knobs a manifest entry may set on
// top of the base Config built from the flags. Any field left absent in
// the manifest keeps the base Config's value.
type frameOverride struct {
	ditherer   string
	hasDither  bool
	quantizer  string
	hasQuant   bool
	repeat     int
	hasRepeat  bool
}

// loadManifest reads a JSON manifest mapping source file names to
// per-file overrides, using gjson point-queries rather than a full
// json.Unmarshal so a field missing from a manifest entry means "no
// override" for that field. A manifest that is not valid JSON is an error.
//
// Grounded on the teacher's own unused gjson dependency (declared in its
// go.mod but never imported); wired here as the CLI's manifest reader.
func loadManifest(path string) (map[string]frameOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if !gjson.Valid(string(data)) {
		return nil, fmt.Errorf("manifest %s is not valid JSON", path)
	}

	overrides := make(map[string]frameOverride)
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		var o frameOverride

		if d := value.Get("ditherer"); d.Exists() {
			o.ditherer = d.String()
			o.hasDither = true
		}
		if q := value.Get("quantizer"); q.Exists() {
			o.quantizer = q.String()
			o.hasQuant = true
		}
		if r := value.Get("repeat"); r.Exists() {
			o.repeat = int(r.Int())
			o.hasRepeat = true
		}

		overrides[name] = o
		return true
	})

	return overrides, nil
}

// applyOverride layers a manifest entry's fields onto cfg, returning the
// Config Encode should actually use for that input file.
func applyOverride(cfg hicolorgif.Config, o frameOverride) hicolorgif.Config {
	if o.hasDither {
		cfg.Ditherer = hicolorgif.DithererKind(o.ditherer)
	}
	if o.hasQuant {
		cfg.Quantizer = hicolorgif.QuantizerKind(o.quantizer)
	}
	if o.hasRepeat {
		cfg.Repeat = o.repeat
	}
	return cfg
}
