package hicolorgif

import (
	"runtime"
	"sync"
)

// Point is a pixel coordinate, kept local to avoid depending on
// image.Point at the histogram/planner boundary.
type Point struct{ X, Y int }

// HistEntry is one distinct color's occurrence record: its count and
// every coordinate it appears at, per spec §3's "Histogram: mapping
// Color -> (count, coordinates)".
type HistEntry struct {
	Color  Color
	Count  uint32
	Coords []Point
}

// Histogram is the full per-conversion color census, keyed implicitly by
// Color.RGB32() (alpha does not participate when the source has no
// transparency, per spec §4.3).
type Histogram struct {
	entries []HistEntry
	index   map[uint32]int // RGB32 (ARGB32 for partial alpha) -> index into entries
}

// Len returns the number of distinct colors.
func (h *Histogram) Len() int { return len(h.entries) }

// Entries returns the histogram's entries in insertion order. Callers
// must not mutate the returned slice's Coords in place.
func (h *Histogram) Entries() []HistEntry { return h.entries }

// Lookup returns the entry for c, if present.
func (h *Histogram) Lookup(c Color) (HistEntry, bool) {
	key := c.RGB32()
	if c.A != 255 && c.A != 0 {
		key = c.ARGB32()
	}
	i, ok := h.index[key]
	if !ok {
		return HistEntry{}, false
	}
	return h.entries[i], true
}

// BuildHistogram walks buf in parallel horizontal stripes (spec §4.3 and
// §5: "one well-defined parallel phase - histogram construction - using
// data-parallel horizontal stripes"), each goroutine accumulating a
// thread-local map that preserves per-color coordinate lists, merged
// single-threaded afterward.
//
// Grounded on the teacher's single-threaded analyzePixels walk,
// restructured into the stripe/WaitGroup fan-out shape
// deepteams-webp/animation's EncodeAll uses for its own per-frame work;
// stdlib sync/runtime only, since this is a bounded, CPU-bound
// fan-out/fan-in that doesn't benefit from a worker-pool library.
func BuildHistogram(buf PixelBuffer) *Histogram {
	w, h := buf.Width(), buf.Height()

	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}

	type local struct {
		order   []uint32
		entries map[uint32]*HistEntry
	}
	locals := make([]local, workers)

	rowsPerWorker := (h + workers - 1) / workers
	var wg sync.WaitGroup

	for wi := 0; wi < workers; wi++ {
		y0 := wi * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > h {
			y1 = h
		}
		if y0 >= y1 {
			continue
		}

		wg.Add(1)
		go func(wi, y0, y1 int) {
			defer wg.Done()
			lm := make(map[uint32]*HistEntry, 256)
			var order []uint32

			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					c := buf.At(x, y)
					key := c.RGB32()
					if c.A != 255 && c.A != 0 {
						key = c.ARGB32()
					}

					e, ok := lm[key]
					if !ok {
						e = &HistEntry{Color: c}
						lm[key] = e
						order = append(order, key)
					}
					e.Count++
					e.Coords = append(e.Coords, Point{X: x, Y: y})
				}
			}

			locals[wi] = local{order: order, entries: lm}
		}(wi, y0, y1)
	}
	wg.Wait()

	merged := &Histogram{index: make(map[uint32]int)}
	for _, lc := range locals {
		for _, key := range lc.order {
			e := lc.entries[key]
			if i, ok := merged.index[key]; ok {
				merged.entries[i].Count += e.Count
				merged.entries[i].Coords = append(merged.entries[i].Coords, e.Coords...)
				continue
			}
			merged.index[key] = len(merged.entries)
			merged.entries = append(merged.entries, *e)
		}
	}

	return merged
}
