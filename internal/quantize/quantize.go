// Package quantize implements spec §4.4: reducing a histogram of up to
// ~16.7M colors to at most 256 representative colors, via several classical
// algorithms plus PCA-preprocessing and ant-refinement wrappers.
package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

// ColorCount is one histogram entry: a color and its occurrence count.
type ColorCount struct {
	Color metric.RGBA
	Count uint32
}

// Histogram is the quantizer's input: the distinct colors of an image and
// how often each occurs. Quantizers never need the per-color coordinate
// list spec §3 attaches to the full histogram — only planner needs that —
// so this is the narrower view.
type Histogram []ColorCount

// Reducer is the algorithm-specific half of a Quantizer: reduce(n, hist)
// returns at most n representative colors, with no uniqueness, padding, or
// count-matching guarantees — those are supplied by the wrapping Quantizer.
type Reducer interface {
	Reduce(n int, hist Histogram) []metric.RGBA
}

// Quantizer is the public contract of spec §4.4: reduce(N, histogram) ->
// Palette of exactly N entries (for N>0), unique by 32-bit ARGB, containing
// any single distinct color outright, and N=0 returning an empty result.
type Quantizer struct {
	name string
	r    Reducer
}

// New wraps a Reducer so it satisfies the Quantizer post-conditions.
func New(name string, r Reducer) *Quantizer {
	return &Quantizer{name: name, r: r}
}

// Name identifies the wrapped algorithm.
func (q *Quantizer) Name() string { return q.name }

// Reduce enforces the four post-conditions from spec §4.4 around whatever
// the wrapped Reducer produces.
func (q *Quantizer) Reduce(n int, hist Histogram) []metric.RGBA {
	if n <= 0 {
		return nil
	}

	var result []metric.RGBA
	if len(hist) == 0 {
		result = nil
	} else {
		result = q.r.Reduce(n, hist)
	}

	result = dedupe(result)

	if len(hist) == 1 {
		result = ensureContains(result, hist[0].Color)
	}

	result = padOrTruncate(result, n, hist)
	return result
}

func dedupe(in []metric.RGBA) []metric.RGBA {
	seen := make(map[uint32]struct{}, len(in))
	out := make([]metric.RGBA, 0, len(in))
	for _, c := range in {
		k := argbKey(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

func argbKey(c metric.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func ensureContains(in []metric.RGBA, c metric.RGBA) []metric.RGBA {
	for _, e := range in {
		if e == c {
			return in
		}
	}
	return append([]metric.RGBA{c}, in...)
}

// padOrTruncate pads a short result with fallback colors (cycling through
// the histogram's most frequent entries, then black/white/gray steps if the
// histogram itself is exhausted) or truncates an over-long one to exactly n.
func padOrTruncate(in []metric.RGBA, n int, hist Histogram) []metric.RGBA {
	if len(in) > n {
		return in[:n]
	}
	if len(in) == n {
		return in
	}

	seen := make(map[uint32]struct{}, len(in))
	for _, c := range in {
		seen[argbKey(c)] = struct{}{}
	}

	out := make([]metric.RGBA, len(in), n)
	copy(out, in)

	// Fall back to the histogram's own colors first, most frequent last
	// added first (histogram is not assumed sorted, so sort locally).
	sorted := make(Histogram, len(hist))
	copy(sorted, hist)
	sortByCountDesc(sorted)

	for _, cc := range sorted {
		if len(out) >= n {
			break
		}
		k := argbKey(cc.Color)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, cc.Color)
	}

	// Still short (empty or tiny histogram): synthesize a gray ramp.
	step := 0
	for len(out) < n {
		v := uint8((step * 255) / 255)
		if n > 1 {
			v = uint8((step * 255) / (n - 1))
		}
		c := metric.RGBA{A: 255, R: v, G: v, B: v}
		k := argbKey(c)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, c)
		}
		step++
		if step > n*2+256 {
			// Defensive bound: grey ramp collisions exhausted, fall
			// back to raw (possibly colliding) entries rather than loop
			// forever.
			for len(out) < n {
				out = append(out, metric.RGBA{A: 255})
			}
			break
		}
	}

	return out
}

func sortByCountDesc(h Histogram) {
	// Simple insertion sort: histograms handed to padding are already
	// small in practice (only reached when a quantizer under-produces).
	for i := 1; i < len(h); i++ {
		j := i
		for j > 0 && h[j-1].Count < h[j].Count {
			h[j-1], h[j] = h[j], h[j-1]
			j--
		}
	}
}
