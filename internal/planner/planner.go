// Package planner implements spec §4.6: partitioning a full, possibly
// >256-color histogram into an ordered sequence of sub-image plans, each
// with its own ≤256-entry palette and active-pixel mask.
package planner

import (
	"math/rand"
	"sort"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// Point is a pixel coordinate, mirroring the root package's Point to
// avoid an import cycle (root imports this package, not the reverse).
type Point struct{ X, Y int }

// HistEntry is one distinct color's count and coordinate list, the
// planner's view of the root package's Histogram.
type HistEntry struct {
	Color  metric.RGBA
	Count  uint32
	Coords []Point
}

// Ordering selects how distinct colors are assigned to sub-image groups,
// per spec §4.6.
type Ordering string

const (
	MostUsedFirst      Ordering = "MostUsedFirst"
	LeastUsedFirst     Ordering = "LeastUsedFirst"
	HighLuminanceFirst Ordering = "HighLuminanceFirst"
	LowLuminanceFirst  Ordering = "LowLuminanceFirst"
	FromCenter         Ordering = "FromCenter"
	RandomOrdering     Ordering = "Random"
)

// Plan is one sub-image: a palette, an active-pixel mask over the full
// frame, and (for non-background-initializing sub-images) a transparent
// index. TransparentIndex is -1 when the sub-image has no transparency
// (the background-initializing first sub-image).
type Plan struct {
	Palette          []metric.RGBA
	Mask             []bool // row-major, Width*Height
	Width, Height    int
	TransparentIndex int
	// DithersFullFrame marks the background-initializing sub-image,
	// which must be painted via a full dithered pass against its
	// palette rather than exact/back-filled matching.
	DithersFullFrame bool
}

func (p *Plan) active(x, y int) bool { return p.Mask[y*p.Width+x] }
func (p *Plan) setActive(x, y int)   { p.Mask[y*p.Width+x] = true }

// Options configures the planner per spec §6.
type Options struct {
	Ordering                     Ordering
	FirstSubImageInitsBackground bool
	UseBackFilling               bool
	RandomSeed                   int64
	Width, Height                int
	Metric                       metric.Metric
}

func luminance(c metric.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// orderedColors sorts hist's distinct colors per opt.Ordering.
func orderedColors(hist []HistEntry, opt Options) []HistEntry {
	out := make([]HistEntry, len(hist))
	copy(out, hist)

	switch opt.Ordering {
	case LeastUsedFirst:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	case HighLuminanceFirst:
		sort.SliceStable(out, func(i, j int) bool { return luminance(out[i].Color) > luminance(out[j].Color) })
	case LowLuminanceFirst:
		sort.SliceStable(out, func(i, j int) bool { return luminance(out[i].Color) < luminance(out[j].Color) })
	case FromCenter:
		cx, cy := float64(opt.Width)/2, float64(opt.Height)/2
		firstOccurrence := func(e HistEntry) (int, int) {
			best := e.Coords[0]
			for _, p := range e.Coords[1:] {
				if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
					best = p
				}
			}
			return best.X, best.Y
		}
		distSq := func(e HistEntry) float64 {
			x, y := firstOccurrence(e)
			dx, dy := float64(x)-cx, float64(y)-cy
			return dx*dx + dy*dy
		}
		sort.SliceStable(out, func(i, j int) bool { return distSq(out[i]) < distSq(out[j]) })
	case RandomOrdering:
		r := rand.New(rand.NewSource(opt.RandomSeed))
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	default: // MostUsedFirst
		sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	}

	return out
}

// Plans partitions hist's distinct colors into sub-image groups and
// produces their plans: 255 colors plus one transparent slot in each
// group, except that a first group which initializes the background
// (FirstSubImageInitsBackground) takes up to 256 colors with no
// transparency reserved, per spec §4.6.
//
// Grounded on spec §4.6's own grouping description; no example repo does
// byte-exact multi-frame GIF layering, so the group-size/overlap logic is
// built directly from the spec rather than adapted from a pack file.
func Plans(hist []HistEntry, opt Options) []*Plan {
	if len(hist) == 0 {
		return nil
	}

	ordered := orderedColors(hist, opt)

	var groups [][]HistEntry
	for len(ordered) > 0 {
		size := 255
		if len(groups) == 0 && opt.FirstSubImageInitsBackground {
			// Only the background-initializing first group skips a
			// reserved transparent slot, so only it gets the full 256.
			size = 256
		}
		if size > len(ordered) {
			size = len(ordered)
		}
		groups = append(groups, ordered[:size])
		ordered = ordered[size:]
	}

	painted := make([]bool, opt.Width*opt.Height)
	plans := make([]*Plan, 0, len(groups))

	for gi, g := range groups {
		plan := &Plan{
			Width:            opt.Width,
			Height:           opt.Height,
			Mask:             make([]bool, opt.Width*opt.Height),
			TransparentIndex: -1,
		}

		if gi == 0 && opt.FirstSubImageInitsBackground {
			plan.DithersFullFrame = true
			for i := range plan.Mask {
				plan.Mask[i] = true
			}
			for _, e := range g {
				plan.Palette = append(plan.Palette, e.Color)
			}
			for i := range painted {
				painted[i] = true
			}
			plans = append(plans, plan)
			continue
		}

		for _, e := range g {
			plan.Palette = append(plan.Palette, e.Color)
		}
		// Reserve a transparent slot; its RGB value is never shown (the
		// compositor always marks it transparent in the GCE), black is
		// an arbitrary but conventional placeholder.
		plan.TransparentIndex = len(plan.Palette)
		plan.Palette = append(plan.Palette, metric.RGBA{A: 0})

		for _, e := range g {
			for _, p := range e.Coords {
				i := p.Y*opt.Width + p.X
				if painted[i] {
					continue
				}
				plan.setActive(p.X, p.Y)
				painted[i] = true
			}
		}

		isLast := gi == len(groups)-1
		if opt.UseBackFilling && isLast {
			// Open Question resolution: back-filling's invariant
			// ("union of masks equals full image" when
			// first_sub_image_inits_background=false) is satisfied by
			// having only the LAST group mop up any still-unpainted
			// pixels with a nearest-match approximation against its own
			// palette, rather than every group competing for leftover
			// pixels via a global nearest-match search.
			if len(plan.Palette) > plan.TransparentIndex { // has at least one real color
				for y := 0; y < opt.Height; y++ {
					for x := 0; x < opt.Width; x++ {
						i := y*opt.Width + x
						if painted[i] {
							continue
						}
						// Actual index assignment (nearest-match lookup) is
						// the compositor/dither stage's job; the planner
						// only decides which pixels this sub-image owns.
						plan.setActive(x, y)
						painted[i] = true
					}
				}
			}
		}

		plans = append(plans, plan)
	}

	return plans
}
