// Package paletteindex implements the nearest-palette-index lookup of spec
// §4.2: exact matches short-circuit through a memoized map, otherwise a
// linear scan finds the closest entry with an early exit once a distance of
// 1 or less is seen. A Lookup is observably pure (same palette and query
// always yield the same index). Find memoizes every color it resolves,
// exact match or not, so the memo map grows with the number of distinct
// queries and can allocate when a new color is stored.
package paletteindex

import (
	"sync"

	"github.com/hicolorgif/hicolorgif/internal/metric"
)

// Lookup resolves colors to indices in a fixed palette using a configured
// Metric. It is safe for concurrent use: per spec §5, a palette's cache may
// in principle be shared by multiple dithering goroutines, so writes to the
// exact-match memo are serialized by a mutex even though this
// implementation dithers one sub-image at a time.
type Lookup struct {
	palette []metric.RGBA
	m       metric.Metric

	mu   sync.Mutex
	memo map[uint32]uint8
}

// New builds a Lookup over palette using m as the distance metric.
func New(palette []metric.RGBA, m metric.Metric) *Lookup {
	return &Lookup{
		palette: palette,
		m:       m,
		memo:    make(map[uint32]uint8, len(palette)),
	}
}

func key(c metric.RGBA) uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Find returns the index of the palette entry closest to c. An empty
// palette returns (0, false).
func (l *Lookup) Find(c metric.RGBA) (uint8, bool) {
	if len(l.palette) == 0 {
		return 0, false
	}

	k := key(c)

	l.mu.Lock()
	if idx, ok := l.memo[k]; ok {
		l.mu.Unlock()
		return idx, true
	}
	l.mu.Unlock()

	best := uint8(0)
	bestDist := l.m.Distance(c, l.palette[0])
	for i := 1; i < len(l.palette); i++ {
		d := l.m.Distance(c, l.palette[i])
		if d < bestDist {
			bestDist = d
			best = uint8(i)
			if d <= 1 {
				break
			}
		}
	}

	l.mu.Lock()
	l.memo[k] = best
	l.mu.Unlock()

	return best, true
}

// Len returns the number of entries in the underlying palette.
func (l *Lookup) Len() int { return len(l.palette) }

// At returns the palette entry at index i.
func (l *Lookup) At(i int) metric.RGBA { return l.palette[i] }
