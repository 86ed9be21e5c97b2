package quantize

import "github.com/hicolorgif/hicolorgif/internal/metric"

/*
neuQuant implements Anthony Dekker's 1994 Neural-Net quantization algorithm
("Kohonen neural networks for optimal colour quantization", Network:
Computation in Neural Systems, Vol. 5, 1994, pp 351-367).

Adapted from the original Go port's network/training/index-search split
(itself traceable to Dekker's NEUQUANT.C, via the Java/AS3/JS GIF-encoder
lineage): the network always trains to 256 neurons, since that lineage's
BuildColormap/GetColormap/LookupRGB triad hardcodes netsize = 256. Reduce(n)
below trains the full 256-neuron net and then clusters it down to n
representative neurons when n < 256, rather than changing the network size
(retuning ncycles/radius/alpha for an arbitrary net size is its own research
problem Dekker's paper doesn't cover).

The teacher's own LookupRGB carried a long-standing naming confusion,
storing channels in (b,g,r) order in a function documented as taking RGB;
colormap() below always returns natural R,G,B order regardless, so that
confusion stays internal to this file and never reaches callers.
*/

const (
	nqNCycles         = 100
	nqNetsize         = 256
	nqMaxNetPos       = nqNetsize - 1
	nqNetBiasShift    = 4
	nqIntBiasShift    = 16
	nqIntBias         = 1 << nqIntBiasShift
	nqGammaShift      = 10
	nqGamma           = 1 << nqGammaShift
	nqBetaShift       = 10
	nqBeta            = nqIntBias >> nqBetaShift
	nqBetaGamma       = nqIntBias << (nqGammaShift - nqBetaShift)
	nqInitRad         = nqNetsize >> 3
	nqRadiusBiasShift = 6
	nqRadiusBias      = 1 << nqRadiusBiasShift
	nqInitRadius      = nqInitRad * nqRadiusBias
	nqRadiusDec       = 30
	nqAlphaBiasShift  = 10
	nqInitAlpha       = 1 << nqAlphaBiasShift
	nqRadBiasShift    = 8
	nqRadBias         = 1 << nqRadBiasShift
	nqAlphaRadBShift  = nqAlphaBiasShift + nqRadBiasShift
	nqAlphaRadBias    = 1 << nqAlphaRadBShift
	nqPrime1          = 499
	nqPrime2          = 491
	nqPrime3          = 487
	nqPrime4          = 503
	nqMinPixels       = 3 * nqPrime4
)

// neuQuant trains a 256-entry Kohonen network over RGB samples drawn from a
// histogram (weighted by each color's count so frequent colors pull the net
// harder, the histogram-driven analogue of the teacher's raw pixel walk).
type neuQuant struct {
	network  [][4]int32
	netindex [256]int32
	bias     [256]int32
	freq     [256]int32
	radpower [nqInitRad]int32
	samples  []metric.RGBA // expanded, weight-capped sample sequence
	sampleFac int
}

func newNeuQuant(hist Histogram, sampleFac int) *neuQuant {
	if sampleFac < 1 {
		sampleFac = 1
	}
	if sampleFac > 30 {
		sampleFac = 30
	}
	return &neuQuant{
		samples:   expandSamples(hist),
		sampleFac: sampleFac,
	}
}

// expandSamples turns a (color, count) histogram into a flat color sequence
// for the network to walk, capping any single color's repeat count so a
// handful of dominant colors can't make the sample sweep enormous.
func expandSamples(hist Histogram) []metric.RGBA {
	const cap_ = 64
	out := make([]metric.RGBA, 0, len(hist)*4)
	for _, cc := range hist {
		n := int(cc.Count)
		if n > cap_ {
			n = cap_
		}
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, cc.Color)
		}
	}
	return out
}

func (nq *neuQuant) init() {
	for i := 0; i < nqNetsize; i++ {
		v := int32((i << (nqNetBiasShift + 8)) / nqNetsize)
		nq.network[i] = [4]int32{v, v, v, 0}
		nq.freq[i] = nqIntBias / nqNetsize
		nq.bias[i] = 0
	}
}

func (nq *neuQuant) buildColormap() {
	nq.network = make([][4]int32, nqNetsize)
	nq.init()
	nq.learn()
	nq.unbiasnet()
	nq.inxbuild()
}

func (nq *neuQuant) colormap() []metric.RGBA {
	out := make([]metric.RGBA, nqNetsize)
	idx := make([]int, nqNetsize)
	for i := 0; i < nqNetsize; i++ {
		idx[nq.network[i][3]] = i
	}
	for i := 0; i < nqNetsize; i++ {
		j := idx[i]
		out[i] = metric.RGBA{
			A: 255,
			R: uint8(nq.network[j][0]),
			G: uint8(nq.network[j][1]),
			B: uint8(nq.network[j][2]),
		}
	}
	return out
}

func (nq *neuQuant) unbiasnet() {
	for i := 0; i < nqNetsize; i++ {
		nq.network[i][0] >>= nqNetBiasShift
		nq.network[i][1] >>= nqNetBiasShift
		nq.network[i][2] >>= nqNetBiasShift
		nq.network[i][3] = int32(i)
	}
}

func (nq *neuQuant) altersingle(alpha, i int32, r, g, b int32) {
	nq.network[i][0] -= (alpha * (nq.network[i][0] - r)) / nqInitAlpha
	nq.network[i][1] -= (alpha * (nq.network[i][1] - g)) / nqInitAlpha
	nq.network[i][2] -= (alpha * (nq.network[i][2] - b)) / nqInitAlpha
}

func (nq *neuQuant) alterneigh(radius, i int, r, g, b int32) {
	lo := abs32(i - radius)
	hi := i + radius
	if hi > nqNetsize {
		hi = nqNetsize
	}

	j := i + 1
	k := i - 1
	m := 1

	for j < hi || k > lo {
		a := nq.radpower[m]
		m++

		if j < hi {
			p := &nq.network[j]
			p[0] -= (a * (p[0] - r)) / nqAlphaRadBias
			p[1] -= (a * (p[1] - g)) / nqAlphaRadBias
			p[2] -= (a * (p[2] - b)) / nqAlphaRadBias
			j++
		}
		if k > lo {
			p := &nq.network[k]
			p[0] -= (a * (p[0] - r)) / nqAlphaRadBias
			p[1] -= (a * (p[1] - g)) / nqAlphaRadBias
			p[2] -= (a * (p[2] - b)) / nqAlphaRadBias
			k--
		}
	}
}

func (nq *neuQuant) contest(r, g, b int32) int {
	bestd := int32(0x7fffffff)
	bestbiasd := bestd
	bestpos := 0
	bestbiaspos := 0

	for i := 0; i < nqNetsize; i++ {
		n := &nq.network[i]
		dist := abs32int(n[0]-r) + abs32int(n[1]-g) + abs32int(n[2]-b)
		if dist < bestd {
			bestd = dist
			bestpos = i
		}

		biasdist := dist - (nq.bias[i] >> (nqIntBiasShift - nqNetBiasShift))
		if biasdist < bestbiasd {
			bestbiasd = biasdist
			bestbiaspos = i
		}

		betafreq := nq.freq[i] >> nqBetaShift
		nq.freq[i] -= betafreq
		nq.bias[i] += betafreq << nqGammaShift
	}

	nq.freq[bestpos] += nqBeta
	nq.bias[bestpos] -= nqBetaGamma

	return bestbiaspos
}

func (nq *neuQuant) learn() {
	lengthcount := len(nq.samples)
	if lengthcount == 0 {
		return
	}

	alphadec := int32(30 + (nq.sampleFac-1)/3)
	samplepixels := lengthcount / nq.sampleFac
	if samplepixels < 1 {
		samplepixels = 1
	}
	delta := samplepixels / nqNCycles
	if delta == 0 {
		delta = 1
	}

	alpha := int32(nqInitAlpha)
	radius := int32(nqInitRadius)
	rad := int(radius >> nqRadiusBiasShift)
	if rad <= 1 {
		rad = 0
	}
	for i := 0; i < rad; i++ {
		nq.radpower[i] = alpha * (int32(rad*rad-i*i) * nqRadBias / int32(rad*rad))
	}

	step := 1
	if lengthcount < nqMinPixels {
		step = 1
	} else if lengthcount%nqPrime1 != 0 {
		step = nqPrime1
	} else if lengthcount%nqPrime2 != 0 {
		step = nqPrime2
	} else if lengthcount%nqPrime3 != 0 {
		step = nqPrime3
	} else {
		step = nqPrime4
	}

	pix := 0
	for i := 0; i < samplepixels; i++ {
		c := nq.samples[pix]
		r := int32(c.R) << nqNetBiasShift
		g := int32(c.G) << nqNetBiasShift
		b := int32(c.B) << nqNetBiasShift

		j := nq.contest(r, g, b)
		nq.altersingle(alpha, int32(j), r, g, b)
		if rad != 0 {
			nq.alterneigh(rad, j, r, g, b)
		}

		pix += step
		pix %= lengthcount

		if (i+1)%delta == 0 {
			alpha -= alpha / alphadec
			radius -= radius / nqRadiusDec
			rad = int(radius >> nqRadiusBiasShift)
			if rad <= 1 {
				rad = 0
			}
			for j := 0; j < rad; j++ {
				nq.radpower[j] = alpha * (int32(rad*rad-j*j) * nqRadBias / int32(rad*rad))
			}
		}
	}
}

func (nq *neuQuant) inxbuild() {
	previouscol := int32(0)
	startpos := 0

	for i := 0; i < nqNetsize; i++ {
		smallpos := i
		smallval := nq.network[i][1]

		for j := i + 1; j < nqNetsize; j++ {
			if nq.network[j][1] < smallval {
				smallpos = j
				smallval = nq.network[j][1]
			}
		}

		if i != smallpos {
			nq.network[i], nq.network[smallpos] = nq.network[smallpos], nq.network[i]
		}

		if smallval != previouscol {
			nq.netindex[previouscol] = int32((startpos + i) >> 1)
			for j := previouscol + 1; j < smallval; j++ {
				nq.netindex[j] = int32(i)
			}
			previouscol = smallval
			startpos = i
		}
	}

	nq.netindex[previouscol] = int32((startpos + nqMaxNetPos) >> 1)
	for j := previouscol + 1; j < 256; j++ {
		nq.netindex[j] = nqMaxNetPos
	}
}

func abs32(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func abs32int(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// neuQuantReducer adapts the 256-neuron trained network into the Reducer
// contract, clustering down to n < 256 by greedy nearest-pair merging when
// the caller asked for fewer colors than the network always trains.
type neuQuantReducer struct {
	sample int
}

// NewNeuQuant builds the Quantizer wrapping the teacher's NeuQuant network,
// keeping the sampling-interval quality knob (1..30, lower is better) the
// teacher exposed as SetQuality.
func NewNeuQuant(sample int) *Quantizer {
	return New("NeuQuant", neuQuantReducer{sample: sample})
}

func (r neuQuantReducer) Reduce(n int, hist Histogram) []metric.RGBA {
	nq := newNeuQuant(hist, r.sample)
	nq.buildColormap()
	full := nq.colormap()

	if n >= len(full) {
		return full
	}
	return mergeDownTo(full, hist, n)
}

// mergeDownTo collapses a 256-entry palette to n entries by repeatedly
// merging the closest pair, weighted by each original entry's histogram
// occurrence so a merge favors keeping the more common color.
func mergeDownTo(palette []metric.RGBA, hist Histogram, n int) []metric.RGBA {
	weight := make([]float64, len(palette))
	counts := make(map[uint32]uint32, len(hist))
	for _, cc := range hist {
		counts[argbKey(cc.Color)] += cc.Count
	}
	// Palette entries rarely match histogram colors exactly (they're
	// network centroids); fall back to a uniform weight of 1 when no
	// exact histogram hit exists.
	for i, c := range palette {
		if w, ok := counts[argbKey(c)]; ok {
			weight[i] = float64(w)
		} else {
			weight[i] = 1
		}
	}

	type entry struct {
		c metric.RGBA
		w float64
	}
	entries := make([]entry, len(palette))
	for i, c := range palette {
		entries[i] = entry{c: c, w: weight[i]}
	}

	sq := func(v int32) int64 { return int64(v) * int64(v) }
	dist := func(a, b metric.RGBA) int64 {
		dr := int32(a.R) - int32(b.R)
		dg := int32(a.G) - int32(b.G)
		db := int32(a.B) - int32(b.B)
		return sq(dr) + sq(dg) + sq(db)
	}

	for len(entries) > n {
		bi, bj := 0, 1
		best := int64(-1)
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				d := dist(entries[i].c, entries[j].c)
				if best < 0 || d < best {
					best = d
					bi, bj = i, j
				}
			}
		}
		wi, wj := entries[bi].w, entries[bj].w
		total := wi + wj
		merged := metric.RGBA{
			A: 255,
			R: weightedAvg(entries[bi].c.R, entries[bj].c.R, wi, wj, total),
			G: weightedAvg(entries[bi].c.G, entries[bj].c.G, wi, wj, total),
			B: weightedAvg(entries[bi].c.B, entries[bj].c.B, wi, wj, total),
		}
		entries[bi] = entry{c: merged, w: total}
		entries = append(entries[:bj], entries[bj+1:]...)
	}

	out := make([]metric.RGBA, len(entries))
	for i, e := range entries {
		out[i] = e.c
	}
	return out
}

func weightedAvg(a, b uint8, wa, wb, total float64) uint8 {
	if total == 0 {
		return a
	}
	v := (float64(a)*wa + float64(b)*wb) / total
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
