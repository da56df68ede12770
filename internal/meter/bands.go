package meter

import "fmt"

// Band count limits for the display spectrum.
const (
	MinBands     = 10
	MaxBands     = 100
	DefaultBands = 60
)

// Aggregator reduces the one-sided magnitude spectrum into a fixed
// number of contiguous display bands. Each band takes the maximum
// magnitude of its bin group - max rather than average keeps transients
// visible in the visualiser. Band boundaries are derived from the bin
// count at construction; changing the band count means building a new
// aggregator, never resizing mid-frame.
type Aggregator struct {
	bins        int
	bands       int
	binsPerBand int
}

// NewAggregator partitions bins into bands contiguous groups of
// floor(bins/bands) bins each. The remainder bins beyond the last even
// boundary fold into the final band so no spectrum energy is silently
// discarded.
func NewAggregator(bins, bands int) (*Aggregator, error) {
	if bands < MinBands || bands > MaxBands {
		return nil, fmt.Errorf("band count %d outside supported range [%d,%d]", bands, MinBands, MaxBands)
	}
	if bins < bands {
		return nil, fmt.Errorf("cannot split %d bins into %d bands", bins, bands)
	}
	return &Aggregator{
		bins:        bins,
		bands:       bands,
		binsPerBand: bins / bands,
	}, nil
}

// Bands returns the configured band count.
func (a *Aggregator) Bands() int {
	return a.bands
}

// Aggregate reduces the weighted magnitude spectrum to one max value
// per band. The result is freshly allocated each frame: it is the
// published spectrum and must never alias the pipeline's scratch
// buffers.
func (a *Aggregator) Aggregate(weighted []float64) []float64 {
	out := make([]float64, a.bands)
	for b := range a.bands {
		start := b * a.binsPerBand
		end := start + a.binsPerBand
		if b == a.bands-1 {
			end = a.bins
		}
		peak := 0.0
		for k := start; k < end; k++ {
			if weighted[k] > peak {
				peak = weighted[k]
			}
		}
		out[b] = peak
	}
	return out
}
