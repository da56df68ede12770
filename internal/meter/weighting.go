package meter

import "math"

// A-weighting pole frequencies from IEC 61672-1.
const (
	aWeightF1 = 20.6
	aWeightF2 = 107.7
	aWeightF3 = 737.9
	aWeightF4 = 12194.0
)

// WeightFloorDB is the weight assigned to bins where the A-curve is
// undefined or vanishes (DC in particular). -200 dB is far below
// anything the meter can display, so these bins never contribute.
const WeightFloorDB = -200.0

// AWeightDB returns the A-weighting curve value in dB for frequency f,
// normalised so the curve passes through normOffset dB at 1 kHz
// (normOffset is approximately 2.0 for the standard curve).
func AWeightDB(f, normOffset float64) float64 {
	if f <= 0 {
		return WeightFloorDB
	}
	f2 := f * f
	ra := aWeightF4 * aWeightF4 * f2 * f2 /
		((f2 + aWeightF1*aWeightF1) *
			math.Sqrt((f2+aWeightF2*aWeightF2)*(f2+aWeightF3*aWeightF3)) *
			(f2 + aWeightF4*aWeightF4))
	if ra <= 0 {
		return WeightFloorDB
	}
	db := 20*math.Log10(ra) + normOffset
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return WeightFloorDB
	}
	return db
}

// Weighting holds a precomputed per-bin linear A-weighting vector for a
// fixed sample rate and FFT size. Weighting is applied in the spectral
// domain only - never also in the sample domain, which would weight the
// signal twice.
type Weighting struct {
	weights []float64
}

// NewWeighting precomputes linear multipliers 10^(A_dB/20) for each of
// the fftSize/2 one-sided bins.
func NewWeighting(sampleRate float64, fftSize int, normOffset float64) *Weighting {
	bins := fftSize / 2
	weights := make([]float64, bins)
	for k := range weights {
		f := float64(k) * sampleRate / float64(fftSize)
		weights[k] = math.Pow(10, AWeightDB(f, normOffset)/20)
	}
	return &Weighting{weights: weights}
}

// Apply scales the magnitude spectrum elementwise into dst. dst and
// mags must both be bin-count sized.
func (w *Weighting) Apply(dst, mags []float64) {
	for k := range w.weights {
		dst[k] = mags[k] * w.weights[k]
	}
}

// Bins returns the number of bins the weighting covers.
func (w *Weighting) Bins() int {
	return len(w.weights)
}
