package meter

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform wraps a gonum real FFT plan for a fixed frame size.
// The plan (twiddle factors) is built once and reused for every frame;
// scratch buffers are owned by the transform so the per-frame path does
// not allocate.
type Transform struct {
	fft    *fourier.FFT
	coeffs []complex128
}

// NewTransform builds an FFT plan for frames of the given size.
func NewTransform(size int) *Transform {
	return &Transform{
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
	}
}

// Magnitudes computes the one-sided magnitude spectrum of the windowed
// frame into dst, which must hold size/2 values. Bin k corresponds to
// frequency k*sampleRate/size. No normalisation is applied; magnitudes
// carry the raw FFT scale. An all-zero frame produces all-zero
// magnitudes.
func (t *Transform) Magnitudes(dst, windowed []float64) {
	t.coeffs = t.fft.Coefficients(t.coeffs, windowed)
	for k := range dst {
		re := real(t.coeffs[k])
		im := imag(t.coeffs[k])
		dst[k] = math.Sqrt(re*re + im*im)
	}
}
