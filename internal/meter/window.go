// Package meter implements the real-time sound level analysis pipeline:
// Hann windowing, FFT, A-weighting, band aggregation and smoothed dB
// level tracking.
package meter

import (
	"fmt"
	"math"
)

// Window holds precomputed Hann coefficients for a fixed frame size.
// Computed once at pipeline initialisation and read-only thereafter.
type Window struct {
	coeffs []float64
}

// NewWindow precomputes Hann coefficients for frames of the given size.
func NewWindow(size int) *Window {
	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return &Window{coeffs: coeffs}
}

// Size returns the frame size the window was built for.
func (w *Window) Size() int {
	return len(w.coeffs)
}

// Apply multiplies the window into frame, writing into dst.
// dst must be at least frame-sized; frame length must match the window
// exactly - partial frames from the capture layer are the caller's
// problem and are never windowed here.
func (w *Window) Apply(dst, frame []float64) error {
	if len(frame) != len(w.coeffs) {
		return fmt.Errorf("frame length %d does not match window size %d", len(frame), len(w.coeffs))
	}
	for i, s := range frame {
		dst[i] = s * w.coeffs[i]
	}
	return nil
}
