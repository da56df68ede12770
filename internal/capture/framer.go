// Package capture provides audio frame sources for the meter pipeline:
// a microphone device backed by miniaudio and a WAV file reader for
// offline analysis. Both deliver mono float64 frames of exactly the
// analysis FFT size.
package capture

// Framer accumulates arbitrarily sized sample buffers from a capture
// callback and emits exact fixed-size frames. The capture layer never
// delivers partial frames downstream; whatever is left in the
// accumulator when the stream stops is dropped.
type Framer struct {
	size    int
	buf     []float64
	filled  int
	onFrame func(frame []float64)
}

// NewFramer creates a framer emitting frames of the given size.
func NewFramer(size int, onFrame func(frame []float64)) *Framer {
	return &Framer{
		size:    size,
		buf:     make([]float64, size),
		onFrame: onFrame,
	}
}

// Push appends samples to the accumulator, emitting a frame each time
// it fills. The emitted slice is reused between frames; consumers must
// finish with it before Push returns.
func (f *Framer) Push(samples []float64) {
	for len(samples) > 0 {
		n := copy(f.buf[f.filled:], samples)
		f.filled += n
		samples = samples[n:]

		if f.filled == f.size {
			f.onFrame(f.buf)
			f.filled = 0
		}
	}
}

// Reset discards any partially accumulated frame.
func (f *Framer) Reset() {
	f.filled = 0
}
