package capture

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/wav"
)

// FileSource replays a WAV file through the same frame-delivery
// contract as the live device, so the offline mode exercises the
// identical pipeline. Multi-channel files are downmixed to mono by
// averaging; the trailing partial frame is dropped, matching the live
// framing policy.
type FileSource struct {
	samples    []float64
	sampleRate float64
	frameSize  int

	mu      sync.Mutex
	paused  bool
	resumed *sync.Cond
	stop    chan struct{}
	done    chan struct{}
}

// OpenFile decodes a WAV file into an offline frame source.
func OpenFile(path string, frameSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio file: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("audio file has no channels: %s", path)
	}
	scale := float64(int(1) << (dec.BitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		var sum float64
		for ch := range channels {
			sum += float64(buf.Data[i*channels+ch])
		}
		samples[i] = sum / (float64(channels) * scale)
	}

	fs := &FileSource{
		samples:    samples,
		sampleRate: float64(buf.Format.SampleRate),
		frameSize:  frameSize,
	}
	fs.resumed = sync.NewCond(&fs.mu)
	return fs, nil
}

// SampleRate returns the file's sample rate in Hz.
func (fs *FileSource) SampleRate() float64 {
	return fs.sampleRate
}

// Duration returns the decoded length in seconds.
func (fs *FileSource) Duration() float64 {
	return float64(len(fs.samples)) / fs.sampleRate
}

// Start delivers the file's frames to onFrame from a background
// goroutine, as fast as the pipeline consumes them. Done is closed
// when the file is exhausted.
func (fs *FileSource) Start(onFrame func(frame []float64)) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.done != nil {
		return nil
	}
	fs.stop = make(chan struct{})
	fs.done = make(chan struct{})
	fs.paused = false

	go fs.run(onFrame, fs.stop, fs.done)
	return nil
}

func (fs *FileSource) run(onFrame func(frame []float64), stop, done chan struct{}) {
	defer close(done)

	for off := 0; off+fs.frameSize <= len(fs.samples); off += fs.frameSize {
		fs.mu.Lock()
		for fs.paused {
			fs.resumed.Wait()
		}
		fs.mu.Unlock()

		select {
		case <-stop:
			return
		default:
		}
		onFrame(fs.samples[off : off+fs.frameSize])
	}
}

// Done reports when the whole file has been delivered.
func (fs *FileSource) Done() <-chan struct{} {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.done
}

// Stop halts delivery and waits for the delivery goroutine to exit, so
// no frame callback runs after Stop returns.
func (fs *FileSource) Stop() error {
	fs.mu.Lock()
	if fs.stop == nil {
		fs.mu.Unlock()
		return nil
	}
	select {
	case <-fs.stop:
	default:
		close(fs.stop)
	}
	fs.paused = false
	fs.resumed.Broadcast()
	done := fs.done
	fs.mu.Unlock()

	<-done

	fs.mu.Lock()
	fs.stop = nil
	fs.done = nil
	fs.mu.Unlock()
	return nil
}

// Suspend pauses delivery before the next frame.
func (fs *FileSource) Suspend() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.paused = true
	return nil
}

// Resume continues delivery after a Suspend.
func (fs *FileSource) Resume() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.paused = false
	fs.resumed.Broadcast()
	return nil
}
