package capture

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gen2brain/malgo"
)

// Capture format: mono 16-bit at 44.1 kHz. The analysis pipeline's
// bin-to-frequency mapping is derived from this rate.
const (
	DefaultSampleRate = 44100
	captureChannels   = 1
)

// Device captures microphone audio through miniaudio and delivers
// exact-size mono float64 frames. Suspend and Resume pause the stream
// without releasing the device, so backgrounding does not renegotiate
// the format.
type Device struct {
	sampleRate uint32
	frameSize  int

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	framer *Framer

	// conversion scratch, reused across data callbacks
	samples []float64
}

// NewDevice creates an unopened capture device. frameSize is the
// analysis FFT size; the device chops the platform's callback buffers
// into frames of exactly this many samples.
func NewDevice(sampleRate uint32, frameSize int) *Device {
	return &Device{
		sampleRate: sampleRate,
		frameSize:  frameSize,
	}
}

// SampleRate returns the configured capture rate in Hz.
func (d *Device) SampleRate() float64 {
	return float64(d.sampleRate)
}

// preferredBackend picks the native audio backend per platform,
// falling back to miniaudio's auto selection elsewhere.
func preferredBackend() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	}
	return nil
}

// Start opens the default capture device and begins delivering frames
// to onFrame from the audio callback goroutine. Any failure tears down
// whatever was initialised and leaves the device closed.
func (d *Device) Start(onFrame func(frame []float64)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		return nil
	}

	ctx, err := malgo.InitContext(preferredBackend(), malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialise audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = captureChannels
	deviceConfig.SampleRate = d.sampleRate
	deviceConfig.Alsa.NoMMap = 1

	d.framer = NewFramer(d.frameSize, onFrame)

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			d.onData(input, frameCount)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to open capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	d.ctx = ctx
	d.device = device
	return nil
}

// onData converts a callback's S16LE buffer to float64 [-1,1] and
// pushes it through the framer. Runs on miniaudio's capture goroutine.
func (d *Device) onData(input []byte, frameCount uint32) {
	n := int(frameCount) * captureChannels
	if len(input) < n*2 {
		n = len(input) / 2
	}
	if cap(d.samples) < n {
		d.samples = make([]float64, n)
	}
	samples := d.samples[:n]
	for i := range n {
		s := int16(input[i*2]) | int16(input[i*2+1])<<8
		samples[i] = float64(s) / 32768.0
	}
	d.framer.Push(samples)
}

// Stop halts capture and releases the device. miniaudio guarantees the
// data callback has fully returned before Uninit completes, so no
// frames are delivered after Stop returns. The partial tail in the
// framer is dropped.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return nil
	}
	d.device.Uninit()
	d.ctx.Uninit()
	d.ctx.Free()
	d.device = nil
	d.ctx = nil
	d.framer.Reset()
	return nil
}

// Suspend pauses the capture stream while keeping the device open.
func (d *Device) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return nil
	}
	if err := d.device.Stop(); err != nil {
		return fmt.Errorf("failed to pause capture device: %w", err)
	}
	return nil
}

// Resume restarts a suspended capture stream.
func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return nil
	}
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("failed to resume capture device: %w", err)
	}
	return nil
}
