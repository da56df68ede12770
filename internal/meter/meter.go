package meter

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// State is the controller lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateCapturing
	StatePaused
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Source delivers audio frames to the controller. Start begins frame
// delivery to onFrame from the source's own goroutine; Stop must not
// return until no further callbacks will fire. Suspend and Resume
// pause delivery without releasing the device.
type Source interface {
	Start(onFrame func(frame []float64)) error
	Stop() error
	Suspend() error
	Resume() error
	SampleRate() float64
}

// Snapshot is the complete published state of the meter at one frame.
// Snapshots are immutable once published; consumers always observe a
// fully-formed value, never a partial update.
type Snapshot struct {
	State      State
	Level      float64
	Stats      Stats
	Spectrum   []float64
	BandCount  int
	SampleRate float64
}

// Config holds the analysis parameters of a controller. The dB offsets
// are tuning constants for a relative meter, exposed as configuration
// rather than hardcoded.
type Config struct {
	FFTSize         int
	ReferenceOffset float64 // added to the spectral dB reading (display scale)
	WeightingOffset float64 // A-curve normalisation at 1 kHz
}

// DefaultConfig returns the standard analysis parameters.
func DefaultConfig() Config {
	return Config{
		FFTSize:         1024,
		ReferenceOffset: 100.0,
		WeightingOffset: 2.0,
	}
}

// Controller owns the capture lifecycle and drives the analysis
// pipeline once per delivered frame. Lifecycle operations serialise on
// an internal mutex; the per-frame path runs on the source's delivery
// goroutine and publishes results through an atomic snapshot swap, so
// readers never block it.
type Controller struct {
	cfg    Config
	source Source

	mu        sync.Mutex // guards lifecycle transitions and reconfiguration
	state     atomic.Int32
	bandCount int

	// Pipeline stages; window, transform and weighting are fixed for
	// the controller's lifetime, the aggregator is rebuilt per Start or
	// band-count change.
	window    *Window
	transform *Transform
	weighting *Weighting
	agg       *Aggregator
	level     *LevelEstimator

	// Scratch buffers reused across frames to keep the real-time path
	// allocation-free (the published spectrum is the one exception).
	windowed []float64
	mags     []float64
	weighted []float64

	snapshot atomic.Pointer[Snapshot]
}

// NewController builds a meter around the given frame source. The FFT
// plan, Hann window and A-weighting vector are computed once here and
// reused for every frame.
func NewController(source Source, cfg Config) *Controller {
	bins := cfg.FFTSize / 2
	c := &Controller{
		cfg:       cfg,
		source:    source,
		bandCount: DefaultBands,
		window:    NewWindow(cfg.FFTSize),
		transform: NewTransform(cfg.FFTSize),
		weighting: NewWeighting(source.SampleRate(), cfg.FFTSize, cfg.WeightingOffset),
		level:     NewLevelEstimator(cfg.ReferenceOffset),
		windowed:  make([]float64, cfg.FFTSize),
		mags:      make([]float64, bins),
		weighted:  make([]float64, bins),
	}
	c.publish()
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Snapshot returns the latest published meter state.
func (c *Controller) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Start opens the audio source and begins delivering frames to the
// pipeline with the given band count. Calling Start while already
// capturing is a no-op. A source failure is fatal to the start
// attempt: the state stays idle and no retry is performed.
func (c *Controller) Start(bandCount int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// No-op while a capture session is attached, paused or not; a
	// second Start must not duplicate stream attachment.
	if c.State() != StateIdle {
		return nil
	}

	agg, err := NewAggregator(c.cfg.FFTSize/2, bandCount)
	if err != nil {
		return err
	}
	c.agg = agg
	c.bandCount = bandCount

	if err := c.source.Start(c.processFrame); err != nil {
		return fmt.Errorf("failed to start audio source: %w", err)
	}
	c.state.Store(int32(StateCapturing))
	c.publish()
	return nil
}

// Stop detaches the audio source and returns to idle. By the time Stop
// returns no further frame callbacks will run. Statistics are kept;
// only ResetStats clears them. Stop while idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.State() == StateIdle {
		return
	}
	// Flip state first so an in-flight callback racing the source
	// teardown drops its frame instead of mutating published state.
	c.state.Store(int32(StateIdle))
	c.source.Stop()
	c.publish()
}

// Suspend pauses frame delivery without releasing the device. No-op
// unless capturing.
func (c *Controller) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StateCapturing {
		return nil
	}
	if err := c.source.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend audio source: %w", err)
	}
	c.state.Store(int32(StatePaused))
	c.publish()
	return nil
}

// Resume restarts frame delivery after a Suspend. No-op unless paused.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StatePaused {
		return nil
	}
	if err := c.source.Resume(); err != nil {
		return fmt.Errorf("failed to resume audio source: %w", err)
	}
	c.state.Store(int32(StateCapturing))
	c.publish()
	return nil
}

// SetBandCount changes the spectrum band count. Band boundaries are
// derived at stream-open time, so a live capture is stopped and
// restarted with the new count; when idle the count is stored for the
// next Start. Statistics survive the restart.
func (c *Controller) SetBandCount(bands int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bands < MinBands || bands > MaxBands {
		return fmt.Errorf("band count %d outside supported range [%d,%d]", bands, MinBands, MaxBands)
	}

	wasCapturing := c.State() == StateCapturing || c.State() == StatePaused
	if wasCapturing {
		c.stopLocked()
	}

	agg, err := NewAggregator(c.cfg.FFTSize/2, bands)
	if err != nil {
		return err
	}
	c.agg = agg
	c.bandCount = bands

	if wasCapturing {
		if err := c.source.Start(c.processFrame); err != nil {
			return fmt.Errorf("failed to restart audio source: %w", err)
		}
		c.state.Store(int32(StateCapturing))
	}
	c.publish()
	return nil
}

// BandCount returns the configured band count.
func (c *Controller) BandCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bandCount
}

// ResetStats clears the smoothed level and running statistics. Takes
// effect for the next processed frame; safe to call at any time.
func (c *Controller) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.level.Reset()
	c.publish()
}

// SetCalibrationOffset sets the additive dB calibration applied before
// clamping. Takes effect on the very next processed frame without
// restarting capture.
func (c *Controller) SetCalibrationOffset(db float64) {
	c.level.SetCalibration(db)
}

// CalibrationOffset returns the current calibration offset in dB.
func (c *Controller) CalibrationOffset() float64 {
	return c.level.Calibration()
}

// processFrame runs one full pipeline pass. It executes on the
// source's delivery goroutine and must finish within the audio
// callback budget: all stages reuse preallocated buffers, only the
// published spectrum is allocated fresh.
func (c *Controller) processFrame(frame []float64) {
	if c.State() != StateCapturing {
		return
	}
	// Short buffers occur at stream start/stop boundaries; drop them
	// silently, the pipeline self-heals on the next frame.
	if err := c.window.Apply(c.windowed, frame); err != nil {
		return
	}

	c.transform.Magnitudes(c.mags, c.windowed)
	c.weighting.Apply(c.weighted, c.mags)
	spectrum := c.agg.Aggregate(c.weighted)
	level := c.level.Process(c.weighted)

	c.snapshot.Store(&Snapshot{
		State:      c.State(),
		Level:      level,
		Stats:      c.level.Stats(),
		Spectrum:   spectrum,
		BandCount:  len(spectrum),
		SampleRate: c.source.SampleRate(),
	})
}

// publish stores a snapshot reflecting the current non-frame state.
// Used on lifecycle transitions so consumers see state changes even
// when no frames are flowing.
func (c *Controller) publish() {
	prev := c.snapshot.Load()
	snap := &Snapshot{
		State:      c.State(),
		BandCount:  c.bandCount,
		SampleRate: c.source.SampleRate(),
		Stats:      Stats{Minimum: math.Inf(1)},
	}
	if prev != nil {
		snap.Level = c.level.Level()
		snap.Stats = c.level.Stats()
		snap.Spectrum = prev.Spectrum
		if len(snap.Spectrum) != c.bandCount {
			// Band count changed: never hand out a stale-length buffer.
			snap.Spectrum = make([]float64, c.bandCount)
		}
	} else {
		snap.Spectrum = make([]float64, c.bandCount)
	}
	c.snapshot.Store(snap)
}
