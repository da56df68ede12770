package meter

import (
	"math"
	"sync"
	"sync/atomic"
)

// Level display range in dB. Readings are clamped here, never allowed
// to publish outside it.
const (
	LevelFloorDB   = 0.0
	LevelCeilingDB = 140.0
)

// smoothingAlpha is the EMA weight kept from the previous reading; the
// newest frame contributes 25%. Fixed: it sets the responsiveness vs
// smoothness trade-off the convergence tests pin down.
const smoothingAlpha = 0.75

// levelEpsilon guards the log of near-silent frames.
const levelEpsilon = 2.220446049250313e-16

// Stats is the running statistics snapshot of a capture session.
// Minimum is +Inf until the first frame; the UI maps that to a display
// default.
type Stats struct {
	Average     float64
	Peak        float64
	Minimum     float64
	SampleCount uint64
}

// LevelEstimator converts per-frame spectral power into a smoothed dB
// reading and tracks running min/avg/peak. The estimator derives its
// instantaneous reading from the sum of squared A-weighted magnitudes,
// keeping it consistent with the weighting stage rather than using a
// separate raw-RMS path.
//
// Frame processing runs on the capture callback goroutine while Reset
// and the stats readers may be called from the UI, so the mutable state
// sits behind a mutex; the calibration offset is written concurrently
// on the hot path and lives in an atomic instead.
type LevelEstimator struct {
	// referenceOffset shifts the unitless spectral power onto the
	// 0-140 display scale. A tuning constant, not an absolute SPL
	// calibration.
	referenceOffset float64
	calibration     atomic.Uint64 // float64 bits

	mu      sync.Mutex
	current float64
	stats   Stats
}

// NewLevelEstimator creates an estimator with the given display
// reference offset (typically 100).
func NewLevelEstimator(referenceOffset float64) *LevelEstimator {
	e := &LevelEstimator{referenceOffset: referenceOffset}
	e.resetState()
	return e
}

// SetCalibration sets the additive calibration offset in dB. Safe to
// call at any time, including mid-capture; it applies from the very
// next processed frame.
func (e *LevelEstimator) SetCalibration(db float64) {
	e.calibration.Store(math.Float64bits(db))
}

// Calibration returns the current calibration offset in dB.
func (e *LevelEstimator) Calibration() float64 {
	return math.Float64frombits(e.calibration.Load())
}

// Process folds one frame's weighted magnitude spectrum into the
// smoothed level and running statistics, returning the new smoothed
// level.
func (e *LevelEstimator) Process(weighted []float64) float64 {
	var totalPower float64
	for _, m := range weighted {
		totalPower += m * m
	}

	db := 20*math.Log10(math.Sqrt(totalPower)+levelEpsilon) + e.referenceOffset + e.Calibration()
	db = clampLevel(db)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = e.current*smoothingAlpha + db*(1-smoothingAlpha)

	e.stats.SampleCount++
	e.stats.Average += (db - e.stats.Average) / float64(e.stats.SampleCount)
	if db > e.stats.Peak {
		e.stats.Peak = db
	}
	if db < e.stats.Minimum {
		e.stats.Minimum = db
	}

	return e.current
}

// Level returns the current smoothed level in dB.
func (e *LevelEstimator) Level() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Stats returns a copy of the running statistics.
func (e *LevelEstimator) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Reset clears the smoothed level and all running statistics. Safe at
// any time; it takes effect for the next processed frame. The
// calibration offset survives a reset.
func (e *LevelEstimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetState()
}

func (e *LevelEstimator) resetState() {
	e.current = 0
	e.stats = Stats{Minimum: math.Inf(1)}
}

func clampLevel(db float64) float64 {
	switch {
	case math.IsNaN(db), db < LevelFloorDB:
		return LevelFloorDB
	case db > LevelCeilingDB:
		return LevelCeilingDB
	}
	return db
}
