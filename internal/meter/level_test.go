package meter

import (
	"math"
	"testing"
)

// steadySpectrum returns a one-bin weighted spectrum whose
// instantaneous reading is exactly db with a +100 reference offset:
// 20*log10(mag) + 100 = db.
func steadySpectrum(db float64) []float64 {
	return []float64{math.Pow(10, (db-100)/20)}
}

func TestLevelSmoothingClosedForm(t *testing.T) {
	e := NewLevelEstimator(100)

	// From level=0, k frames of a constant 80 dB reading must follow
	// level_k = 80*(1-0.75^k).
	spectrum := steadySpectrum(80)
	for k := 1; k <= 20; k++ {
		got := e.Process(spectrum)
		want := 80 * (1 - math.Pow(smoothingAlpha, float64(k)))
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("level after %d frames = %.9f, want %.9f", k, got, want)
		}
	}

	// Spot-check the spec's worked example: k=10 lands near 75.49.
	e.Reset()
	var level float64
	for range 10 {
		level = e.Process(spectrum)
	}
	if math.Abs(level-75.4937) > 1e-3 {
		t.Errorf("level after 10 frames = %.4f, want 75.4937", level)
	}
}

func TestLevelSilenceStaysAtFloor(t *testing.T) {
	e := NewLevelEstimator(100)

	silent := make([]float64, 512)
	for range 100 {
		level := e.Process(silent)
		if math.IsNaN(level) || math.IsInf(level, 0) {
			t.Fatal("level not finite for silence")
		}
		if level != 0 {
			t.Fatalf("level = %g for silence, want 0", level)
		}
	}

	stats := e.Stats()
	if stats.Peak != 0 || stats.Minimum != 0 || stats.Average != 0 {
		t.Errorf("silence stats = %+v, want all zero", stats)
	}
}

func TestLevelClampCeiling(t *testing.T) {
	e := NewLevelEstimator(100)

	huge := []float64{1e10}
	for range 50 {
		e.Process(huge)
	}
	if level := e.Level(); level > LevelCeilingDB {
		t.Errorf("level = %g exceeds ceiling %g", level, LevelCeilingDB)
	}
	if peak := e.Stats().Peak; peak > LevelCeilingDB {
		t.Errorf("peak = %g exceeds ceiling %g", peak, LevelCeilingDB)
	}
}

func TestLevelRunningStatistics(t *testing.T) {
	e := NewLevelEstimator(100)

	readings := []float64{60, 80, 70, 90, 50}
	for _, db := range readings {
		e.Process(steadySpectrum(db))
	}

	stats := e.Stats()
	if stats.SampleCount != uint64(len(readings)) {
		t.Fatalf("sample count = %d, want %d", stats.SampleCount, len(readings))
	}
	if math.Abs(stats.Minimum-50) > 1e-9 {
		t.Errorf("minimum = %g, want 50", stats.Minimum)
	}
	if math.Abs(stats.Peak-90) > 1e-9 {
		t.Errorf("peak = %g, want 90", stats.Peak)
	}
	if math.Abs(stats.Average-70) > 1e-9 {
		t.Errorf("average = %g, want 70", stats.Average)
	}

	// Ordering invariant once frames have been processed
	if !(stats.Minimum <= stats.Average && stats.Average <= stats.Peak) {
		t.Errorf("stats ordering violated: %+v", stats)
	}
	if level := e.Level(); level < stats.Minimum-1e-9 || level > stats.Peak+1e-9 {
		t.Errorf("smoothed level %g outside [min,peak] = [%g,%g]", level, stats.Minimum, stats.Peak)
	}
}

func TestLevelReset(t *testing.T) {
	e := NewLevelEstimator(100)
	e.SetCalibration(3)

	for range 10 {
		e.Process(steadySpectrum(80))
	}
	e.Reset()

	if level := e.Level(); level != 0 {
		t.Errorf("level after reset = %g, want 0", level)
	}
	stats := e.Stats()
	if stats.SampleCount != 0 || stats.Average != 0 || stats.Peak != 0 {
		t.Errorf("stats after reset = %+v, want zeroed", stats)
	}
	if !math.IsInf(stats.Minimum, 1) {
		t.Errorf("minimum after reset = %g, want +Inf", stats.Minimum)
	}

	// Calibration survives reset
	if got := e.Calibration(); got != 3 {
		t.Errorf("calibration after reset = %g, want 3", got)
	}
}

func TestLevelCalibrationImmediate(t *testing.T) {
	e := NewLevelEstimator(100)
	spectrum := steadySpectrum(80)

	e.Process(spectrum)
	peakBefore := e.Stats().Peak

	e.SetCalibration(10)
	e.Process(spectrum)

	peakAfter := e.Stats().Peak
	if math.Abs(peakAfter-(peakBefore+10)) > 1e-9 {
		t.Errorf("peak after calibration = %g, want %g", peakAfter, peakBefore+10)
	}
}
