// Package logging renders session reports for the sound level meter:
// the running statistics, the analysis settings and a mains-hum note,
// formatted as an aligned metric table.
package logging

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/soundcheck/internal/meter"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#A40000"))

	reportSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500"))
)

// ReportData collects everything a session report needs.
type ReportData struct {
	Source     string // device name or input file path
	StartTime  time.Time
	EndTime    time.Time
	SampleRate float64
	FFTSize    int

	Snapshot    *meter.Snapshot
	Calibration float64

	MainsHz  int
	HumBand  int
	Duration float64 // seconds of audio analysed; 0 when unknown
}

// MetricRow is one label/value/unit line of the report table.
type MetricRow struct {
	Label string
	Value string
	Unit  string
}

// MetricTable formats aligned label/value/unit rows.
type MetricTable struct {
	Rows []MetricRow
}

// AddRow appends a pre-formatted row.
func (t *MetricTable) AddRow(label, value, unit string) {
	t.Rows = append(t.Rows, MetricRow{Label: label, Value: value, Unit: unit})
}

// String renders the table with the labels left-aligned and the values
// right-aligned.
func (t *MetricTable) String() string {
	labelWidth, valueWidth := 0, 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	var sb strings.Builder
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("  %-*s  %*s", labelWidth, row.Label, valueWidth, row.Value))
		if row.Unit != "" {
			sb.WriteString(" " + row.Unit)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// formatMetric formats a numeric value, mapping NaN/Inf to the missing
// placeholder.
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// WriteReport renders the session report to w.
func WriteReport(w io.Writer, data ReportData) error {
	snap := data.Snapshot

	var sb strings.Builder
	sb.WriteString(reportTitleStyle.Render("Soundcheck session report"))
	sb.WriteString("\n\n")

	session := &MetricTable{}
	session.AddRow("Source", data.Source, "")
	session.AddRow("Sample rate", formatMetric(data.SampleRate, 0), "Hz")
	session.AddRow("FFT size", fmt.Sprintf("%d", data.FFTSize), "samples")
	if data.Duration > 0 {
		session.AddRow("Audio analysed", formatMetric(data.Duration, 1), "s")
	}
	if !data.StartTime.IsZero() {
		session.AddRow("Wall time", formatMetric(data.EndTime.Sub(data.StartTime).Seconds(), 1), "s")
	}
	sb.WriteString(reportSectionStyle.Render("Session"))
	sb.WriteString("\n")
	sb.WriteString(session.String())
	sb.WriteString("\n")

	levels := &MetricTable{}
	levels.AddRow("Level", formatMetric(snap.Level, 1), "dB")
	levels.AddRow("Minimum", formatMetric(snap.Stats.Minimum, 1), "dB")
	levels.AddRow("Average", formatMetric(snap.Stats.Average, 1), "dB")
	levels.AddRow("Peak", formatMetric(snap.Stats.Peak, 1), "dB")
	levels.AddRow("Frames", fmt.Sprintf("%d", snap.Stats.SampleCount), "")
	sb.WriteString(reportSectionStyle.Render("Levels (A-weighted)"))
	sb.WriteString("\n")
	sb.WriteString(levels.String())
	sb.WriteString("\n")

	settings := &MetricTable{}
	settings.AddRow("Bands", fmt.Sprintf("%d", snap.BandCount), "")
	settings.AddRow("Calibration", fmt.Sprintf("%+.1f", data.Calibration), "dB")
	settings.AddRow("Mains", fmt.Sprintf("%d", data.MainsHz), "Hz")
	if data.HumBand >= 0 && data.HumBand < len(snap.Spectrum) {
		settings.AddRow("Hum band level", formatMetric(snap.Spectrum[data.HumBand], 3), "")
	}
	sb.WriteString(reportSectionStyle.Render("Settings"))
	sb.WriteString("\n")
	sb.WriteString(settings.String())

	_, err := io.WriteString(w, sb.String())
	return err
}
