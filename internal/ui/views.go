package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/soundcheck/internal/meter"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	gaugeFillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00"))

	gaugeHotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A40000"))

	spectrumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA"))

	humStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A40000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A40000"))
)

// sparkline glyphs, quiet to loud
var sparkChars = []rune("▁▂▃▄▅▆▇█")

// hotLevelDB is where the gauge switches to the warning colour.
const hotLevelDB = 100.0

// renderMeter draws the complete live view: gauge, spectrum, running
// statistics and key help.
func renderMeter(m Model) string {
	var sb strings.Builder
	snap := m.snap

	sb.WriteString(titleStyle.Render("Soundcheck 🔊"))
	sb.WriteString("  ")
	sb.WriteString(stateStyle.Render(snap.State.String()))
	sb.WriteString("\n\n")

	sb.WriteString(renderGauge(snap.Level, m.Width))
	sb.WriteString("\n\n")

	sb.WriteString(renderSpectrum(snap, m.humBandIndex()))
	sb.WriteString("\n\n")

	sb.WriteString(renderStats(snap, m))
	sb.WriteString("\n")

	if m.lastErr != nil {
		sb.WriteString(errStyle.Render(fmt.Sprintf("error: %v", m.lastErr)))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("space pause/resume · r reset stats · +/- bands · [/] calibration · q quit"))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) humBandIndex() int {
	if m.HumBand == nil || m.snap == nil {
		return -1
	}
	return m.HumBand(m.snap.BandCount)
}

// renderGauge draws the smoothed level as a horizontal bar across the
// 0-140 dB display range.
func renderGauge(level float64, width int) string {
	barWidth := width - 14
	if barWidth < 10 {
		barWidth = 10
	}

	frac := level / meter.LevelCeilingDB
	filled := int(frac * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	style := gaugeFillStyle
	if level >= hotLevelDB {
		style = gaugeHotStyle
	}

	bar := style.Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s", bar, valueStyle.Render(fmt.Sprintf("%5.1f dB", level)))
}

// renderSpectrum draws the band spectrum as a sparkline, normalised to
// the loudest band so quiet rooms still show shape. The mains hum band
// is highlighted when it carries a disproportionate share of energy.
func renderSpectrum(snap *meter.Snapshot, humBand int) string {
	if len(snap.Spectrum) == 0 {
		return labelStyle.Render("(no spectrum)")
	}

	peak := 0.0
	for _, v := range snap.Spectrum {
		if v > peak {
			peak = v
		}
	}

	var sb strings.Builder
	for i, v := range snap.Spectrum {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(sparkChars)-1))
			if idx >= len(sparkChars) {
				idx = len(sparkChars) - 1
			}
		}
		ch := string(sparkChars[idx])
		if i == humBand && peak > 0 && v >= peak*0.5 {
			sb.WriteString(humStyle.Render(ch))
		} else {
			sb.WriteString(spectrumStyle.Render(ch))
		}
	}
	return sb.String()
}

// renderStats draws the running statistics line. Minimum is +Inf until
// the first frame; show a placeholder rather than the sentinel.
func renderStats(snap *meter.Snapshot, m Model) string {
	minStr := "  --"
	if !math.IsInf(snap.Stats.Minimum, 1) {
		minStr = fmt.Sprintf("%5.1f", snap.Stats.Minimum)
	}

	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("min:"), valueStyle.Render(minStr),
		labelStyle.Render("avg:"), valueStyle.Render(fmt.Sprintf("%5.1f", snap.Stats.Average)),
		labelStyle.Render("peak:"), valueStyle.Render(fmt.Sprintf("%5.1f", snap.Stats.Peak)),
		labelStyle.Render("bands:"), valueStyle.Render(fmt.Sprintf("%d", snap.BandCount)),
		labelStyle.Render("cal:"), valueStyle.Render(fmt.Sprintf("%+.0f dB", m.ctrl.CalibrationOffset())),
		labelStyle.Render("mains:"), valueStyle.Render(fmt.Sprintf("%d Hz", m.MainsHz)),
	)
}
