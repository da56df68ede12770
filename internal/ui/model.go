// Package ui provides the Bubbletea terminal user interface for the
// live sound level meter.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/soundcheck/internal/meter"
)

const pollInterval = 50 * time.Millisecond

// Model is the Bubbletea model for the live meter view. It is a pure
// consumer of the controller's published snapshots: all pipeline state
// arrives through Snapshot(), never by reaching into the pipeline.
type Model struct {
	ctrl *meter.Controller

	// Mains hum context for highlighting the hum band
	MainsHz int
	HumBand func(bandCount int) int

	snap     *meter.Snapshot
	lastErr  error
	quitting bool

	Width  int
	Height int
}

// NewModel creates a UI model observing the given controller.
func NewModel(ctrl *meter.Controller, mainsHz int, humBand func(bandCount int) int) Model {
	return Model{
		ctrl:    ctrl,
		MainsHz: mainsHz,
		HumBand: humBand,
		snap:    ctrl.Snapshot(),
	}
}

// Init schedules the first snapshot poll.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key bindings and the poll tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		m.snap = m.ctrl.Snapshot()
		return m, tick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.ctrl.Stop()
		return m, tea.Quit

	case " ":
		switch m.ctrl.State() {
		case meter.StateCapturing:
			m.lastErr = m.ctrl.Suspend()
		case meter.StatePaused:
			m.lastErr = m.ctrl.Resume()
		}

	case "r":
		m.ctrl.ResetStats()

	case "+", "=":
		m.lastErr = m.ctrl.SetBandCount(m.ctrl.BandCount() + 10)

	case "-", "_":
		m.lastErr = m.ctrl.SetBandCount(m.ctrl.BandCount() - 10)

	case "]":
		m.ctrl.SetCalibrationOffset(m.ctrl.CalibrationOffset() + 1)

	case "[":
		m.ctrl.SetCalibrationOffset(m.ctrl.CalibrationOffset() - 1)
	}

	return m, nil
}

// View renders the meter.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.Width == 0 {
		return "Initialising..."
	}
	return renderMeter(m)
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
