package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/soundcheck/internal/capture"
	"github.com/linuxmatters/soundcheck/internal/cli"
	"github.com/linuxmatters/soundcheck/internal/config"
	"github.com/linuxmatters/soundcheck/internal/logging"
	"github.com/linuxmatters/soundcheck/internal/mains"
	"github.com/linuxmatters/soundcheck/internal/meter"
	"github.com/linuxmatters/soundcheck/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version     bool     `short:"v" help:"Show version information"`
	Config      string   `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Bands       int      `short:"b" help:"Spectrum band count (10-100, overrides config)"`
	Calibration *float64 `help:"Calibration offset in dB (overrides config)"`
	Report      bool     `help:"Print a session report on exit"`
	Files       []string `arg:"" name:"files" help:"WAV files to analyse offline (omit for live capture)" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("soundcheck"),
		kong.Description("Terminal sound level meter with A-weighted spectrum"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if cliArgs.Bands != 0 {
		cfg.Bands = cliArgs.Bands
	}
	if cliArgs.Calibration != nil {
		cfg.CalibrationOffset = *cliArgs.Calibration
	}
	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	mainsHz := mains.Frequency()

	if len(cliArgs.Files) > 0 {
		if err := analyseFiles(cliArgs.Files, cfg, mainsHz); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	if err := runLive(cfg, mainsHz, cliArgs.Report); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// meterConfig maps the user settings onto the pipeline parameters.
func meterConfig(cfg config.Config) meter.Config {
	return meter.Config{
		FFTSize:         cfg.FFTSize,
		ReferenceOffset: cfg.ReferenceOffset,
		WeightingOffset: cfg.WeightingOffset,
	}
}

// runLive captures from the default microphone and shows the meter UI.
func runLive(cfg config.Config, mainsHz int, report bool) error {
	device := capture.NewDevice(uint32(cfg.SampleRate), cfg.FFTSize)
	ctrl := meter.NewController(device, meterConfig(cfg))
	ctrl.SetCalibrationOffset(cfg.CalibrationOffset)

	startTime := time.Now()
	if err := ctrl.Start(cfg.Bands); err != nil {
		return err
	}
	defer ctrl.Stop()

	humBand := func(bandCount int) int {
		return mains.HumBand(mainsHz, float64(cfg.SampleRate), cfg.FFTSize, bandCount)
	}

	model := ui.NewModel(ctrl, mainsHz, humBand)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}

	if report {
		snap := ctrl.Snapshot()
		return logging.WriteReport(os.Stdout, logging.ReportData{
			Source:      "default capture device",
			StartTime:   startTime,
			EndTime:     time.Now(),
			SampleRate:  device.SampleRate(),
			FFTSize:     cfg.FFTSize,
			Snapshot:    snap,
			Calibration: ctrl.CalibrationOffset(),
			MainsHz:     mainsHz,
			HumBand:     humBand(snap.BandCount),
		})
	}
	return nil
}

// analyseFiles runs each WAV file through the same pipeline at full
// speed and prints a report per file.
func analyseFiles(files []string, cfg config.Config, mainsHz int) error {
	for i, path := range files {
		if i > 0 {
			fmt.Println()
		}
		if err := analyseFile(path, cfg, mainsHz); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func analyseFile(path string, cfg config.Config, mainsHz int) error {
	source, err := capture.OpenFile(path, cfg.FFTSize)
	if err != nil {
		return err
	}

	ctrl := meter.NewController(source, meterConfig(cfg))
	ctrl.SetCalibrationOffset(cfg.CalibrationOffset)

	startTime := time.Now()
	if err := ctrl.Start(cfg.Bands); err != nil {
		return err
	}
	<-source.Done()
	ctrl.Stop()

	snap := ctrl.Snapshot()
	return logging.WriteReport(os.Stdout, logging.ReportData{
		Source:      path,
		StartTime:   startTime,
		EndTime:     time.Now(),
		SampleRate:  source.SampleRate(),
		FFTSize:     cfg.FFTSize,
		Snapshot:    snap,
		Calibration: ctrl.CalibrationOffset(),
		MainsHz:     mainsHz,
		HumBand:     mains.HumBand(mainsHz, source.SampleRate(), cfg.FFTSize, snap.BandCount),
		Duration:    source.Duration(),
	})
}
