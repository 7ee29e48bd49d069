package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/psxtools/backport/format"
	"github.com/psxtools/backport/internal/config"
	"github.com/psxtools/backport/internal/pipeline"
	"github.com/psxtools/backport/internal/report"
	"github.com/psxtools/backport/sdk"
)

func newLogger() hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	if quiet {
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:  "backport",
		Level: level,
		Color: colorMode(),
	})
}

func colorMode() hclog.ColorOption {
	if noColors {
		return hclog.ColorOff
	}

	return hclog.AutoColor
}

func newPrinter() *report.Printer {
	return report.NewPrinter(os.Stdout, noColors, quiet)
}

// buildOptions validates the shared signing flags and assembles the
// pipeline options.
func buildOptions(printer *report.Printer) (pipeline.Options, error) {
	var opts pipeline.Options

	if sdkPair < 1 || uint32(sdkPair) > sdk.MaxKey() {
		return opts, fmt.Errorf("sdk pair %d out of range (1-%d)", sdkPair, sdk.MaxKey())
	}

	paid, err := strconv.ParseUint(paidStr, 0, 64)
	if err != nil {
		return opts, fmt.Errorf("invalid paid %q: %w", paidStr, err)
	}

	ptype, err := format.ParseProgramType(ptypeStr)
	if err != nil {
		return opts, err
	}

	return pipeline.Options{
		Input:       inputPath,
		Output:      outputPath,
		SDKPair:     uint32(sdkPair),
		PAID:        paid,
		ProgramType: ptype,
		LibcPatch:   !noLibcPatch,
		AutoRevert:  !noAutoRevert,
		Backup:      !noBackup,
		Overwrite:   overwrite,
		Logger:      newLogger(),
		Printer:     printer,
	}, nil
}

// finishRun prints the summary, persists the chosen directories, and
// converts per-file failures into a non-zero exit.
func finishRun(printer *report.Printer, rep *report.Report, err error) error {
	if rep != nil {
		printer.Summary(rep)
	}
	if err != nil {
		return err
	}

	config.RememberDirs(config.DefaultPath(), inputPath, outputPath)

	if rep != nil && rep.Failed() {
		return errors.New("one or more files failed")
	}

	return nil
}
