package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/psxtools/backport/internal/rawpatch"
	"github.com/psxtools/backport/internal/report"
	"github.com/psxtools/backport/internal/scan"
)

var libcAction string

func libcPatchCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "file or directory holding signed containers",
			Required:    true,
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "action",
			Aliases:     []string{"a"},
			Usage:       "apply, revert, or check",
			Value:       "check",
			Destination: &libcAction,
		},
		&cli.BoolFlag{
			Name:        "no-backup",
			Usage:       "do not write .bak copies before modifying files",
			Destination: &noBackup,
		},
	}
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:  "libc-patch",
		Usage: "Apply, revert, or check the libc.prx compatibility patch",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			switch libcAction {
			case "apply", "revert", "check":
			default:
				return fmt.Errorf("unknown action %q (want apply, revert, or check)", libcAction)
			}

			targets, err := libcTargets(inputPath)
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return errors.New("no signed containers or libc files found")
			}

			printer := newPrinter()
			rep := &report.Report{}
			p := rawpatch.New()

			for _, path := range targets {
				runLibcAction(p, path, rep)
				printer.File(rep.Results[len(rep.Results)-1])
			}
			printer.Summary(rep)

			if rep.Failed() {
				return errors.New("one or more files failed")
			}

			return nil
		},
	}
}

func runLibcAction(p *rawpatch.Patcher, path string, rep *report.Report) {
	var (
		state rawpatch.State
		err   error
	)

	switch libcAction {
	case "apply":
		state, err = p.Apply(path, !noBackup)
	case "revert":
		state, err = p.Revert(path, !noBackup)
	default:
		state, err = p.Status(path)
	}

	switch {
	case errors.Is(err, rawpatch.ErrPatternNotFound):
		rep.Skip(path, "pattern not found")
	case err != nil:
		rep.Fail(path, err)
	default:
		rep.OK(path, state.String())
	}
}

// libcTargets collects every signed container under root plus any file
// named libc.prx, whatever its magic.
func libcTargets(root string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return []string{root}, nil
	}

	entries, err := scan.Walk(root)
	if err != nil {
		return nil, err
	}

	var targets []string
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.Kind != scan.KindSELF {
			continue
		}
		targets = append(targets, e.Path)
		seen[e.Path] = struct{}{}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !strings.EqualFold(d.Name(), "libc.prx") {
			return nil
		}
		if _, ok := seen[path]; !ok {
			targets = append(targets, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return targets, nil
}
