package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/psxtools/backport/internal/pipeline"
	"github.com/psxtools/backport/sdk"
)

func listSDKPairsCmd() *cli.Command {
	return &cli.Command{
		Name:  "list-sdk-pairs",
		Usage: "Show the supported SDK version pairs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-colors",
				Usage:       "disable colored output",
				Destination: &noColors,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			bold := color.New(color.Bold)
			note := color.New(color.FgYellow)
			if noColors {
				bold.DisableColor()
				note.DisableColor()
			}

			bold.Fprintf(os.Stdout, "%-6s %-14s %-14s %s\n", "pair", "sdk", "compat", "libc patch")
			for _, p := range sdk.Pairs() {
				libc := "revert"
				if p.Key <= pipeline.LibcPatchMaxPair {
					libc = "apply"
				}
				fmt.Fprintf(os.Stdout, "%-6d 0x%08X     0x%08X     %s\n", p.Key, p.SDKVersion, p.CompatVersion, libc)
			}
			note.Fprintln(os.Stdout, "pairs 1-6 receive the libc.prx patch after signing; 7-10 revert it")

			return nil
		},
	}
}
