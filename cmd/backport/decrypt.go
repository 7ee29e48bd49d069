package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/psxtools/backport/internal/pipeline"
)

func decryptCmd() *cli.Command {
	flags := ioFlags()
	flags = append(flags, &cli.BoolFlag{
		Name:        "overwrite",
		Usage:       "overwrite existing output files",
		Destination: &overwrite,
	})
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:  "decrypt",
		Usage: "Unwrap signed containers back into plain images",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			printer := newPrinter()
			opts := pipeline.Options{
				Input:     inputPath,
				Output:    outputPath,
				Overwrite: overwrite,
				Logger:    newLogger(),
				Printer:   printer,
			}

			rep, err := pipeline.New(opts).Decrypt()

			return finishRun(printer, rep, err)
		},
	}
}
