package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/psxtools/backport/internal/pipeline"
)

func autoCmd() *cli.Command {
	flags := ioFlags()
	flags = append(flags, signingFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:  "auto",
		Usage: "Detect file types, decrypt containers, then downgrade and sign everything",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			printer := newPrinter()
			opts, err := buildOptions(printer)
			if err != nil {
				return err
			}

			rep, err := pipeline.New(opts).Auto()

			return finishRun(printer, rep, err)
		},
	}
}
