package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/psxtools/backport/internal/pipeline"
)

func signCmd() *cli.Command {
	flags := ioFlags()
	flags = append(flags, signingFlags()...)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:  "sign",
		Usage: "Downgrade SDK metadata of plain images and wrap them into signed containers",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			printer := newPrinter()
			opts, err := buildOptions(printer)
			if err != nil {
				return err
			}

			rep, err := pipeline.New(opts).Sign()

			return finishRun(printer, rep, err)
		},
	}
}
