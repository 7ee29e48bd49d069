package main

import "github.com/urfave/cli/v3"

var (
	inputPath  string
	outputPath string

	sdkPair  int64
	paidStr  string
	ptypeStr string

	noLibcPatch  bool
	noAutoRevert bool
	noBackup     bool
	overwrite    bool

	noColors bool
	quiet    bool
	verbose  bool
)

func ioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "input file or directory",
			Required:    true,
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output directory",
			Required:    true,
			Destination: &outputPath,
		},
	}
}

func signingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "sdk-pair",
			Aliases:     []string{"s"},
			Usage:       "SDK version pair (1-10, see list-sdk-pairs)",
			Value:       4,
			Destination: &sdkPair,
		},
		&cli.StringFlag{
			Name:        "paid",
			Usage:       "program authentication ID",
			Value:       "0x3100000000000002",
			Destination: &paidStr,
		},
		&cli.StringFlag{
			Name:        "ptype",
			Usage:       "program type (fake, npdrm_exec, npdrm_dynlib, system_exec, system_dynlib, or a number)",
			Value:       "fake",
			Destination: &ptypeStr,
		},
		&cli.BoolFlag{
			Name:        "no-libc-patch",
			Usage:       "skip the libc.prx patch for SDK pairs 1-6",
			Destination: &noLibcPatch,
		},
		&cli.BoolFlag{
			Name:        "no-auto-revert",
			Usage:       "skip reverting the libc.prx patch for SDK pairs 7-10",
			Destination: &noAutoRevert,
		},
		&cli.BoolFlag{
			Name:        "no-backup",
			Usage:       "do not write .bak copies before modifying files",
			Destination: &noBackup,
		},
		&cli.BoolFlag{
			Name:        "overwrite",
			Usage:       "overwrite existing output files",
			Destination: &overwrite,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "no-colors",
			Usage:       "disable colored output",
			Destination: &noColors,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "only print the final summary",
			Destination: &quiet,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "enable debug logging",
			Destination: &verbose,
		},
	}
}
