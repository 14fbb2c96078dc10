package main

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	"github.com/bodgit/xyz"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newConverter(c *cli.Context) *converter {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return &converter{
		logger:  logger,
		workers: c.Int("workers"),
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "xyz"
	app.Usage = "RPG Maker XYZ image conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 10,
			Usage: "number of concurrent conversions",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Convert XYZ images to PNG",
			ArgsUsage: "FILE [FILE...]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m := newConverter(c)

				if err := m.convert(c.Args().Slice(), m.decodeFile); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "encode",
			Usage:     "Convert PNG, GIF or JPEG images to XYZ",
			ArgsUsage: "FILE [FILE...]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m := newConverter(c)

				if err := m.convert(c.Args().Slice(), m.encodeFile); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Print XYZ image dimensions",
			ArgsUsage: "FILE [FILE...]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, file := range c.Args().Slice() {
					f, err := os.Open(file)
					if err != nil {
						return cli.Exit(err, 1)
					}

					config, err := xyz.DecodeConfig(f)
					f.Close()
					if err != nil {
						return cli.Exit(fmt.Errorf("%s: %w", file, err), 1)
					}

					fmt.Printf("%s: %d x %d\n", file, config.Width, config.Height)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
