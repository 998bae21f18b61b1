package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hesusruiz/adl2pydm/convert"
)

// newLogger sets up the logging system, with the development configuration
// when debugging.
func newLogger(debug bool) *zap.SugaredLogger {
	var z *zap.Logger
	var err error

	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return z.Sugar()
}

// loadConfig reads the configuration file, if any, and applies the flags that
// override it.
func loadConfig(c *cli.Context) (convert.Config, error) {
	cfg, err := convert.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("encoding") {
		cfg.Encoding = c.String("encoding")
	}
	if c.IsSet("protocol") {
		cfg.Protocol = c.String("protocol")
	}
	cfg.DryRun = c.Bool("dryrun")
	return cfg, nil
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if !c.Args().Present() {
		return cli.Exit("no input files provided", 1)
	}
	inputs, err := convert.Discover(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return cli.Exit("no .adl files found", 1)
	}

	var metrics *convert.Metrics
	metricsFile := c.String("metrics")
	if metricsFile != "" {
		metrics = convert.NewMetrics()
	}

	conv := convert.New(cfg, sugar, nil, metrics)
	outputDir := c.String("output")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This is useful for development.
	// If the user specified to watch, loop forever converting the files when modified
	if c.Bool("watch") {
		return watch(ctx, conv, c.Args().Slice(), outputDir, sugar)
	}

	if cfg.DryRun {
		fmt.Printf("dry run: converting %d file(s) without writing output\n", len(inputs))
	} else {
		fmt.Printf("converting %d file(s)\n", len(inputs))
	}

	results, convErr := conv.ConvertAll(ctx, inputs, outputDir, c.Int("jobs"))

	if c.Bool("show") {
		for _, res := range results {
			if res == nil {
				continue
			}
			fmt.Printf("==> %s <==\n", res.Output)
			if err := highlight(os.Stdout, res.Data, cfg.HighlightStyle); err != nil {
				return err
			}
		}
	}

	if metrics != nil {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	return convErr
}

// firstInput returns the only input file of a subcommand.
func firstInput(c *cli.Context) (string, error) {
	if c.Args().Len() != 1 {
		return "", cli.Exit("exactly one input file is required", 1)
	}
	return c.Args().First(), nil
}

func main() {

	app := &cli.App{
		Name:     "adl2pydm",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "convert MEDM .adl screens to PyDM .ui files",
		UsageText: "adl2pydm [options] FILE|DIR...",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write .ui files to `DIR` (default is the directory of each input file)",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output files, just convert the input files",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "run in debug mode",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from the YAML `FILE`",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   4,
				Usage:   "convert up to `N` files at the same time",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "character set of the input files (default utf-8)",
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "prefix channels with `SCHEME`:// (default ca)",
			},
			&cli.BoolFlag{
				Name:    "show",
				Aliases: []string{"s"},
				Usage:   "print the generated XML with syntax highlighting",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the input files for changes",
			},
			&cli.StringFlag{
				Name:  "metrics",
				Usage: "write conversion metrics in Prometheus text format to `FILE`",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "tree",
				Usage:     "print the block tree of an .adl file as YAML",
				ArgsUsage: "FILE",
				Action:    printTree,
			},
			{
				Name:      "diagram",
				Usage:     "draw the widget hierarchy of an .adl file as SVG",
				ArgsUsage: "FILE",
				Action:    drawDiagram,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the SVG to `FILE` (default is the input file name with extension .svg)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

}
