// Command g2tool encodes, decodes and operates on BLS12-381 G2 points from
// the command line, and benchmarks the group operations.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/eth2030/bls12381g2/log"
)

var (
	version = "v0.1.0"
	commit  = "unknown"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log.level",
		Usage: "Log level (trace, debug, info, warn, error, silent) or verbosity 0-5",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format (text, json)",
	}
	logFileFlag = &cli.StringFlag{
		Name:  "log.file",
		Usage: "Write logs to this file, rotated by size",
	}
	uncompressedFlag = &cli.BoolFlag{
		Name:  "uncompressed",
		Usage: "Print the 192-byte uncompressed encoding",
	}
	uncheckedFlag = &cli.BoolFlag{
		Name:  "unchecked",
		Usage: "Skip the subgroup check on input points",
	}
	pointFlag = &cli.StringFlag{
		Name:  "point",
		Usage: "Base point as hex encoding (default: generator)",
	}
	seedFlag = &cli.StringFlag{
		Name:  "seed",
		Usage: "Derive randomness deterministically from this seed",
	}
	iterationsFlag = &cli.IntFlag{
		Name:  "iterations",
		Usage: "Number of iterations per benchmarked operation",
	}
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the tool with args (without the program name) and returns the
// process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	t := &tool{out: stdout, logOut: stderr}
	app := t.app()
	app.Writer = stdout
	app.ErrWriter = stderr

	err := app.Run(append([]string{app.Name}, args...))
	if t.logClose != nil {
		t.logClose.Close()
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		return 1
	}
	return 0
}

func (t *tool) app() *cli.App {
	return &cli.App{
		Name:            "g2tool",
		Usage:           "BLS12-381 G2 point utility",
		Version:         fmt.Sprintf("%s (%s)", version, commit),
		HideHelpCommand: true,
		Flags:           []cli.Flag{configFlag, logLevelFlag, logFormatFlag, logFileFlag},
		Before:          t.setup,
		// Errors are reported by run; never call os.Exit from inside the app.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "generator",
				Usage:  "Print the fixed generator of G2",
				Flags:  []cli.Flag{uncompressedFlag},
				Action: t.generator,
			},
			{
				Name:      "decode",
				Usage:     "Decode a point and report its properties",
				ArgsUsage: "<hex>",
				Flags:     []cli.Flag{uncheckedFlag},
				Action:    t.decode,
			},
			{
				Name:      "mul",
				Usage:     "Multiply a point by a scalar",
				ArgsUsage: "<scalar>",
				Flags:     []cli.Flag{pointFlag, uncompressedFlag},
				Action:    t.mul,
			},
			{
				Name:      "add",
				Usage:     "Sum one or more points",
				ArgsUsage: "<hex> [<hex>...]",
				Flags:     []cli.Flag{uncompressedFlag},
				Action:    t.add,
			},
			{
				Name:      "clear-cofactor",
				Usage:     "Map an on-curve point into the prime-order subgroup",
				ArgsUsage: "<hex>",
				Flags:     []cli.Flag{uncompressedFlag},
				Action:    t.clearCofactor,
			},
			{
				Name:   "random",
				Usage:  "Sample a uniformly random subgroup point",
				Flags:  []cli.Flag{seedFlag, uncompressedFlag},
				Action: t.random,
			},
			{
				Name:   "bench",
				Usage:  "Time the group operations and print Prometheus metrics",
				Flags:  []cli.Flag{iterationsFlag, seedFlag},
				Action: t.bench,
			},
		},
	}
}

// tool carries state shared by the commands of one run.
type tool struct {
	cfg      Config
	log      *log.Logger
	logClose io.Closer
	out      io.Writer
	logOut   io.Writer
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func (t *tool) setup(c *cli.Context) error {
	cfg := DefaultConfig()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return err
		}
	}
	if c.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = c.String(logLevelFlag.Name)
	}
	if c.IsSet(logFormatFlag.Name) {
		cfg.Log.Format = c.String(logFormatFlag.Name)
	}
	if c.IsSet(logFileFlag.Name) {
		cfg.Log.File = c.String(logFileFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := cfg.LogOptions()
	opts.Writer = t.logOut
	logger, closer, err := log.NewFromOptions(opts)
	if err != nil {
		return err
	}
	t.cfg = cfg
	log.SetDefault(logger)
	t.log = logger.Module("g2tool")
	t.logClose = closer
	t.log.Debug("configuration loaded",
		"config", c.String(configFlag.Name),
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
	)
	return nil
}
