// Package scenario implements the CLI for running Lua scenario scripts
// against an in-process rule system.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/airlock/internal/platform/config"
	"github.com/louisbranch/airlock/internal/scenario"
	"github.com/louisbranch/airlock/internal/systems"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario string `env:"AIRLOCK_SCENARIO_FILE"`
	System   string `env:"AIRLOCK_SYSTEM"          envDefault:"mothership"`
	Seed     int64  `env:"AIRLOCK_SEED"`
	Verbose  bool   `env:"AIRLOCK_SCENARIO_VERBOSE"`
}

// ParseConfig parses environment defaults and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.StringVar(&cfg.System, "system", cfg.System, "rule system to run the script against")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "dice seed override (0 uses the script's seed)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "print every step result, not only failures")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Scenario == "" && fs.NArg() > 0 {
		cfg.Scenario = fs.Arg(0)
	}
	return cfg, nil
}

// Run loads and executes the scenario script, printing a step report.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	script, err := scenario.LoadFile(cfg.Scenario)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = script.Seed
	}
	system, err := systems.New(cfg.System, systems.Options{GameName: script.Name, Seed: seed})
	if err != nil {
		return err
	}

	report, runErr := scenario.NewRunner(system).Run(script)
	if report != nil {
		printReport(cfg, report, out, errOut)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return runErr
}

func printReport(cfg Config, report *scenario.Report, out io.Writer, errOut io.Writer) {
	failures := report.Failures()
	if cfg.Verbose {
		for _, step := range report.Results {
			status := "ok"
			if !step.Success {
				status = "FAIL"
			}
			fmt.Fprintf(out, "%4s  step %d (%s): %s\n", status, step.Index, step.Kind, step.Summary)
		}
	} else {
		for _, step := range failures {
			fmt.Fprintf(errOut, "FAIL  step %d (%s): %s\n", step.Index, step.Kind, step.Summary)
		}
	}
	fmt.Fprintf(out, "%s: %d steps, %d failed\n", report.Scenario, len(report.Results), len(failures))
}
