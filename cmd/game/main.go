// Package main provides the one-shot game CLI.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	gamecmd "github.com/louisbranch/airlock/internal/cmd/game"
	"github.com/louisbranch/airlock/internal/platform/config"
)

func main() {
	cfg, err := gamecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gamecmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
