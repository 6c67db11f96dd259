package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/okian/huddle/internal/config"
	"github.com/okian/huddle/internal/playdump"
	"github.com/okian/huddle/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := playdump.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		os.Stderr.WriteString(err.Error() + "\n")
		return 2
	}

	// Logs go to stderr so -json output stays clean.
	if err := logger.InitWriter(os.Stderr, logger.FormatText); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	base, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	_ = logger.SetLevelString(base.LogLevel)

	if err := playdump.Run(ctx, base, cfg, os.Stdout); err != nil {
		logger.Get().Error(ctx, "dump failed", logger.String("game_id", cfg.Game.GameID), logger.Error(err))
		return 1
	}
	return 0
}
