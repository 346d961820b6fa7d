package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"wesum/internal/app"
	"wesum/internal/config"
	"wesum/internal/logging"
)

type options struct {
	Config   string `short:"c" long:"config" env:"WESUM_CONFIG" default:"config.yaml" description:"Path to the YAML configuration file"`
	LogLevel string `long:"log-level" env:"WESUM_LOG_LEVEL" description:"Override the configured log level"`
	Daemon   bool   `long:"daemon" description:"Keep running and push a digest every configured interval"`
	DryRun   bool   `long:"dry-run" description:"Render the digest but do not push it"`
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wesum: %v\ncreate a config file (see config.example.yaml) or pass --config\n", err)
		return err
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	logger := logging.New(cfg.Logging.Level)

	if err := cfg.Validate(opts.DryRun); err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(cfg, app.Options{Daemon: opts.Daemon, DryRun: opts.DryRun}, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	return nil
}
