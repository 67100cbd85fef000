// Command pulldemo shows a feed in a PullList. Drag the list down with the
// left mouse button to refresh it, scroll or drag past the end to load more.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xqrs/pullview/internal/config"
	"github.com/xqrs/pullview/pull"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pulldemo:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "pulldemo.toml", "path to the TOML configuration")
		loadMode    = flag.String("load-mode", "", "override load_mode (auto or pull)")
		threshold   = flag.Int("threshold", -1, "override threshold in rows")
		logFile     = flag.String("log-file", "", "override log_file")
		writeConfig = flag.Bool("write-config", false, "write the effective configuration to -config and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *loadMode != "" {
		mode, err := pull.ParseLoadMode(*loadMode)
		if err != nil {
			return fmt.Errorf("-load-mode: %w", err)
		}
		cfg.LoadMode = mode
	}
	if *threshold >= 0 {
		cfg.Threshold = *threshold
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *writeConfig {
		return cfg.Write(*configPath)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "config", *configPath, "load_mode", cfg.LoadMode.String(), "threshold", cfg.Threshold)
	return newDemo(cfg, logger).run(ctx)
}

// newLogger returns a JSON logger writing to the configured log file. The
// terminal belongs to the UI, so without a file nothing is logged.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
