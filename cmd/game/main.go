package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/loop"
)

func main() {
	// Stdout belongs to the canvas, so logs go to stderr.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ballpit",
	})
	if lvl, err := log.ParseLevel(config.GetEnv(config.EnvLogLevel, "warn")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Error("failed to enable raw mode", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	reader := bufio.NewReader(os.Stdin)
	runErr := loop.Run(ctx, reader, os.Stdout, loop.Options{
		Config: cfg,
		Logger: logger,
	})

	stop()
	_ = term.Restore(fd, oldState)

	if runErr != nil {
		logger.Error("sandbox error", "err", runErr)
		os.Exit(1)
	}
}
