package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/ballpit/internal/audio"
	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/gui"
	"github.com/tomz197/ballpit/internal/sim"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ballpit",
	})
	if lvl, err := log.ParseLevel(config.GetEnv(config.EnvLogLevel, "info")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	s, err := sim.New(cfg, sim.WithLogger(logger))
	if err != nil {
		logger.Fatal("failed to create simulation", "err", err)
	}

	opts := gui.Options{Logger: logger}
	if cfg.Sound {
		clicker := audio.NewClicker()
		if err := clicker.Initialize(); err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer clicker.Close()
			opts.Sound = clicker
		}
	}

	ebiten.SetWindowSize(int(cfg.Width), int(cfg.Height))
	ebiten.SetWindowTitle("ballpit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TargetFPS)

	if err := ebiten.RunGame(gui.New(s, opts)); err != nil {
		logger.Error("window error", "err", err)
		os.Exit(1)
	}
}
