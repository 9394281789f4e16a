package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"SiteViewer/internal/config"
	"SiteViewer/internal/engine"
	"SiteViewer/internal/logger"

	"go.uber.org/zap"
)

func init() {
	// glfw requires the main OS thread on some platforms.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "assets/siteviewer.yaml", "path to the YAML config file")
	headless := flag.Bool("headless", false, "record frames without opening a window")
	frames := flag.Int("frames", 1, "number of frames to record in headless mode")
	flag.Parse()

	if err := run(*configPath, *headless, *frames); err != nil {
		logger.Log.Error("SiteViewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath string, headless bool, frames int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		// The logger is not configured yet.
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Development); err != nil {
		return err
	}
	if cfg.Source == "" {
		logger.Log.Info("Config file not found, using defaults", zap.String("path", configPath))
	}
	logger.Log.Info("SiteViewer starting",
		zap.String("config", configPath),
		zap.String("scene", cfg.Scene.File),
		zap.Bool("headless", headless))

	if headless {
		_, err := engine.RunHeadless(cfg, frames)
		return err
	}

	win := engine.NewWindow(cfg)
	if w, err := config.Watch(configPath); err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	} else {
		defer w.Close()
		win.WatchReloads(w.Updates())
	}
	return win.Run()
}
