package main

import (
	"embed"
	"log/slog"
	"os"

	"github.com/chazu/aurora/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// configEnv names a configuration file to load at startup.
const configEnv = "AURORA_CONFIG"

func main() {
	cfg := config.Default()
	path := os.Getenv(configEnv)
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			slog.Error("load configuration", "path", path, "err", err)
			os.Exit(1)
		}
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		slog.Error("log level", "level", cfg.Log.Level, "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	app := NewApp(WithLogger(logger))
	app.configure(cfg)

	err = wails.Run(&options.App{
		Title:     "Aurora",
		Width:     cfg.Viewport.Width + 320,
		Height:    cfg.Viewport.Height,
		OnStartup: app.startup,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Error("wails", "err", err)
		os.Exit(1)
	}
}
