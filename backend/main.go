package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"storyhub/backend/config"
	"storyhub/backend/global"
	"storyhub/backend/initialize"
	"storyhub/backend/server"

	"github.com/fsnotify/fsnotify"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	loader := config.NewLoader(*cfgPath)
	cfg, err := loader.Load()
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("load config")
	}
	initialize.InitLogger(cfg.Log)

	app, err := initialize.BuildWithConfig(cfg)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("build app")
	}

	if _, err := os.Stat(*cfgPath); err == nil {
		loader.Watch(func(next *config.Config, e fsnotify.Event) {
			initialize.SetLevel(next.Log.Level)
			global.Logger.Info().Str("file", e.Name).Str("level", next.Log.Level).Msg("config reloaded")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	err = server.Run(ctx, opts, app.Router)
	initialize.Shutdown()
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("http server")
	}
}
