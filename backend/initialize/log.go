package initialize

import (
	"io"
	"os"
	"storyhub/backend/config"
	"storyhub/backend/global"

	"github.com/rs/zerolog"
)

func init() {
	// basic zerolog setup: console writer to stdout until the config is loaded
	global.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

// InitLogger rebuilds global.Logger from the log section of the config.
func InitLogger(cfg config.Log) {
	var w io.Writer = os.Stdout
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	global.Logger = zerolog.New(w).With().Timestamp().Logger()
	SetLevel(cfg.Level)
}

// SetLevel changes the level of the running logger; used on config reload.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(parseLevel(level))
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
