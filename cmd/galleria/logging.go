package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/sagarc03/galleria/config"
)

// setupLogging installs the default slog logger. Logs always go to stderr:
// stdout belongs to command output (list, token, config).
func setupLogging(cfg *config.Config) {
	slog.SetDefault(slog.New(newLogHandler(cfg, os.Stderr)))

	// route net/http server errors and other stdlib log output through slog
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo).Writer())
}

func newLogHandler(cfg *config.Config, w io.Writer) slog.Handler {
	level := parseLevel(cfg.Log.Level)
	if cfg.Server.Debug {
		level = slog.LevelDebug
	}

	if cfg.Env != "prod" {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  cfg.Server.Debug,
			TimeFormat: time.TimeOnly,
		})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.TimeKey {
				return a
			}
			return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
		},
	})
}

func parseLevel(s string) slog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
