// SPDX-License-Identifier: MIT

// Package logging builds the structured logger shared by the solvers and the
// command line: a slog JSON handler writing to stderr, or to a rotating file
// when Config.File is set.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the log level and the optional rotating file.
type Config struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	// File enables lumberjack rotation; empty writes to stderr.
	File string `mapstructure:"file"`
	// MaxSize is in MB, MaxAge in days.
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
	MaxBackups int  `mapstructure:"max_backups" validate:"gte=0"`
	MaxAge     int  `mapstructure:"max_age" validate:"gte=0"`
	Compress   bool `mapstructure:"compress"`
}

// ParseLevel maps debug/info/warn/error onto slog levels; anything else is Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

// Writer returns the destination described by cfg.
func Writer(cfg Config) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// New returns a JSON logger writing to w at the given level. The time key is
// renamed to "timestamp".
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	}))
}

// NewFromConfig builds the logger described by cfg. The returned LevelVar
// lets a config reload change the level in place.
func NewFromConfig(cfg Config) (*slog.Logger, *slog.LevelVar) {
	lv := new(slog.LevelVar)
	lv.Set(ParseLevel(cfg.Level))

	return New(Writer(cfg), lv).With(slog.String("service", "lpr")), lv
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
