package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls the process logger.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer `env:"-"`

	Level       string `env:"LOG_LEVEL"          envDefault:"info"`
	Format      string `env:"LOG_FORMAT"         envDefault:"json"`
	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// SentryLevel is the lowest level forwarded to Sentry as a log entry.
	// Errors always become Sentry issues.
	SentryLevel string `env:"SENTRY_LEVEL" envDefault:"warn"`
}

// New builds the process logger from cfg.
// Extractors run on every record and add request-scoped attributes.
// When SentryDSN is set, records are also forwarded to Sentry.
func New(cfg Config, extractors ...Extractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var base slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		base = slog.NewTextHandler(out, opts)
	} else {
		base = slog.NewJSONHandler(out, opts)
	}

	if cfg.SentryDSN != "" {
		if sh, err := newSentryHandler(cfg); err != nil {
			slog.New(base).Error("sentry disabled", slog.String("error", err.Error()))
		} else {
			base = fanout(base, sh)
		}
	}

	return slog.New(WithExtractors(base, extractors...))
}

// ParseLevel maps debug/info/warn/error onto slog levels.
// Unknown values resolve to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
