package logger

import (
	"context"
	"log/slog"
)

// Extractor pulls a single attribute out of a request context.
// It returns false when the context carries nothing to log.
type Extractor func(ctx context.Context) (slog.Attr, bool)

// ContextValue builds an Extractor that logs the string stored under key.
func ContextValue(key any, attr string) Extractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			return slog.String(attr, v), true
		}
		return slog.Attr{}, false
	}
}

type extractorHandler struct {
	next       slog.Handler
	extractors []Extractor
}

// WithExtractors wraps h so that every record gets the attributes produced
// by the extractors at log time.
func WithExtractors(h slog.Handler, extractors ...Extractor) slog.Handler {
	list := make([]Extractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			list = append(list, ex)
		}
	}
	if len(list) == 0 {
		return h
	}
	return &extractorHandler{next: h, extractors: list}
}

func (h *extractorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *extractorHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range h.extractors {
			if attr, ok := ex(ctx); ok {
				rec.AddAttrs(attr)
			}
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *extractorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &extractorHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *extractorHandler) WithGroup(name string) slog.Handler {
	return &extractorHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
