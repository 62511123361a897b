package instrument

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// DefaultMaskFields are masked when Config.MaskFields is empty.
var DefaultMaskFields = []string{"password", "record", "input", "secret"}

func initLogging(cfg *Config, lp *sdklog.LoggerProvider) {
	slog.SetDefault(NewLogger(cfg, lp))
}

// NewLogger builds the logger New installs as the slog default. A nil lp
// keeps output local.
func NewLogger(cfg *Config, lp *sdklog.LoggerProvider) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.LogWriter != nil {
		w = cfg.LogWriter
	}

	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.LogLevel),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}

	var local slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		local = slog.NewTextHandler(w, opts)
	} else {
		local = slog.NewJSONHandler(w, opts)
	}

	handler := local
	if lp != nil {
		handler = &multiHandler{handlers: []slog.Handler{
			local,
			otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp)),
		}}
	}

	fields := cfg.MaskFields
	if len(fields) == 0 {
		fields = DefaultMaskFields
	}

	logger := slog.New(&maskHandler{handler: handler, masker: newMasker(fields)})
	if cfg.ServiceName != "" {
		logger = logger.With(slog.String("service", cfg.ServiceName))
	}

	return logger
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return level
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("%s:%d", filepath.Join("internal", rel), src.Line))
	}

	return a
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range m.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range m.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{handlers: m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{handlers: m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })}
}

func (m *multiHandler) each(fn func(slog.Handler) slog.Handler) []slog.Handler {
	out := make([]slog.Handler, 0, len(m.handlers))
	for _, handler := range m.handlers {
		out = append(out, fn(handler))
	}
	return out
}
