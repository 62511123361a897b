package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const maskedValue = "***"

// maskHandler replaces the values of sensitive keys before they reach the
// wrapped handler. Keys are matched case-insensitively, inside groups and
// inside JSON payloads logged as strings or bytes.
type maskHandler struct {
	handler slog.Handler
	masker  masker
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.masker) == 0 {
		return h.handler.Handle(ctx, record)
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.masker.attr(a))
		return true
	})

	return h.handler.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.masker.attr(a)
	}

	return &maskHandler{handler: h.handler.WithAttrs(masked), masker: h.masker}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), masker: h.masker}
}

// masker is the set of lower-cased keys whose values are hidden.
type masker map[string]struct{}

func newMasker(fields []string) masker {
	m := make(masker, len(fields))
	for _, field := range fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field != "" {
			m[field] = struct{}{}
		}
	}
	return m
}

func (m masker) hides(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) attr(a slog.Attr) slog.Attr {
	if m.hides(a.Key) {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		s := a.Value.String()
		if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
			if masked, ok := m.json([]byte(s)); ok {
				a.Value = slog.StringValue(masked)
			}
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(m.data(v))
		case map[string]string:
			converted := make(map[string]any, len(v))
			for k, s := range v {
				converted[k] = s
			}
			a.Value = slog.AnyValue(m.data(converted))
		case []byte:
			if masked, ok := m.json(v); ok {
				a.Value = slog.StringValue(masked)
			}
		}
	}

	return a
}

func (m masker) json(payload []byte) (string, bool) {
	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.data(body))
	if err != nil {
		return "", false
	}

	return string(out), true
}

func (m masker) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if m.hides(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.data(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = m.data(item)
		}
		return out
	default:
		return v
	}
}
