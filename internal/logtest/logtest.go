// Package logtest provides an slog handler that keeps records in memory so
// tests can assert on what was logged.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

type Handler struct {
	mu      sync.Mutex
	records []slog.Record
}

func New() (*slog.Logger, *Handler) {
	h := &Handler{}
	return slog.New(h), h
}

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *Handler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *Handler) WithGroup(string) slog.Handler { return h }

// Count returns how many records were logged at level with message msg.
func (h *Handler) Count(level slog.Level, msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level && r.Message == msg {
			n++
		}
	}
	return n
}

// Values returns the value of attribute key for every record with message msg.
func (h *Handler) Values(msg, key string) []slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Value
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				out = append(out, a.Value)
				return false
			}
			return true
		})
	}
	return out
}
