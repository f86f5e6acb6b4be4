package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleHandler is a slog.Handler that forwards records to a render's
// console channel and to the server's own handler
type consoleHandler struct {
	next        slog.Handler
	consoleChan chan<- ConsoleMessage
	attrs       []slog.Attr
}

// NewWebLogger creates a logger for a specific render. Records go to the
// server log through next and, without blocking, to consoleChan.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, next slog.Handler) *slog.Logger {
	handler := &consoleHandler{next: next, consoleChan: consoleChan}
	return slog.New(handler).With("render", renderID)
}

// Enabled reports whether either destination wants records at level
func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.consoleChan != nil || h.next.Enabled(ctx, level)
}

// Handle formats the record for the console and passes it on
func (h *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.consoleChan != nil {
		message := ConsoleMessage{
			Message:   formatRecord(record, h.attrs),
			Timestamp: record.Time,
			Level:     strings.ToLower(record.Level.String()),
		}
		select {
		case h.consoleChan <- message:
		default:
			// Channel full, skip (don't block)
		}
	}

	if h.next.Enabled(ctx, record.Level) {
		return h.next.Handle(ctx, record)
	}
	return nil
}

// WithAttrs returns a handler that adds attrs to every record
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		next:        h.next.WithAttrs(attrs),
		consoleChan: h.consoleChan,
		attrs:       append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// WithGroup is passed through to the server handler only; console lines stay flat
func (h *consoleHandler) WithGroup(name string) slog.Handler {
	return &consoleHandler{next: h.next.WithGroup(name), consoleChan: h.consoleChan, attrs: h.attrs}
}

// formatRecord renders a record as "message key=value ..." skipping the render ID
func formatRecord(record slog.Record, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(record.Message)

	write := func(attr slog.Attr) bool {
		if attr.Key == "render" {
			return true
		}
		fmt.Fprintf(&b, " %s=%v", attr.Key, attr.Value)
		return true
	}
	for _, attr := range attrs {
		write(attr)
	}
	record.Attrs(write)
	return b.String()
}
