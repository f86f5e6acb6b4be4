package server

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

func receive(t *testing.T, messages <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-messages:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
		return ConsoleMessage{}
	}
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan, discardHandler())

	logger.Info("render started", "width", 64, "tiles", 4)

	msg := receive(t, messageChan)
	assert.Equal(t, "render started width=64 tiles=4", msg.Message)
	assert.Equal(t, "info", msg.Level)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
}

func TestWebLogger_Levels(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("levels", messageChan, discardHandler())

	logger.Debug("d")
	logger.Warn("w")
	logger.Error("e")

	assert.Equal(t, "debug", receive(t, messageChan).Level)
	assert.Equal(t, "warn", receive(t, messageChan).Level)
	assert.Equal(t, "error", receive(t, messageChan).Level)
}

func TestWebLogger_WithAttrs(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("attrs", messageChan, discardHandler()).With("scene", "cornell")

	logger.Info("loaded", "objects", 8)
	assert.Equal(t, "loaded scene=cornell objects=8", receive(t, messageChan).Message)
}

func TestWebLogger_ForwardsToServerLog(t *testing.T) {
	var buf bytes.Buffer
	next := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := NewWebLogger("fwd", nil, next)

	logger.Info("quiet")
	logger.Warn("loud", "tile", 3)

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "render=fwd")
	assert.Contains(t, buf.String(), "tile=3")
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("full", messageChan, discardHandler())

	// Sends past capacity are dropped instead of blocking
	logger.Info("Message 1")
	logger.Info("Message 2")
	logger.Info("Message 3")

	require.Len(t, messageChan, 1)
	assert.Equal(t, "Message 1", (<-messageChan).Message)
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("nil", nil, discardHandler())
	assert.NotPanics(t, func() { logger.Info("Test message with nil channel") })
}
