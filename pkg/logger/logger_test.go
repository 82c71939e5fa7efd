package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(buf *bytes.Buffer) Logger {
	return NewWithConfig(Config{
		Name:   "test",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
		Writer: buf,
	})
}

func TestErrReturnsOriginalError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf)

	original := errors.New("boom")
	returned := log.Err("something failed", original, "key", "value")

	assert.Equal(t, original, returned)
	assert.Contains(t, buf.String(), "something failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestErrMsgCreatesError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf)

	err := log.ErrMsg("vehicle not found")

	assert.Error(t, err)
	assert.Equal(t, "vehicle not found", err.Error())
}

func TestFunctionAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf).Function("RecordMileage")

	log.Info("recorded")

	assert.Contains(t, buf.String(), "RecordMileage")
}

func TestNewWithContextExtractsTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-123")

	assert.Equal(t, "trace-123", TraceIDFromContext(ctx))

	// Without a trace ID the logger is still usable
	log := NewWithContext(context.Background(), "test-service")
	assert.NotNil(t, log)
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{
		Name:   "text-test",
		Format: FormatText,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	log.Info("hello", "count", 3)

	out := buf.String()
	assert.True(t, strings.Contains(out, "hello"))
	assert.False(t, strings.HasPrefix(out, "{"))
}
