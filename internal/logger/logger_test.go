// Package logger re-export smoke tests: internal packages import this shim
// instead of pkg/logger, so every re-exported symbol must stay usable.
package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReExport(t *testing.T) {
	log := New("test-package")

	assert.NotNil(t, log)
}

func TestTraceIDContextReExports(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-123")

	assert.Equal(t, "trace-123", TraceIDFromContext(ctx))
}

func TestNewWithContextPicksUpTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "trace-456")

	log := NewWithContext(ctx, "test-package")

	assert.NotNil(t, log)
}

func TestLoggerMethods(t *testing.T) {
	log := New("test")

	err := log.Error("test error")
	assert.Error(t, err)

	original := errors.New("original")
	assert.Equal(t, original, log.Err("context", original))

	assert.NotNil(t, log.With("key", "value"))
	assert.NotNil(t, log.File("test.go"))
	assert.NotNil(t, log.Function("testFunc"))
	assert.NotNil(t, log.WithTraceID("trace-123"))

	ctx := ContextWithTraceID(context.Background(), "context-trace")
	assert.NotNil(t, log.TraceFromContext(ctx))
}

func TestLoggerTimer(t *testing.T) {
	log := New("test")

	done := log.Timer("test operation")
	assert.NotNil(t, done)
	done()
}
