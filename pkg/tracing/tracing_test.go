package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ui-probe/pkg/apperr"
)

func recorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})

	return rec, tp
}

func attr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}

	return attribute.Value{}, false
}

func TestEndSuccess(t *testing.T) {
	rec, tp := recorder(t)

	_, step := StartSpan(context.Background(), tp.Tracer("test"), zap.NewNop(), "Locate", attribute.String("path", "#a"))
	step.AddEvent("segment resolved")
	step.End(nil)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Locate", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)

	_, ok := attr(spans[0], "elapsed_ms")
	assert.True(t, ok)
}

func TestEndWithAppError(t *testing.T) {
	rec, tp := recorder(t)
	core, logs := observer.New(zapcore.DebugLevel)

	_, step := StartSpan(context.Background(), tp.Tracer("test"), zap.New(core), "Locate")
	step.End(apperr.NotFoundError("Locate", "#a >> #b", apperr.ErrNoMatch))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	code, ok := attr(spans[0], "error.code")
	require.True(t, ok)
	assert.Equal(t, apperr.CodeNotFound, code.AsString())

	reason, ok := attr(spans[0], "error.reason")
	require.True(t, ok)
	assert.Equal(t, "not_found", reason.AsString())

	entries := logs.FilterMessage("operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, apperr.CodeNotFound, entries[0].ContextMap()["code"])
}

func TestEndWithPlainError(t *testing.T) {
	rec, tp := recorder(t)

	_, step := StartSpan(context.Background(), tp.Tracer("test"), zap.NewNop(), "Evaluate")
	step.End(errors.New("protocol error"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	_, ok := attr(spans[0], "error.code")
	assert.False(t, ok)
}
