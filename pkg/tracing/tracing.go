package tracing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
)

// Span pairs an otel span with the operation's logger so that a failed
// operation is both recorded on the trace and logged once at debug level.
type Span struct {
	span    trace.Span
	logger  *zap.Logger
	name    string
	started time.Time
}

func StartSpan(ctx context.Context, tracer trace.Tracer, logger *zap.Logger, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))

	return ctx, &Span{
		span:    span,
		logger:  logger,
		name:    name,
		started: time.Now(),
	}
}

// End closes the span. A non-nil err marks it failed and, when err carries
// an apperr code, tags the span with the code and reason.
func (s *Span) End(err error) {
	elapsed := time.Since(s.started)
	s.span.SetAttributes(attribute.Int64("elapsed_ms", elapsed.Milliseconds()))

	if err == nil {
		s.span.SetStatus(codes.Ok, "")
		s.span.End()

		return
	}

	fields := []zap.Field{
		zap.String("span", s.name),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		s.span.SetAttributes(attribute.String("error.code", appErr.Code))
		fields = append(fields, zap.String("code", appErr.Code))

		if reason, ok := appErr.Metadata[apperr.MetaReason].(string); ok {
			s.span.SetAttributes(attribute.String("error.reason", reason))
			fields = append(fields, zap.String(logg.Reason, reason))
		}
	}

	s.span.SetStatus(codes.Error, err.Error())
	s.span.RecordError(err)
	s.logger.Debug("operation failed", fields...)

	s.span.End()
}

func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}
