// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// ContextWithRequestID tags ctx with the id of the HTTP request being served.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestIDKey, id)
}

// ContextWithCorrelationID tags ctx with the id of one background run
// (a refresh cycle or a bulk sync).
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

func withID(ctx context.Context, key ctxKey, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithContext adds the request, correlation and trace ids found in ctx to logger.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	fields := map[string]any{}
	if rid := RequestIDFromContext(ctx); rid != "" {
		fields[FieldRequestID] = rid
	}
	if cid := CorrelationIDFromContext(ctx); cid != "" {
		fields[FieldCorrelationID] = cid
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields[FieldTraceID] = sc.TraceID().String()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With().Fields(fields).Logger()
}

// WithComponentFromContext is WithComponent plus the ids of ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}

// FromContext prefers a logger attached with zerolog's WithContext.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	l := WithContext(ctx, Base())
	return &l
}
