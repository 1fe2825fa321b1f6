package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey      contextKey = "logger"
	requestIDKey   contextKey = "request_id"
	ledgerScopeKey contextKey = "ledger_scope"
)

// LedgerScope identifies the (counterparty, currency) ledger an operation
// is working on. Both fields are empty for anonymous documents.
type LedgerScope struct {
	Operation      string
	CounterpartyID string
	Currency       string
}

func (s LedgerScope) fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if s.Operation != "" {
		fields = append(fields, zap.String("operation", s.Operation))
	}
	if s.CounterpartyID != "" {
		fields = append(fields, zap.String("counterparty_id", s.CounterpartyID))
	}
	if s.Currency != "" {
		fields = append(fields, zap.String("currency", s.Currency))
	}
	return fields
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from ctx
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithLedgerScope stores the ledger an operation is working on in ctx
func WithLedgerScope(ctx context.Context, scope LedgerScope) context.Context {
	return context.WithValue(ctx, ledgerScopeKey, scope)
}

// GetLedgerScope retrieves the ledger scope from ctx
func GetLedgerScope(ctx context.Context) (LedgerScope, bool) {
	scope, ok := ctx.Value(ledgerScopeKey).(LedgerScope)
	return scope, ok
}

// L returns the context logger enriched with trace_id, span_id, request_id
// and the ledger scope when present.
//
//	logger.L(ctx).Info("payment applied", zap.String("payment_id", id))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	fields := make([]zap.Field, 0, 6)

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if scope, ok := GetLedgerScope(ctx); ok {
		fields = append(fields, scope.fields()...)
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
