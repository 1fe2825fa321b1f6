// Package finance implements the ledger application service: recording
// invoices, applying and reversing payments, and reading balances, each
// inside one storage transaction holding the counterparty's ledger lock.
package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Operation names used in spans, metrics and logs
const (
	OpRecordInvoice = "record_invoice"
	OpApplyPayment  = "apply_payment"
	OpCancelInvoice = "cancel_invoice"
	OpCancelPayment = "cancel_payment"
	OpRefundPayment = "refund_payment"
)

// Metrics receives ledger service measurements. *telemetry.LedgerMetrics
// implements it.
type Metrics interface {
	RecordPaymentRejected(ctx context.Context, currency, code string)
	RecordRetry(ctx context.Context, operation string)
	RecordReplay(ctx context.Context, operation string)
	RecordReconciliationFailure(ctx context.Context, currency string)
	RecordOperation(ctx context.Context, operation string, d time.Duration, err error)
}

type nopMetrics struct{}

func (nopMetrics) RecordPaymentRejected(context.Context, string, string)         {}
func (nopMetrics) RecordRetry(context.Context, string)                           {}
func (nopMetrics) RecordReplay(context.Context, string)                          {}
func (nopMetrics) RecordReconciliationFailure(context.Context, string)           {}
func (nopMetrics) RecordOperation(context.Context, string, time.Duration, error) {}

// Config tunes the ledger service
type Config struct {
	// MaxRetries is how many times a transaction is re-executed after a
	// retryable storage failure
	MaxRetries int
	// RetryBackoff is multiplied by the attempt number before each retry
	RetryBackoff time.Duration
	// VerifyAfterCommit runs the reconciliation check after every mutation
	// and logs violations. Not for production.
	VerifyAfterCommit bool
	// ReportingRate converts positions for GetBalances
	ReportingRate valueobject.ExchangeRate
	// Idempotency controls the processed-key cache
	Idempotency shared.IdempotencyConfig
	// Retryable classifies storage errors; defaults to optimistic lock conflicts only
	Retryable func(error) bool
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() Config {
	rate, _ := valueobject.NewExchangeRate(valueobject.USD, valueobject.IQD, decimal.NewFromInt(1310))
	return Config{
		MaxRetries:    3,
		RetryBackoff:  25 * time.Millisecond,
		ReportingRate: rate,
		Idempotency:   shared.DefaultIdempotencyConfig(),
		Retryable: func(err error) bool {
			return errors.Is(err, shared.ErrConcurrencyConflict)
		},
	}
}

// LedgerService is the transactional entry point for every balance change
type LedgerService struct {
	uow     finance.UnitOfWork
	events  shared.EventPublisher
	keys    shared.IdempotencyStore
	metrics Metrics
	logger  *zap.Logger
	cfg     Config
}

// Option configures a LedgerService
type Option func(*LedgerService)

// WithEventPublisher publishes domain events after commit
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *LedgerService) { s.events = p }
}

// WithIdempotencyStore caches processed payment keys
func WithIdempotencyStore(store shared.IdempotencyStore) Option {
	return func(s *LedgerService) { s.keys = store }
}

// WithMetrics records service metrics
func WithMetrics(m Metrics) Option {
	return func(s *LedgerService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *LedgerService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig overrides the default configuration. Unset fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(s *LedgerService) {
		def := DefaultConfig()
		if cfg.MaxRetries < 0 {
			cfg.MaxRetries = 0
		}
		if cfg.RetryBackoff <= 0 {
			cfg.RetryBackoff = def.RetryBackoff
		}
		if cfg.ReportingRate.Rate().IsZero() {
			cfg.ReportingRate = def.ReportingRate
		}
		if cfg.Idempotency.TTL <= 0 {
			cfg.Idempotency.TTL = def.Idempotency.TTL
		}
		if cfg.Retryable == nil {
			cfg.Retryable = def.Retryable
		}
		s.cfg = cfg
	}
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(uow finance.UnitOfWork, opts ...Option) *LedgerService {
	s := &LedgerService{
		uow:     uow,
		metrics: nopMetrics{},
		logger:  zap.NewNop(),
		cfg:     DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// txScope collects what one transaction attempt changed
type txScope struct {
	repos   finance.Repositories
	tracked []shared.AggregateRoot
}

func (t *txScope) track(aggs ...shared.AggregateRoot) {
	t.tracked = append(t.tracked, aggs...)
}

// saveAccount persists the account and its journal entries
func (t *txScope) saveAccount(ctx context.Context, account *partner.LedgerAccount) error {
	if account == nil {
		return nil
	}
	if err := t.repos.Accounts().Save(ctx, account); err != nil {
		return err
	}
	if err := t.repos.Entries().Append(ctx, account.PendingEntries()...); err != nil {
		return err
	}
	account.ClearPendingEntries()
	t.track(account)
	return nil
}

func (t *txScope) saveInvoices(ctx context.Context, invoices []*finance.Invoice) error {
	for _, inv := range invoices {
		if err := t.repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		t.track(inv)
	}
	return nil
}

func (t *txScope) events() []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, agg := range t.tracked {
		out = append(out, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	return out
}

// execute runs fn in a transaction, re-running it on retryable failures.
// fn must load everything it needs through the scope on every attempt.
func (s *LedgerService) execute(ctx context.Context, op string, fn func(ctx context.Context, tx *txScope) error) error {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			s.metrics.RecordRetry(ctx, op)
			telemetry.AddEvent(trace.SpanFromContext(ctx), "retry", telemetry.SpanAttrAttempt, attempt)
			s.log(ctx).Warn("retrying ledger transaction",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * s.cfg.RetryBackoff):
			}
		}

		var scope *txScope
		err := s.uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
			scope = &txScope{repos: repos}
			return fn(ctx, scope)
		})
		if err == nil {
			s.publish(ctx, scope.events())
			return nil
		}
		if !s.cfg.Retryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%s abandoned after %d attempts: %w", op, s.cfg.MaxRetries+1, lastErr)
}

// observe wraps a public operation with a span, profiling labels, the
// ledger log scope and duration metrics
func (s *LedgerService) observe(ctx context.Context, op string, scope logger.LedgerScope, fn func(ctx context.Context) error) error {
	start := time.Now()
	scope.Operation = op
	ctx = logger.WithLedgerScope(ctx, scope)
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", op,
		telemetry.WithAttribute(telemetry.SpanAttrCounterpartyID, scope.CounterpartyID),
		telemetry.WithAttribute(telemetry.SpanAttrCurrency, scope.Currency),
	)
	defer span.End()

	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.LedgerOperationLabels(op, scope.Currency, nil), func(ctx context.Context) {
		err = fn(ctx)
	})
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		telemetry.SetOK(span)
	}
	s.metrics.RecordOperation(ctx, op, time.Since(start), err)
	return err
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.log(ctx).Error("failed to publish ledger events", zap.Int("count", len(events)), zap.Error(err))
	}
}

func (s *LedgerService) log(ctx context.Context) *zap.Logger {
	return logger.L(logger.WithContext(ctx, s.contextLogger(ctx)))
}

func (s *LedgerService) contextLogger(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.FatalLevel) {
		return l
	}
	return s.logger
}

// lockAccount locks the ledger of a counterparty after checking it may
// take part in a transaction of kind. The counterparty row is share-locked
// first so a concurrent delete waits for this transaction.
func lockAccount(ctx context.Context, tx *txScope, counterpartyID uuid.UUID, kind partner.Kind, currency valueobject.Currency, requireActive bool) (*partner.LedgerAccount, error) {
	cp, err := tx.repos.Counterparties().LockForShare(ctx, counterpartyID)
	if err != nil {
		return nil, err
	}
	if err := cp.RequireKind(kind); err != nil {
		return nil, err
	}
	if requireActive {
		if err := cp.RequireActive(); err != nil {
			return nil, err
		}
	}
	return tx.repos.Accounts().LockForUpdate(ctx, counterpartyID, currency)
}

// parseMoney builds a Money from request fields, enforcing currency scale
func parseMoney(amount decimal.Decimal, currency string) (valueobject.Money, error) {
	c, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return valueobject.NewMoney(amount, c)
}

func snapshotOf(account *partner.LedgerAccount) *BalanceResponse {
	if account == nil {
		return nil
	}
	resp := ToBalanceResponse(account.Snapshot())
	return &resp
}

func formatPosition(s partner.BalanceSnapshot) string {
	if s.DisplayAdvance().IsPositive() {
		return "advance " + valueobject.FormatAmount(s.DisplayAdvance())
	}
	return "owes " + valueobject.FormatAmount(s.DisplayBalance())
}
