package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMeterNil is returned when no meter is configured.
var ErrMeterNil = errors.New("NewLedgerMetrics: meter cannot be nil")

// PaymentObservation describes one applied payment for metrics
type PaymentObservation struct {
	Currency    string
	PaymentType string
	Targeted    bool
	Amount      decimal.Decimal
	AdvanceUsed decimal.Decimal
	Direct      decimal.Decimal
	Excess      decimal.Decimal
}

// CurrencyTotals is the outstanding balance and advance of one currency
// summed over all ledger accounts
type CurrencyTotals struct {
	Currency string
	Balance  decimal.Decimal
	Advance  decimal.Decimal
}

// LedgerTotalsProvider reports outstanding totals for periodic collection.
type LedgerTotalsProvider interface {
	OutstandingTotals(ctx context.Context) ([]CurrencyTotals, error)
}

// LedgerMetricsConfig holds configuration for ledger metrics.
type LedgerMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	TotalsProvider  LedgerTotalsProvider
}

// LedgerMetrics records payment application and reconciliation activity.
type LedgerMetrics struct {
	logger *zap.Logger

	paymentsTotal        *Counter
	paymentAmountTotal   *AmountCounter
	advanceUsedTotal     *AmountCounter
	excessDepositedTotal *AmountCounter
	paymentRejectedTotal *Counter
	reversalsTotal       *Counter
	invoicesTotal        *Counter
	retriesTotal         *Counter
	replaysTotal         *Counter
	reconcileFailures    *Counter
	operationDuration    *Histogram

	outstandingBalance *FloatGauge
	outstandingAdvance *FloatGauge

	provider    LedgerTotalsProvider
	interval    time.Duration
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewLedgerMetrics creates the ledger instruments on cfg.Meter.
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	lm := &LedgerMetrics{
		logger:   logger,
		provider: cfg.TotalsProvider,
		interval: interval,
		stopChan: make(chan struct{}),
	}

	m := cfg.Meter
	var err error
	if lm.paymentsTotal, err = NewCounter(m, "ledger_payments_total", "Payments applied", "{payments}"); err != nil {
		return nil, err
	}
	if lm.paymentAmountTotal, err = NewAmountCounter(m, "ledger_payment_amount_total", "Sum of applied payment amounts"); err != nil {
		return nil, err
	}
	if lm.advanceUsedTotal, err = NewAmountCounter(m, "ledger_advance_used_total", "Advance consumed by payments"); err != nil {
		return nil, err
	}
	if lm.excessDepositedTotal, err = NewAmountCounter(m, "ledger_excess_deposited_total", "Payment excess deposited as advance"); err != nil {
		return nil, err
	}
	if lm.paymentRejectedTotal, err = NewCounter(m, "ledger_payments_rejected_total", "Payments rejected by a business rule", "{payments}"); err != nil {
		return nil, err
	}
	if lm.reversalsTotal, err = NewCounter(m, "ledger_payment_reversals_total", "Cancelled or refunded payments", "{payments}"); err != nil {
		return nil, err
	}
	if lm.invoicesTotal, err = NewCounter(m, "ledger_invoices_total", "Invoices recorded or cancelled", "{invoices}"); err != nil {
		return nil, err
	}
	if lm.retriesTotal, err = NewCounter(m, "ledger_transaction_retries_total", "Transactions retried after a conflict", "{retries}"); err != nil {
		return nil, err
	}
	if lm.replaysTotal, err = NewCounter(m, "ledger_idempotent_replays_total", "Requests answered from an earlier result", "{requests}"); err != nil {
		return nil, err
	}
	if lm.reconcileFailures, err = NewCounter(m, "ledger_reconciliation_failures_total", "Reconciliation checks that found violations", "{checks}"); err != nil {
		return nil, err
	}
	if lm.operationDuration, err = NewHistogram(m, HistogramOpts{
		Name:        "ledger_operation_duration_seconds",
		Description: "Duration of ledger operations including retries",
		Unit:        "s",
		Boundaries:  OperationDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if lm.outstandingBalance, err = NewFloatGauge(m, "ledger_outstanding_balance", "Sum of account balances", "{currency_unit}"); err != nil {
		return nil, err
	}
	if lm.outstandingAdvance, err = NewFloatGauge(m, "ledger_outstanding_advance", "Sum of unapplied advances", "{currency_unit}"); err != nil {
		return nil, err
	}
	return lm, nil
}

func mode(targeted bool) string {
	if targeted {
		return "targeted"
	}
	return "fifo"
}

// RecordPaymentApplied records the itemization of an applied payment.
func (lm *LedgerMetrics) RecordPaymentApplied(ctx context.Context, p PaymentObservation) {
	currency := AttrCurrency.String(p.Currency)
	lm.paymentsTotal.Inc(ctx, currency, AttrPaymentType.String(p.PaymentType), AttrMode.String(mode(p.Targeted)))
	lm.paymentAmountTotal.Add(ctx, p.Amount.InexactFloat64(), currency)
	lm.advanceUsedTotal.Add(ctx, p.AdvanceUsed.InexactFloat64(), currency)
	lm.excessDepositedTotal.Add(ctx, p.Excess.InexactFloat64(), currency)
}

// RecordPaymentRejected records a payment refused with a domain error code.
func (lm *LedgerMetrics) RecordPaymentRejected(ctx context.Context, currency, code string) {
	lm.paymentRejectedTotal.Inc(ctx, AttrCurrency.String(currency), AttrErrorCode.String(code))
}

// RecordPaymentReversed records a cancelled or refunded payment.
func (lm *LedgerMetrics) RecordPaymentReversed(ctx context.Context, currency, outcome string) {
	lm.reversalsTotal.Inc(ctx, AttrCurrency.String(currency), AttrOutcome.String(outcome))
}

// RecordInvoice records an invoice lifecycle event (recorded, cancelled).
func (lm *LedgerMetrics) RecordInvoice(ctx context.Context, currency, invoiceType, outcome string) {
	lm.invoicesTotal.Inc(ctx,
		AttrCurrency.String(currency),
		AttrInvoiceType.String(invoiceType),
		AttrOutcome.String(outcome),
	)
}

// RecordRetry records one re-execution of operation.
func (lm *LedgerMetrics) RecordRetry(ctx context.Context, operation string) {
	lm.retriesTotal.Inc(ctx, AttrOperation.String(operation))
}

// RecordReplay records a request served from its idempotency key.
func (lm *LedgerMetrics) RecordReplay(ctx context.Context, operation string) {
	lm.replaysTotal.Inc(ctx, AttrOperation.String(operation))
}

// RecordReconciliationFailure records a failed invariant check.
func (lm *LedgerMetrics) RecordReconciliationFailure(ctx context.Context, currency string) {
	lm.reconcileFailures.Inc(ctx, AttrCurrency.String(currency))
}

// RecordOperation records the duration and outcome of a ledger operation.
func (lm *LedgerMetrics) RecordOperation(ctx context.Context, operation string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	lm.operationDuration.RecordDuration(ctx, d, AttrOperation.String(operation), AttrOutcome.String(outcome))
}

// RecordTotals records outstanding balance and advance gauges.
func (lm *LedgerMetrics) RecordTotals(ctx context.Context, totals []CurrencyTotals) {
	for _, t := range totals {
		attr := AttrCurrency.String(t.Currency)
		lm.outstandingBalance.Record(ctx, t.Balance.InexactFloat64(), attr)
		lm.outstandingAdvance.Record(ctx, t.Advance.InexactFloat64(), attr)
	}
}

// StartPeriodicCollection polls the totals provider until Stop or ctx ends.
// It is a no-op without a provider and only starts once.
func (lm *LedgerMetrics) StartPeriodicCollection(ctx context.Context) {
	if lm.provider == nil {
		return
	}
	lm.collectOnce.Do(func() {
		go lm.runPeriodicCollection(ctx)
	})
}

func (lm *LedgerMetrics) runPeriodicCollection(ctx context.Context) {
	ticker := time.NewTicker(lm.interval)
	defer ticker.Stop()

	lm.collectTotals(ctx)
	for {
		select {
		case <-lm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			lm.collectTotals(ctx)
		}
	}
}

func (lm *LedgerMetrics) collectTotals(ctx context.Context) {
	totals, err := lm.provider.OutstandingTotals(ctx)
	if err != nil {
		lm.logger.Warn("Failed to collect outstanding ledger totals", zap.Error(err))
		return
	}
	lm.RecordTotals(ctx, totals)
}

// Stop stops the periodic collection.
func (lm *LedgerMetrics) Stop() {
	lm.stopOnce.Do(func() {
		close(lm.stopChan)
	})
}

// GormLedgerTotalsProvider sums ledger_accounts per currency.
type GormLedgerTotalsProvider struct {
	db *gorm.DB
}

// NewGormLedgerTotalsProvider creates a new GormLedgerTotalsProvider.
func NewGormLedgerTotalsProvider(db *gorm.DB) *GormLedgerTotalsProvider {
	return &GormLedgerTotalsProvider{db: db}
}

// OutstandingTotals implements LedgerTotalsProvider.
func (p *GormLedgerTotalsProvider) OutstandingTotals(ctx context.Context) ([]CurrencyTotals, error) {
	var rows []struct {
		Currency string          `gorm:"column:currency"`
		Balance  decimal.Decimal `gorm:"column:balance"`
		Advance  decimal.Decimal `gorm:"column:advance"`
	}
	err := p.db.WithContext(ctx).
		Table("ledger_accounts").
		Select("currency, COALESCE(SUM(balance), 0) AS balance, COALESCE(SUM(advance), 0) AS advance").
		Group("currency").
		Order("currency").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]CurrencyTotals, len(rows))
	for i, r := range rows {
		out[i] = CurrencyTotals{Currency: r.Currency, Balance: r.Balance, Advance: r.Advance}
	}
	return out, nil
}
