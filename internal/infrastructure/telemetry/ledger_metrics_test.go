package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func intSum(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	var total int64
	for _, dp := range sum.DataPoints {
		if len(attrs) == 0 || dp.Attributes.Equals(&want) {
			total += dp.Value
		}
	}
	return total
}

func floatSum(t *testing.T, m metricdata.Metrics) float64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[float64])
	require.True(t, ok, "%s is not a float64 sum", m.Name)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewLedgerMetrics_NilMeter(t *testing.T) {
	lm, err := NewLedgerMetrics(LedgerMetricsConfig{})
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, lm)
}

func TestLedgerMetrics_RecordPaymentApplied(t *testing.T) {
	reader, mp := newTestMeter(t)
	lm, err := NewLedgerMetrics(LedgerMetricsConfig{Meter: mp.Meter("test")})
	require.NoError(t, err)
	ctx := context.Background()

	lm.RecordPaymentApplied(ctx, PaymentObservation{
		Currency:    "IQD",
		PaymentType: "customer",
		Targeted:    true,
		Amount:      decimal.NewFromInt(150000),
		AdvanceUsed: decimal.NewFromInt(20000),
		Direct:      decimal.NewFromInt(100000),
		Excess:      decimal.NewFromInt(50000),
	})
	lm.RecordPaymentApplied(ctx, PaymentObservation{
		Currency:    "USD",
		PaymentType: "supplier",
		Amount:      decimal.RequireFromString("12.50"),
		Direct:      decimal.RequireFromString("12.50"),
	})

	metrics := collect(t, reader)
	payments := metrics["ledger_payments_total"]
	assert.Equal(t, int64(2), intSum(t, payments))
	assert.Equal(t, int64(1), intSum(t, payments,
		AttrCurrency.String("IQD"), AttrPaymentType.String("customer"), AttrMode.String("targeted")))
	assert.Equal(t, int64(1), intSum(t, payments,
		AttrCurrency.String("USD"), AttrPaymentType.String("supplier"), AttrMode.String("fifo")))

	assert.InDelta(t, 150012.5, floatSum(t, metrics["ledger_payment_amount_total"]), 0.001)
	assert.InDelta(t, 50000, floatSum(t, metrics["ledger_excess_deposited_total"]), 0.001)
	assert.InDelta(t, 20000, floatSum(t, metrics["ledger_advance_used_total"]), 0.001)
}

func TestLedgerMetrics_Counters(t *testing.T) {
	reader, mp := newTestMeter(t)
	lm, err := NewLedgerMetrics(LedgerMetricsConfig{Meter: mp.Meter("test")})
	require.NoError(t, err)
	ctx := context.Background()

	lm.RecordPaymentRejected(ctx, "IQD", "OVERPAYMENT_NOT_ALLOWED")
	lm.RecordPaymentReversed(ctx, "USD", "refunded")
	lm.RecordInvoice(ctx, "IQD", "sale", "recorded")
	lm.RecordInvoice(ctx, "IQD", "sale", "cancelled")
	lm.RecordRetry(ctx, "apply_payment")
	lm.RecordRetry(ctx, "apply_payment")
	lm.RecordReplay(ctx, "apply_payment")
	lm.RecordReconciliationFailure(ctx, "IQD")
	lm.RecordOperation(ctx, "apply_payment", 12*time.Millisecond, nil)
	lm.RecordOperation(ctx, "apply_payment", 3*time.Millisecond, errors.New("boom"))

	metrics := collect(t, reader)
	assert.Equal(t, int64(1), intSum(t, metrics["ledger_payments_rejected_total"],
		AttrCurrency.String("IQD"), AttrErrorCode.String("OVERPAYMENT_NOT_ALLOWED")))
	assert.Equal(t, int64(1), intSum(t, metrics["ledger_payment_reversals_total"]))
	assert.Equal(t, int64(2), intSum(t, metrics["ledger_invoices_total"]))
	assert.Equal(t, int64(2), intSum(t, metrics["ledger_transaction_retries_total"]))
	assert.Equal(t, int64(1), intSum(t, metrics["ledger_idempotent_replays_total"]))
	assert.Equal(t, int64(1), intSum(t, metrics["ledger_reconciliation_failures_total"]))

	hist, ok := metrics["ledger_operation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2, "one series per outcome")
}

type staticTotals []CurrencyTotals

func (s staticTotals) OutstandingTotals(context.Context) ([]CurrencyTotals, error) {
	return s, nil
}

func TestLedgerMetrics_PeriodicCollection(t *testing.T) {
	reader, mp := newTestMeter(t)
	lm, err := NewLedgerMetrics(LedgerMetricsConfig{
		Meter:           mp.Meter("test"),
		Logger:          zap.NewNop(),
		CollectInterval: time.Hour,
		TotalsProvider: staticTotals{
			{Currency: "IQD", Balance: decimal.NewFromInt(250000), Advance: decimal.NewFromInt(1000)},
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lm.StartPeriodicCollection(ctx)
	defer lm.Stop()

	assert.Eventually(t, func() bool {
		m, ok := collect(t, reader)["ledger_outstanding_balance"]
		if !ok {
			return false
		}
		g := m.Data.(metricdata.Gauge[float64])
		return len(g.DataPoints) == 1 && g.DataPoints[0].Value == 250000
	}, time.Second, 10*time.Millisecond)

	lm.Stop()
	lm.Stop()
}

func TestGormLedgerTotalsProvider(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE ledger_accounts (currency TEXT, balance NUMERIC, advance NUMERIC)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO ledger_accounts VALUES ('IQD', 1000, 0), ('IQD', 500, 250), ('USD', 12.5, 0)`).Error)

	totals, err := NewGormLedgerTotalsProvider(db).OutstandingTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "IQD", totals[0].Currency)
	assert.True(t, totals[0].Balance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, totals[0].Advance.Equal(decimal.NewFromInt(250)))
	assert.True(t, totals[1].Balance.Equal(decimal.RequireFromString("12.5")))
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader, mp := newTestMeter(t)
	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(4)

	reg, err := RegisterDBPoolMetrics(mp.Meter("test"), sqlDB)
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	metrics := collect(t, reader)
	gauge, ok := metrics["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(4), gauge.DataPoints[0].Value)
	assert.Contains(t, metrics, "db_pool_connections")
}
