package event

import (
	"context"
	"testing"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockLedgerRecorder struct {
	mock.Mock
}

func (m *MockLedgerRecorder) RecordPaymentApplied(ctx context.Context, p telemetry.PaymentObservation) {
	m.Called(ctx, p)
}

func (m *MockLedgerRecorder) RecordPaymentReversed(ctx context.Context, currency, outcome string) {
	m.Called(ctx, currency, outcome)
}

func (m *MockLedgerRecorder) RecordInvoice(ctx context.Context, currency, invoiceType, outcome string) {
	m.Called(ctx, currency, invoiceType, outcome)
}

func TestLedgerActivityHandler_RecordsMetrics(t *testing.T) {
	rec := new(MockLedgerRecorder)
	core, logs := observer.New(zap.InfoLevel)
	h := NewLedgerActivityHandler(rec, nil, zap.New(core))

	cpID := uuid.New()
	applied := &finance.PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentApplied, finance.AggregateTypePayment, uuid.New()),
		Type:            finance.PaymentTypeCustomer,
		CounterpartyID:  &cpID,
		Currency:        valueobject.USD,
		Amount:          decimal.RequireFromString("200"),
		AdvanceUsed:     decimal.RequireFromString("50"),
		DirectAmount:    decimal.RequireFromString("100"),
		ExcessAmount:    decimal.RequireFromString("50"),
		Targeted:        true,
	}
	rec.On("RecordPaymentApplied", mock.Anything, telemetry.PaymentObservation{
		Currency:    "USD",
		PaymentType: "customer",
		Targeted:    true,
		Amount:      applied.Amount,
		AdvanceUsed: applied.AdvanceUsed,
		Direct:      applied.DirectAmount,
		Excess:      applied.ExcessAmount,
	}).Once()

	reversed := &finance.PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentReversed, finance.AggregateTypePayment, uuid.New()),
		Currency:        valueobject.IQD,
		Status:          finance.PaymentStatusRefunded,
	}
	rec.On("RecordPaymentReversed", mock.Anything, "IQD", "refunded").Once()

	cancelled := &finance.InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypeInvoiceCancelled, finance.AggregateTypeInvoice, uuid.New()),
		Type:            finance.InvoiceTypePurchase,
		Currency:        valueobject.IQD,
	}
	rec.On("RecordInvoice", mock.Anything, "IQD", "purchase", "cancelled").Once()

	for _, e := range []shared.DomainEvent{applied, reversed, cancelled} {
		require.NoError(t, h.Handle(context.Background(), e))
	}

	rec.AssertExpectations(t)
	require.Equal(t, 3, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ledger activity", entry.Message)
	assert.Equal(t, finance.EventTypePaymentApplied, entry.ContextMap()["event_type"])
	assert.Contains(t, entry.ContextMap()["payload"], `"excess_amount":"50"`)
}

func TestLedgerActivityHandler_WithoutRecorder(t *testing.T) {
	h := NewLedgerActivityHandler(nil, nil, nil)
	evt := &partner.CounterpartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(partner.EventTypeCounterpartyCreated, partner.AggregateTypeCounterparty, uuid.New()),
		Kind:            partner.KindCustomer,
		Name:            "Ali",
	}
	assert.NoError(t, h.Handle(context.Background(), evt))
}

func TestLedgerActivityHandler_SubscribedThroughBus(t *testing.T) {
	rec := new(MockLedgerRecorder)
	rec.On("RecordInvoice", mock.Anything, "USD", "sale", "recorded").Once()

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewLedgerActivityHandler(rec, NewLedgerEventSerializer(), zap.NewNop()))

	recorded := &finance.InvoiceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypeInvoiceRecorded, finance.AggregateTypeInvoice, uuid.New()),
		Type:            finance.InvoiceTypeSale,
		Currency:        valueobject.USD,
		TotalAmount:     decimal.RequireFromString("75.25"),
	}
	require.NoError(t, bus.Publish(context.Background(), recorded, newTestEvent("Unrelated")))
	rec.AssertExpectations(t)
}

func TestEventSerializer_LedgerEvents(t *testing.T) {
	s := NewLedgerEventSerializer()
	assert.Len(t, s.RegisteredTypes(), 11)
	assert.True(t, s.IsRegistered(partner.EventTypeLedgerBalanceChanged))

	cpID := uuid.New()
	original := &partner.LedgerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(partner.EventTypeLedgerBalanceChanged, partner.AggregateTypeLedgerAccount, uuid.New()),
		CounterpartyID:  cpID,
		Currency:        valueobject.IQD,
		Kind:            partner.EntryKindCredit,
		Amount:          decimal.NewFromInt(25000),
		BalanceAfter:    decimal.Zero,
		AdvanceAfter:    decimal.NewFromInt(5000),
		SourceType:      partner.SourceTypePayment,
		SourceID:        uuid.New(),
	}
	data, err := s.Serialize(original)
	require.NoError(t, err)

	decoded, err := s.Deserialize(partner.EventTypeLedgerBalanceChanged, data)
	require.NoError(t, err)
	got, ok := decoded.(*partner.LedgerBalanceChangedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), got.EventID())
	assert.Equal(t, cpID, got.CounterpartyID)
	assert.True(t, original.AdvanceAfter.Equal(got.AdvanceAfter))
	assert.Equal(t, partner.SourceTypePayment, got.SourceType)

	_, err = s.Deserialize("Nope", data)
	assert.ErrorContains(t, err, "unknown event type")
	_, err = s.Deserialize(partner.EventTypeLedgerBalanceChanged, []byte("{"))
	assert.ErrorContains(t, err, "failed to unmarshal")
}
