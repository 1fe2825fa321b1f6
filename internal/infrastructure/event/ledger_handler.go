package event

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LedgerRecorder receives ledger activity derived from committed events.
// *telemetry.LedgerMetrics implements it.
type LedgerRecorder interface {
	RecordPaymentApplied(ctx context.Context, p telemetry.PaymentObservation)
	RecordPaymentReversed(ctx context.Context, currency, outcome string)
	RecordInvoice(ctx context.Context, currency, invoiceType, outcome string)
}

// LedgerActivityHandler turns committed ledger events into metrics and an
// activity log line carrying the serialized event.
type LedgerActivityHandler struct {
	recorder   LedgerRecorder
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewLedgerActivityHandler creates the handler. recorder may be nil when
// metrics are disabled.
func NewLedgerActivityHandler(recorder LedgerRecorder, serializer *EventSerializer, log *zap.Logger) *LedgerActivityHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if serializer == nil {
		serializer = NewLedgerEventSerializer()
	}
	return &LedgerActivityHandler{recorder: recorder, serializer: serializer, logger: log}
}

// EventTypes lists the events this handler consumes
func (h *LedgerActivityHandler) EventTypes() []string {
	return []string{
		finance.EventTypePaymentApplied,
		finance.EventTypePaymentReversed,
		finance.EventTypeInvoiceRecorded,
		finance.EventTypeInvoiceCancelled,
		partner.EventTypeLedgerBalanceChanged,
		partner.EventTypeCounterpartyCreated,
		partner.EventTypeCounterpartyStatusChanged,
		partner.EventTypeCounterpartyDeleted,
	}
}

// Handle records metrics for the event and writes it to the activity log
func (h *LedgerActivityHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.recorder != nil {
		h.record(ctx, event)
	}

	log := logger.L(logger.WithContext(ctx, h.logger))
	payload, err := h.serializer.Serialize(event)
	if err != nil {
		return err
	}
	log.Info("ledger activity",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.ByteString("payload", payload),
	)
	return nil
}

func (h *LedgerActivityHandler) record(ctx context.Context, event shared.DomainEvent) {
	switch e := event.(type) {
	case *finance.PaymentAppliedEvent:
		h.recorder.RecordPaymentApplied(ctx, telemetry.PaymentObservation{
			Currency:    string(e.Currency),
			PaymentType: string(e.Type),
			Targeted:    e.Targeted,
			Amount:      e.Amount,
			AdvanceUsed: e.AdvanceUsed,
			Direct:      e.DirectAmount,
			Excess:      e.ExcessAmount,
		})
	case *finance.PaymentReversedEvent:
		h.recorder.RecordPaymentReversed(ctx, string(e.Currency), string(e.Status))
	case *finance.InvoiceRecordedEvent:
		h.recorder.RecordInvoice(ctx, string(e.Currency), string(e.Type), "recorded")
	case *finance.InvoiceCancelledEvent:
		h.recorder.RecordInvoice(ctx, string(e.Currency), string(e.Type), "cancelled")
	}
}

var _ shared.EventHandler = (*LedgerActivityHandler)(nil)
