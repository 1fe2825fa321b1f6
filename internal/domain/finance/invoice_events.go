package finance

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice = "Invoice"
	AggregateTypePayment = "Payment"
)

// Event type constants
const (
	EventTypeInvoiceRecorded        = "InvoiceRecorded"
	EventTypeInvoicePaymentApplied  = "InvoicePaymentApplied"
	EventTypeInvoicePaymentReversed = "InvoicePaymentReversed"
	EventTypeInvoiceCancelled       = "InvoiceCancelled"
)

// InvoiceRecordedEvent is published when a sale or purchase is recorded
type InvoiceRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID            `json:"invoice_id"`
	Number         string               `json:"number"`
	Type           InvoiceType          `json:"type"`
	CounterpartyID *uuid.UUID           `json:"counterparty_id,omitempty"`
	Currency       valueobject.Currency `json:"currency"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
}

// NewInvoiceRecordedEvent creates a new InvoiceRecordedEvent
func NewInvoiceRecordedEvent(inv *Invoice) *InvoiceRecordedEvent {
	return &InvoiceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceRecorded, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		Type:            inv.Type,
		CounterpartyID:  inv.CounterpartyID,
		Currency:        inv.Currency,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoicePaymentAppliedEvent is published when a payment settles part or all of an invoice
type InvoicePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID            `json:"invoice_id"`
	Currency        valueobject.Currency `json:"currency"`
	Amount          decimal.Decimal      `json:"amount"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
	Status          InvoiceStatus        `json:"status"`
}

// NewInvoicePaymentAppliedEvent creates a new InvoicePaymentAppliedEvent
func NewInvoicePaymentAppliedEvent(inv *Invoice, amount valueobject.Money) *InvoicePaymentAppliedEvent {
	return &InvoicePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentApplied, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Currency:        inv.Currency,
		Amount:          amount.Amount(),
		RemainingAmount: inv.RemainingAmount,
		Status:          inv.Status,
	}
}

// InvoicePaymentReversedEvent is published when a payment is taken back off an invoice
type InvoicePaymentReversedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID            `json:"invoice_id"`
	Currency        valueobject.Currency `json:"currency"`
	Amount          decimal.Decimal      `json:"amount"`
	RemainingAmount decimal.Decimal      `json:"remaining_amount"`
}

// NewInvoicePaymentReversedEvent creates a new InvoicePaymentReversedEvent
func NewInvoicePaymentReversedEvent(inv *Invoice, amount valueobject.Money) *InvoicePaymentReversedEvent {
	return &InvoicePaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentReversed, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Currency:        inv.Currency,
		Amount:          amount.Amount(),
		RemainingAmount: inv.RemainingAmount,
	}
}

// InvoiceCancelledEvent is published when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID            `json:"invoice_id"`
	Type            InvoiceType          `json:"type"`
	CounterpartyID  *uuid.UUID           `json:"counterparty_id,omitempty"`
	Currency        valueobject.Currency `json:"currency"`
	RemainingBefore decimal.Decimal      `json:"remaining_before"`
	PaidBefore      decimal.Decimal      `json:"paid_before"`
	Reason          string               `json:"reason,omitempty"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, c InvoiceCancellation) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID),
		InvoiceID:       inv.ID,
		Type:            inv.Type,
		CounterpartyID:  inv.CounterpartyID,
		Currency:        inv.Currency,
		RemainingBefore: c.RemainingBefore.Amount(),
		PaidBefore:      c.PaidBefore.Amount(),
		Reason:          inv.CancelReason,
	}
}
