package finance

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypePaymentApplied  = "PaymentApplied"
	EventTypePaymentReversed = "PaymentReversed"
)

// PaymentAppliedEvent is published when a payment has been applied
type PaymentAppliedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID            `json:"payment_id"`
	Type           PaymentType          `json:"type"`
	CounterpartyID *uuid.UUID           `json:"counterparty_id,omitempty"`
	Currency       valueobject.Currency `json:"currency"`
	Amount         decimal.Decimal      `json:"amount"`
	AdvanceUsed    decimal.Decimal      `json:"advance_used"`
	DirectAmount   decimal.Decimal      `json:"direct_amount"`
	ExcessAmount   decimal.Decimal      `json:"excess_amount"`
	Targeted       bool                 `json:"targeted"`
}

// NewPaymentAppliedEvent creates a new PaymentAppliedEvent
func NewPaymentAppliedEvent(p *Payment) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentApplied, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		Type:            p.Type,
		CounterpartyID:  p.CounterpartyID,
		Currency:        p.Currency,
		Amount:          p.Amount,
		AdvanceUsed:     p.AdvanceUsed,
		DirectAmount:    p.DirectAmount,
		ExcessAmount:    p.ExcessAmount,
		Targeted:        p.Targeted(),
	}
}

// PaymentReversedEvent is published when a payment is cancelled or refunded
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	PaymentID      uuid.UUID            `json:"payment_id"`
	CounterpartyID *uuid.UUID           `json:"counterparty_id,omitempty"`
	Currency       valueobject.Currency `json:"currency"`
	Amount         decimal.Decimal      `json:"amount"`
	Status         PaymentStatus        `json:"status"`
}

// NewPaymentReversedEvent creates a new PaymentReversedEvent
func NewPaymentReversedEvent(p *Payment) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentReversed, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		CounterpartyID:  p.CounterpartyID,
		Currency:        p.Currency,
		Amount:          p.Amount,
		Status:          p.Status,
	}
}
