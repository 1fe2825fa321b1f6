package finance

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes money received from customers from money paid to suppliers
type PaymentType string

const (
	PaymentTypeCustomer PaymentType = "customer"
	PaymentTypeSupplier PaymentType = "supplier"
)

// IsValid returns true if the payment type is valid
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeCustomer || t == PaymentTypeSupplier
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// InvoiceType returns the invoice type this payment settles
func (t PaymentType) InvoiceType() InvoiceType {
	if t == PaymentTypeSupplier {
		return InvoiceTypePurchase
	}
	return InvoiceTypeSale
}

// CounterpartyKind returns the kind of counterparty making or receiving the payment
func (t PaymentType) CounterpartyKind() partner.Kind {
	return t.InvoiceType().CounterpartyKind()
}

// PaymentTypeFor returns the payment type settling invoices of type t
func PaymentTypeFor(t InvoiceType) PaymentType {
	if t == InvoiceTypePurchase {
		return PaymentTypeSupplier
	}
	return PaymentTypeCustomer
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusPending is stored for externally captured payments; the
	// settlement engine never produces it.
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Allocation is the part of a payment applied to one invoice
type Allocation struct {
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	FromAdvance decimal.Decimal `json:"from_advance"`
	FromCash    decimal.Decimal `json:"from_cash"`
}

// Payment is one settlement action. The itemized AdvanceUsed, DirectAmount
// and ExcessAmount always add up to Amount and are kept as the audit trail;
// only the status changes after creation.
type Payment struct {
	shared.BaseAggregateRoot
	Type            PaymentType
	CounterpartyID  *uuid.UUID // nil only for payments on anonymous sales
	TargetInvoiceID *uuid.UUID
	Currency        valueobject.Currency
	Amount          decimal.Decimal
	AdvanceUsed     decimal.Decimal
	DirectAmount    decimal.Decimal
	ExcessAmount    decimal.Decimal
	Allocations     []Allocation
	Status          PaymentStatus
	IdempotencyKey  *string
	Note            string
	CancelledAt     *time.Time
}

// NewPayment records a completed payment from a settlement plan
func NewPayment(req SettlementRequest, plan *SettlementPlan) (*Payment, error) {
	if plan == nil {
		return nil, shared.ErrInvalidInput.WithMessage("settlement plan is required")
	}
	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              req.Type,
		CounterpartyID:    req.CounterpartyID,
		TargetInvoiceID:   req.TargetInvoiceID,
		Currency:          plan.Currency,
		Amount:            plan.Amount.Amount(),
		AdvanceUsed:       plan.AdvanceUsed.Amount(),
		DirectAmount:      plan.DirectAmount.Amount(),
		ExcessAmount:      plan.ExcessAmount.Amount(),
		Allocations:       append([]Allocation(nil), plan.Allocations...),
		Status:            PaymentStatusCompleted,
		Note:              req.Note,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		p.IdempotencyKey = &key
	}
	if err := p.CheckItemization(); err != nil {
		return nil, shared.ErrInvalidState.WithMessage(err.Error())
	}
	p.AddDomainEvent(NewPaymentAppliedEvent(p))
	return p, nil
}

// Matches reports whether req asks for the payment p recorded: same type,
// counterparty, amount and target invoice.
func (p *Payment) Matches(req SettlementRequest) bool {
	return p.Type == req.Type &&
		sameID(p.CounterpartyID, req.CounterpartyID) &&
		sameID(p.TargetInvoiceID, req.TargetInvoiceID) &&
		p.AmountMoney().Equals(req.Amount)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// IsCompleted returns true if the payment counts towards balances
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// Targeted returns true if the payment was aimed at a single invoice
func (p *Payment) Targeted() bool {
	return p.TargetInvoiceID != nil
}

// Settled returns the part of the payment applied to invoices
func (p *Payment) Settled() valueobject.Money {
	return p.money(p.AdvanceUsed.Add(p.DirectAmount))
}

// AmountMoney returns the tendered amount as Money
func (p *Payment) AmountMoney() valueobject.Money { return p.money(p.Amount) }

// AdvanceUsedMoney returns the consumed advance as Money
func (p *Payment) AdvanceUsedMoney() valueobject.Money { return p.money(p.AdvanceUsed) }

// DirectMoney returns the direct amount as Money
func (p *Payment) DirectMoney() valueobject.Money { return p.money(p.DirectAmount) }

// ExcessMoney returns the excess amount as Money
func (p *Payment) ExcessMoney() valueobject.Money { return p.money(p.ExcessAmount) }

// Cancel voids a completed payment. Balance reversal is done by the caller.
func (p *Payment) Cancel() error {
	return p.reverse(PaymentStatusCancelled)
}

// Refund marks a completed payment as returned to the payer
func (p *Payment) Refund() error {
	return p.reverse(PaymentStatusRefunded)
}

func (p *Payment) reverse(to PaymentStatus) error {
	if p.Status != PaymentStatusCompleted {
		return ErrPaymentNotCompleted.WithMessage(fmt.Sprintf("payment is %s", p.Status))
	}
	now := time.Now()
	p.Status = to
	p.CancelledAt = &now
	p.Touch()
	p.AddDomainEvent(NewPaymentReversedEvent(p))
	return nil
}

// CheckItemization verifies that the parts add up to the amount and the
// allocation lines add up to the settled part
func (p *Payment) CheckItemization() error {
	for _, part := range []decimal.Decimal{p.Amount, p.AdvanceUsed, p.DirectAmount, p.ExcessAmount} {
		if part.IsNegative() {
			return fmt.Errorf("payment parts must not be negative")
		}
	}
	parts := p.AdvanceUsed.Add(p.DirectAmount).Add(p.ExcessAmount)
	if !parts.Equal(p.Amount) {
		return fmt.Errorf("advance_used + direct_amount + excess_amount = %s, amount = %s", parts, p.Amount)
	}
	allocated, fromAdvance, fromCash := decimal.Zero, decimal.Zero, decimal.Zero
	for _, a := range p.Allocations {
		if !a.FromAdvance.Add(a.FromCash).Equal(a.Amount) {
			return fmt.Errorf("allocation to %s does not add up", a.InvoiceID)
		}
		allocated = allocated.Add(a.Amount)
		fromAdvance = fromAdvance.Add(a.FromAdvance)
		fromCash = fromCash.Add(a.FromCash)
	}
	if !allocated.Equal(p.AdvanceUsed.Add(p.DirectAmount)) {
		return fmt.Errorf("allocations total %s, settled part is %s", allocated, p.AdvanceUsed.Add(p.DirectAmount))
	}
	if !fromAdvance.Equal(p.AdvanceUsed) || !fromCash.Equal(p.DirectAmount) {
		return fmt.Errorf("allocation funding does not match advance_used and direct_amount")
	}
	return nil
}

func (p *Payment) money(d decimal.Decimal) valueobject.Money {
	return valueobject.MoneyOf(d, p.Currency)
}
