package finance

import (
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementRequest describes one payment to apply
type SettlementRequest struct {
	Type            PaymentType
	CounterpartyID  *uuid.UUID
	Amount          valueobject.Money
	UseAdvance      bool
	TargetInvoiceID *uuid.UUID
	// AuthorizeExcess allows a targeted payment larger than the invoice's
	// remaining amount; the excess becomes advance.
	AuthorizeExcess bool
	IdempotencyKey  string
	Note            string
}

// Anonymous returns true if no counterparty is named
func (r SettlementRequest) Anonymous() bool {
	return r.CounterpartyID == nil
}

// Validate checks the request on its own, before any state is read.
// A zero or negative amount is always the first thing rejected.
func (r SettlementRequest) Validate() error {
	if err := r.Amount.RequirePositive(); err != nil {
		return err
	}
	if !r.Amount.Currency().IsValid() {
		return shared.ErrInvalidCurrency
	}
	if !r.Type.IsValid() {
		return shared.ErrInvalidInput.WithMessage("payment type must be customer or supplier")
	}
	if r.CounterpartyID != nil && *r.CounterpartyID == uuid.Nil {
		return shared.ErrInvalidInput.WithMessage("counterparty id is invalid")
	}
	if r.Anonymous() {
		if r.TargetInvoiceID == nil {
			return ErrAnonymousTargetRequired
		}
		if r.UseAdvance {
			return ErrAnonymousAdvanceRejected
		}
	}
	if len(r.IdempotencyKey) > 100 {
		return shared.ErrInvalidInput.WithMessage("idempotency key cannot exceed 100 characters")
	}
	return nil
}

// SettlementPlan is the computed split of a payment. It is pure data; the
// caller applies it to the ledger account and invoices.
type SettlementPlan struct {
	Currency       valueobject.Currency
	Amount         valueobject.Money
	EffectiveTotal valueobject.Money
	AdvanceUsed    valueobject.Money
	DirectAmount   valueobject.Money
	ExcessAmount   valueobject.Money
	Allocations    []Allocation
	Targeted       bool
}

// Settled returns advance used plus direct amount
func (p *SettlementPlan) Settled() valueobject.Money {
	return p.AdvanceUsed.MustAdd(p.DirectAmount)
}

// PlanSettlement decides how a payment splits into advance used, direct
// settlement and excess.
//
// advance is the counterparty's current unapplied advance in the payment
// currency (zero for anonymous payments). invoices holds the target invoice
// for a targeted payment, or the counterparty's open invoices otherwise;
// the planner orders them itself.
//
// The split is:
//
//	effective_total = remaining of the target, or the sum over open invoices
//	advance_used    = use_advance ? min(advance, effective_total, amount) : 0
//	direct_amount   = min(amount - advance_used, effective_total - advance_used)
//	excess_amount   = amount - advance_used - direct_amount
func PlanSettlement(req SettlementRequest, advance valueobject.Money, invoices []*Invoice) (*SettlementPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	currency := req.Amount.Currency()
	if err := req.Amount.SameCurrency(advance); err != nil {
		return nil, err
	}

	var candidates []*Invoice
	if req.TargetInvoiceID != nil {
		target, err := findTarget(req, invoices)
		if err != nil {
			return nil, err
		}
		candidates = []*Invoice{target}
	} else {
		for _, inv := range invoices {
			if inv.IsOpen() && inv.Currency == currency && inv.BelongsTo(*req.CounterpartyID) &&
				inv.Type == req.Type.InvoiceType() {
				candidates = append(candidates, inv)
			}
		}
		candidates = SortForAllocation(candidates)
	}

	effectiveTotal := decimal.Zero
	for _, inv := range candidates {
		effectiveTotal = effectiveTotal.Add(inv.RemainingAmount)
	}

	amount := req.Amount.Amount()
	advanceUsed := decimal.Zero
	if req.UseAdvance && !req.Anonymous() {
		advanceUsed = decimal.Min(advance.Amount(), effectiveTotal, amount)
	}
	cash := amount.Sub(advanceUsed)
	direct := decimal.Min(cash, effectiveTotal.Sub(advanceUsed))
	excess := cash.Sub(direct)

	if excess.IsPositive() {
		switch {
		case req.Anonymous():
			return nil, ErrAnonymousAdvanceRejected.WithMessage(
				fmt.Sprintf("payment exceeds the anonymous invoice by %s", valueobject.MoneyOf(excess, currency)))
		case req.TargetInvoiceID != nil && !req.AuthorizeExcess:
			return nil, ErrOverpaymentNotAllowed.WithMessage(
				fmt.Sprintf("payment of %s exceeds the %s owed on the invoice by %s",
					req.Amount, valueobject.MoneyOf(effectiveTotal, currency), valueobject.MoneyOf(excess, currency)))
		}
	}

	return &SettlementPlan{
		Currency:       currency,
		Amount:         req.Amount,
		EffectiveTotal: valueobject.MoneyOf(effectiveTotal, currency),
		AdvanceUsed:    valueobject.MoneyOf(advanceUsed, currency),
		DirectAmount:   valueobject.MoneyOf(direct, currency),
		ExcessAmount:   valueobject.MoneyOf(excess, currency),
		Allocations:    allocate(candidates, advanceUsed, direct),
		Targeted:       req.TargetInvoiceID != nil,
	}, nil
}

func findTarget(req SettlementRequest, invoices []*Invoice) (*Invoice, error) {
	var target *Invoice
	for _, inv := range invoices {
		if inv.ID == *req.TargetInvoiceID {
			target = inv
			break
		}
	}
	if target == nil {
		return nil, shared.ErrNotFound.WithMessage("target invoice not found")
	}
	if target.Currency != req.Amount.Currency() {
		return nil, shared.ErrCurrencyMismatch.WithMessage(
			fmt.Sprintf("invoice %s is in %s, payment is in %s", target.Number, target.Currency, req.Amount.Currency()))
	}
	if target.Type != req.Type.InvoiceType() {
		return nil, ErrInvoiceTypeMismatch
	}
	if req.Anonymous() {
		if !target.IsAnonymous() {
			return nil, ErrAnonymousTargetRequired.WithMessage("invoice " + target.Number + " belongs to a counterparty")
		}
	} else if !target.BelongsTo(*req.CounterpartyID) {
		return nil, ErrInvoiceCounterpartyMismatch
	}
	if !target.IsOpen() {
		return nil, ErrInvoiceNotOpen.WithMessage(fmt.Sprintf("invoice %s is %s", target.Number, target.Status))
	}
	return target, nil
}
