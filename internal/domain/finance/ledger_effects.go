package finance

import (
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// The functions in this file move a plan or a reversal onto the aggregates.
// Callers hold the per-(counterparty, currency) lock and persist the result;
// account is nil for anonymous invoices and payments.

// ApplySettlement applies a completed payment to its invoices and the ledger
// account, returning the invoices it changed.
//
// Untargeted payments consume the advance used and then Credit the whole
// amount: the balance equals the open debt, so the balance-first rule
// retires exactly the settled part and moves the excess to advance.
// Targeted payments use ConsumeAdvance, Settle and AddAdvance explicitly.
func ApplySettlement(account *partner.LedgerAccount, invoices []*Invoice, p *Payment, authorizeExcess bool) ([]*Invoice, error) {
	if err := checkAccount(account, p.CounterpartyID, p.Currency); err != nil {
		return nil, err
	}
	byID := indexInvoices(invoices)
	touched := make([]*Invoice, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		inv, ok := byID[a.InvoiceID]
		if !ok {
			return nil, shared.ErrNotFound.WithMessage("allocated invoice " + a.InvoiceID.String() + " not loaded")
		}
		if _, _, err := inv.ApplyPayment(valueobject.MoneyOf(a.Amount, p.Currency), authorizeExcess); err != nil {
			return nil, err
		}
		touched = append(touched, inv)
	}
	if account == nil {
		return touched, nil
	}

	src := partner.PaymentSource(p.ID)
	if p.AdvanceUsed.IsPositive() {
		if err := account.ConsumeAdvance(p.AdvanceUsedMoney(), src); err != nil {
			return nil, err
		}
	}
	if p.Targeted() {
		if settled := p.Settled(); settled.IsPositive() {
			if err := account.Settle(settled, src); err != nil {
				return nil, err
			}
		}
		if p.ExcessAmount.IsPositive() {
			if err := account.AddAdvance(p.ExcessMoney(), src); err != nil {
				return nil, err
			}
		}
		return touched, nil
	}
	if _, err := account.Credit(p.AmountMoney(), src); err != nil {
		return nil, err
	}
	return touched, nil
}

// ReverseSettlement takes a completed payment back off its invoices and the
// ledger account and marks it cancelled, or refunded when refund is set.
// It fails with INVOICE_CANCELLED if any allocated invoice was cancelled and
// with INSUFFICIENT_ADVANCE if the excess it created has been spent.
func ReverseSettlement(account *partner.LedgerAccount, invoices []*Invoice, p *Payment, refund bool) ([]*Invoice, error) {
	if !p.IsCompleted() {
		return nil, ErrPaymentNotCompleted
	}
	if err := checkAccount(account, p.CounterpartyID, p.Currency); err != nil {
		return nil, err
	}
	byID := indexInvoices(invoices)
	touched := make([]*Invoice, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		inv, ok := byID[a.InvoiceID]
		if !ok {
			return nil, shared.ErrNotFound.WithMessage("allocated invoice " + a.InvoiceID.String() + " not loaded")
		}
		if inv.Status == InvoiceStatusCancelled {
			return nil, ErrInvoiceCancelled.WithMessage(
				"payment touched invoice " + inv.Number + ", which has been cancelled")
		}
		if a.Amount.GreaterThan(inv.PaidAmount) {
			return nil, shared.ErrInvalidState.WithMessage("invoice " + inv.Number + " no longer carries this payment")
		}
		touched = append(touched, inv)
	}
	if account != nil && p.ExcessAmount.GreaterThan(account.Advance) {
		return nil, partner.ErrInsufficientAdvance.WithMessage(
			"the advance created by this payment has already been used")
	}

	// Nothing below can fail once the checks above have passed.
	for i, a := range p.Allocations {
		if err := touched[i].ReversePayment(valueobject.MoneyOf(a.Amount, p.Currency)); err != nil {
			return nil, err
		}
	}
	if account != nil {
		src := partner.Source{Type: partner.SourceTypePaymentReversal, ID: p.ID}
		if settled := p.Settled(); settled.IsPositive() {
			if err := account.Debit(settled, src); err != nil {
				return nil, err
			}
		}
		if p.ExcessAmount.IsPositive() {
			if err := account.ConsumeAdvance(p.ExcessMoney(), src); err != nil {
				return nil, err
			}
		}
		if p.AdvanceUsed.IsPositive() {
			if err := account.AddAdvance(p.AdvanceUsedMoney(), src); err != nil {
				return nil, err
			}
		}
	}

	var err error
	if refund {
		err = p.Refund()
	} else {
		err = p.Cancel()
	}
	if err != nil {
		return nil, err
	}
	return touched, nil
}

// RecordInvoiceDebit puts a newly recorded invoice's total on the account
func RecordInvoiceDebit(account *partner.LedgerAccount, inv *Invoice) error {
	if err := checkAccount(account, inv.CounterpartyID, inv.Currency); err != nil {
		return err
	}
	if account == nil {
		return nil
	}
	return account.Debit(inv.Total(), partner.InvoiceSource(inv.ID))
}

// CancelInvoice voids an invoice and releases it from the account: the
// outstanding debt leaves the balance and the paid part becomes advance.
func CancelInvoice(account *partner.LedgerAccount, inv *Invoice, reason string) (InvoiceCancellation, error) {
	if err := checkAccount(account, inv.CounterpartyID, inv.Currency); err != nil {
		return InvoiceCancellation{}, err
	}
	result, err := inv.Cancel(reason)
	if err != nil {
		return InvoiceCancellation{}, err
	}
	if account == nil {
		return result, nil
	}
	src := partner.Source{Type: partner.SourceTypeInvoiceCancellation, ID: inv.ID}
	if result.RemainingBefore.IsPositive() {
		if err := account.Settle(result.RemainingBefore, src); err != nil {
			return InvoiceCancellation{}, err
		}
	}
	if result.PaidBefore.IsPositive() {
		if err := account.AddAdvance(result.PaidBefore, src); err != nil {
			return InvoiceCancellation{}, err
		}
	}
	return result, nil
}

func checkAccount(account *partner.LedgerAccount, counterpartyID *uuid.UUID, currency valueobject.Currency) error {
	switch {
	case counterpartyID == nil && account == nil:
		return nil
	case counterpartyID == nil || account == nil:
		return shared.ErrInvalidState.WithMessage("ledger account does not match the document's counterparty")
	case account.CounterpartyID != *counterpartyID:
		return ErrInvoiceCounterpartyMismatch.WithMessage("ledger account belongs to another counterparty")
	case account.Currency != currency:
		return shared.ErrCurrencyMismatch.WithMessage("ledger account is in " + account.Currency.String())
	}
	return nil
}

func indexInvoices(invoices []*Invoice) map[uuid.UUID]*Invoice {
	byID := make(map[uuid.UUID]*Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}
	return byID
}
