package partner

import (
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAccount holds what one counterparty owes in one currency.
//
// Balance is the debt still owed to the business on open invoices and
// Advance is credit the counterparty has prepaid or overpaid. Both are
// non-negative; Net = Balance - Advance is the single signed position used
// by reconciliation. LedgerAccount is the only place either field changes.
type LedgerAccount struct {
	shared.BaseAggregateRoot
	CounterpartyID uuid.UUID
	Currency       valueobject.Currency
	Balance        decimal.Decimal
	Advance        decimal.Decimal

	pendingEntries []*LedgerEntry
}

// NewLedgerAccount opens an empty account for a counterparty and currency
func NewLedgerAccount(counterpartyID uuid.UUID, currency valueobject.Currency) (*LedgerAccount, error) {
	if counterpartyID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("counterparty id is required")
	}
	if !currency.IsValid() {
		return nil, shared.ErrInvalidCurrency
	}
	return &LedgerAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CounterpartyID:    counterpartyID,
		Currency:          currency,
		Balance:           decimal.Zero,
		Advance:           decimal.Zero,
	}, nil
}

// CreditSplit reports how a Credit was divided
type CreditSplit struct {
	BalanceReduced valueobject.Money
	AdvanceAdded   valueobject.Money
}

// Debit increases the balance. It never touches the advance.
func (a *LedgerAccount) Debit(amount valueobject.Money, src Source) error {
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	a.record(EntryKindDebit, amount.Amount(), src, func() {
		a.Balance = a.Balance.Add(amount.Amount())
	})
	return nil
}

// Credit applies an untargeted payment: the balance is reduced down to zero
// first and whatever is left becomes advance.
func (a *LedgerAccount) Credit(amount valueobject.Money, src Source) (CreditSplit, error) {
	if err := a.checkAmount(amount); err != nil {
		return CreditSplit{}, err
	}
	reduced := decimal.Min(a.Balance, amount.Amount())
	added := amount.Amount().Sub(reduced)
	a.record(EntryKindCredit, amount.Amount(), src, func() {
		a.Balance = a.Balance.Sub(reduced)
		a.Advance = a.Advance.Add(added)
	})
	return CreditSplit{
		BalanceReduced: valueobject.MoneyOf(reduced, a.Currency),
		AdvanceAdded:   valueobject.MoneyOf(added, a.Currency),
	}, nil
}

// Settle reduces the balance by a targeted settlement
func (a *LedgerAccount) Settle(amount valueobject.Money, src Source) error {
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	if amount.Amount().GreaterThan(a.Balance) {
		return ErrSettlementExceedsBalance.WithMessage(
			fmt.Sprintf("cannot settle %s against a balance of %s", amount, a.money(a.Balance)))
	}
	a.record(EntryKindSettle, amount.Amount(), src, func() {
		a.Balance = a.Balance.Sub(amount.Amount())
	})
	return nil
}

// AddAdvance deposits credit without touching the balance
func (a *LedgerAccount) AddAdvance(amount valueobject.Money, src Source) error {
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	a.record(EntryKindAddAdvance, amount.Amount(), src, func() {
		a.Advance = a.Advance.Add(amount.Amount())
	})
	return nil
}

// ConsumeAdvance draws down the advance
func (a *LedgerAccount) ConsumeAdvance(amount valueobject.Money, src Source) error {
	if err := a.checkAmount(amount); err != nil {
		return err
	}
	if amount.Amount().GreaterThan(a.Advance) {
		return ErrInsufficientAdvance.WithMessage(
			fmt.Sprintf("cannot use %s, only %s available", amount, a.money(a.Advance)))
	}
	a.record(EntryKindConsumeAdvance, amount.Amount(), src, func() {
		a.Advance = a.Advance.Sub(amount.Amount())
	})
	return nil
}

// Snapshot returns a read-only view of the account
func (a *LedgerAccount) Snapshot() BalanceSnapshot {
	return NewBalanceSnapshot(a.CounterpartyID, a.money(a.Balance), a.money(a.Advance))
}

// BalanceMoney returns the balance as Money
func (a *LedgerAccount) BalanceMoney() valueobject.Money {
	return a.money(a.Balance)
}

// AdvanceMoney returns the advance as Money
func (a *LedgerAccount) AdvanceMoney() valueobject.Money {
	return a.money(a.Advance)
}

// PendingEntries returns journal entries recorded since the last clear
func (a *LedgerAccount) PendingEntries() []*LedgerEntry {
	return a.pendingEntries
}

// ClearPendingEntries drops journal entries once they are persisted
func (a *LedgerAccount) ClearPendingEntries() {
	a.pendingEntries = nil
}

func (a *LedgerAccount) checkAmount(amount valueobject.Money) error {
	if amount.Currency() != a.Currency {
		return shared.ErrCurrencyMismatch.WithMessage(
			fmt.Sprintf("%s account cannot take an amount in %s", a.Currency, amount.Currency()))
	}
	return amount.RequirePositive()
}

func (a *LedgerAccount) record(kind EntryKind, amount decimal.Decimal, src Source, apply func()) {
	entry := &LedgerEntry{
		BaseEntity:     shared.NewBaseEntity(),
		AccountID:      a.ID,
		CounterpartyID: a.CounterpartyID,
		Currency:       a.Currency,
		Kind:           kind,
		Amount:         amount,
		BalanceBefore:  a.Balance,
		AdvanceBefore:  a.Advance,
		SourceType:     src.Type,
		SourceID:       src.ID,
	}
	apply()
	entry.BalanceAfter = a.Balance
	entry.AdvanceAfter = a.Advance

	a.pendingEntries = append(a.pendingEntries, entry)
	a.Touch()
	a.AddDomainEvent(NewLedgerBalanceChangedEvent(entry))
}

func (a *LedgerAccount) money(d decimal.Decimal) valueobject.Money {
	return valueobject.MoneyOf(d, a.Currency)
}

// BalanceSnapshot is the read-only (balance, advance) pair of one account
// together with its signed net and the display convention derived from it.
type BalanceSnapshot struct {
	CounterpartyID uuid.UUID
	Currency       valueobject.Currency
	Balance        valueobject.Money
	Advance        valueobject.Money
}

// NewBalanceSnapshot builds a snapshot from stored values
func NewBalanceSnapshot(counterpartyID uuid.UUID, balance, advance valueobject.Money) BalanceSnapshot {
	return BalanceSnapshot{
		CounterpartyID: counterpartyID,
		Currency:       balance.Currency(),
		Balance:        balance,
		Advance:        advance,
	}
}

// EmptySnapshot is the snapshot of an account that was never opened
func EmptySnapshot(counterpartyID uuid.UUID, currency valueobject.Currency) BalanceSnapshot {
	return NewBalanceSnapshot(counterpartyID, valueobject.Zero(currency), valueobject.Zero(currency))
}

// Net returns balance minus advance; positive means the counterparty owes
func (s BalanceSnapshot) Net() valueobject.Money {
	return s.Balance.MustSubtract(s.Advance)
}

// DisplayBalance is max(0, net). It is zero whenever DisplayAdvance is not.
func (s BalanceSnapshot) DisplayBalance() valueobject.Money {
	return s.Net().FloorZero()
}

// DisplayAdvance is max(0, -net). It is zero whenever DisplayBalance is not.
func (s BalanceSnapshot) DisplayAdvance() valueobject.Money {
	return s.Net().Negate().FloorZero()
}
