package partner

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind identifies which ledger operation produced a journal entry
type EntryKind string

const (
	// EntryKindDebit increases the balance (invoice issued, settlement reversed)
	EntryKindDebit EntryKind = "debit"
	// EntryKindCredit reduces the balance first and deposits the remainder as advance
	EntryKindCredit EntryKind = "credit"
	// EntryKindSettle reduces the balance by a targeted settlement
	EntryKindSettle EntryKind = "settle"
	// EntryKindAddAdvance deposits advance without touching the balance
	EntryKindAddAdvance EntryKind = "add_advance"
	// EntryKindConsumeAdvance draws down the advance
	EntryKindConsumeAdvance EntryKind = "consume_advance"
)

// String returns the string representation of EntryKind
func (k EntryKind) String() string {
	return string(k)
}

// SourceType identifies the document that caused a ledger movement
type SourceType string

const (
	SourceTypeInvoice             SourceType = "invoice"
	SourceTypeInvoiceCancellation SourceType = "invoice_cancellation"
	SourceTypePayment             SourceType = "payment"
	SourceTypePaymentReversal     SourceType = "payment_reversal"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// Source references the invoice or payment behind a ledger movement
type Source struct {
	Type SourceType
	ID   uuid.UUID
}

// InvoiceSource references an invoice being issued
func InvoiceSource(id uuid.UUID) Source {
	return Source{Type: SourceTypeInvoice, ID: id}
}

// PaymentSource references a payment being applied
func PaymentSource(id uuid.UUID) Source {
	return Source{Type: SourceTypePayment, ID: id}
}

// LedgerEntry is an append-only record of one ledger account movement.
// It captures both fields before and after so that a balance can be
// traced back through its history without recomputing it.
type LedgerEntry struct {
	shared.BaseEntity
	AccountID      uuid.UUID
	CounterpartyID uuid.UUID
	Currency       valueobject.Currency
	Kind           EntryKind
	Amount         decimal.Decimal // Always positive, direction determined by kind
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	AdvanceBefore  decimal.Decimal
	AdvanceAfter   decimal.Decimal
	SourceType     SourceType
	SourceID       uuid.UUID
}

// NetChange returns the signed change of balance minus advance
func (e *LedgerEntry) NetChange() decimal.Decimal {
	before := e.BalanceBefore.Sub(e.AdvanceBefore)
	after := e.BalanceAfter.Sub(e.AdvanceAfter)
	return after.Sub(before)
}
