package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes sales from purchases
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "sale"
	InvoiceTypePurchase InvoiceType = "purchase"
)

// IsValid returns true if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeSale || t == InvoiceTypePurchase
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// CounterpartyKind returns the kind of counterparty the invoice belongs to
func (t InvoiceType) CounterpartyKind() partner.Kind {
	if t == InvoiceTypePurchase {
		return partner.KindSupplier
	}
	return partner.KindCustomer
}

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "unpaid"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsOpen returns true if payments can still be applied
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusUnpaid || s == InvoiceStatusPartial
}

// Invoice is a sale to a customer or a purchase from a supplier in one
// currency. RemainingAmount is always max(0, TotalAmount - PaidAmount) and
// the status follows from it until the invoice is cancelled.
type Invoice struct {
	shared.BaseAggregateRoot
	Number          string
	Type            InvoiceType
	CounterpartyID  *uuid.UUID // nil for anonymous sales
	Currency        valueobject.Currency
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	CreditedAmount  decimal.Decimal // paid amount released to advance on cancellation
	Status          InvoiceStatus
	InvoiceDate     time.Time
	Note            string
	CancelReason    string
	CancelledAt     *time.Time
}

// NewInvoice issues a new unpaid invoice
func NewInvoice(invoiceType InvoiceType, counterpartyID *uuid.UUID, total valueobject.Money, invoiceDate time.Time) (*Invoice, error) {
	if !invoiceType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("invoice type must be sale or purchase")
	}
	if counterpartyID == nil && invoiceType == InvoiceTypePurchase {
		return nil, shared.ErrInvalidInput.WithMessage("purchases must name a supplier")
	}
	if counterpartyID != nil && *counterpartyID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("counterparty id is invalid")
	}
	if !total.Currency().IsValid() {
		return nil, shared.ErrInvalidCurrency
	}
	if err := total.RequirePositive(); err != nil {
		return nil, err
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              invoiceType,
		CounterpartyID:    counterpartyID,
		Currency:          total.Currency(),
		TotalAmount:       total.Amount(),
		PaidAmount:        decimal.Zero,
		RemainingAmount:   total.Amount(),
		CreditedAmount:    decimal.Zero,
		Status:            InvoiceStatusUnpaid,
		InvoiceDate:       invoiceDate,
	}
	inv.Number = defaultInvoiceNumber(invoiceType, inv.ID)
	inv.AddDomainEvent(NewInvoiceRecordedEvent(inv))
	return inv, nil
}

func defaultInvoiceNumber(t InvoiceType, id uuid.UUID) string {
	prefix := "S"
	if t == InvoiceTypePurchase {
		prefix = "P"
	}
	return prefix + "-" + strings.ToUpper(id.String()[:8])
}

// SetNumber overrides the generated invoice number
func (inv *Invoice) SetNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" || len(number) > 50 {
		return shared.ErrInvalidInput.WithMessage("invoice number must be 1 to 50 characters")
	}
	inv.Number = number
	return nil
}

// IsAnonymous returns true for walk-in sales without a counterparty
func (inv *Invoice) IsAnonymous() bool {
	return inv.CounterpartyID == nil
}

// IsOpen returns true if the invoice still accepts payments
func (inv *Invoice) IsOpen() bool {
	return inv.Status.IsOpen()
}

// BelongsTo returns true if the invoice is owned by counterpartyID
func (inv *Invoice) BelongsTo(counterpartyID uuid.UUID) bool {
	return inv.CounterpartyID != nil && *inv.CounterpartyID == counterpartyID
}

// Total returns the total as Money
func (inv *Invoice) Total() valueobject.Money {
	return valueobject.MoneyOf(inv.TotalAmount, inv.Currency)
}

// Paid returns the paid amount as Money
func (inv *Invoice) Paid() valueobject.Money {
	return valueobject.MoneyOf(inv.PaidAmount, inv.Currency)
}

// Remaining returns the remaining amount as Money
func (inv *Invoice) Remaining() valueobject.Money {
	return valueobject.MoneyOf(inv.RemainingAmount, inv.Currency)
}

// ApplyPayment settles up to the remaining amount and returns what was
// applied and what exceeded the debt. An amount above the remaining debt is
// rejected with OVERPAYMENT_NOT_ALLOWED unless authorizeExcess is set.
func (inv *Invoice) ApplyPayment(amount valueobject.Money, authorizeExcess bool) (applied, excess valueobject.Money, err error) {
	if err := inv.checkCurrency(amount); err != nil {
		return applied, excess, err
	}
	if err := amount.RequirePositive(); err != nil {
		return applied, excess, err
	}
	if !inv.IsOpen() {
		return applied, excess, ErrInvoiceNotOpen.WithMessage(
			fmt.Sprintf("invoice %s is %s", inv.Number, inv.Status))
	}
	if amount.Amount().GreaterThan(inv.RemainingAmount) && !authorizeExcess {
		return applied, excess, ErrOverpaymentNotAllowed.WithMessage(
			fmt.Sprintf("payment of %s exceeds the %s remaining on invoice %s", amount, inv.Remaining(), inv.Number))
	}

	applied = valueobject.MoneyOf(decimal.Min(amount.Amount(), inv.RemainingAmount), inv.Currency)
	excess = amount.MustSubtract(applied)

	inv.PaidAmount = inv.PaidAmount.Add(applied.Amount())
	inv.recompute()
	inv.Touch()
	inv.AddDomainEvent(NewInvoicePaymentAppliedEvent(inv, applied))
	return applied, excess, nil
}

// ReversePayment undoes an amount previously applied by ApplyPayment
func (inv *Invoice) ReversePayment(amount valueobject.Money) error {
	if err := inv.checkCurrency(amount); err != nil {
		return err
	}
	if err := amount.RequirePositive(); err != nil {
		return err
	}
	if inv.Status == InvoiceStatusCancelled {
		return ErrInvoiceCancelled.WithMessage(
			fmt.Sprintf("invoice %s was cancelled; its payments can no longer be reversed", inv.Number))
	}
	if amount.Amount().GreaterThan(inv.PaidAmount) {
		return shared.ErrInvalidState.WithMessage(
			fmt.Sprintf("cannot reverse %s, invoice %s has only %s paid", amount, inv.Number, inv.Paid()))
	}

	inv.PaidAmount = inv.PaidAmount.Sub(amount.Amount())
	inv.recompute()
	inv.Touch()
	inv.AddDomainEvent(NewInvoicePaymentReversedEvent(inv, amount))
	return nil
}

// InvoiceCancellation reports the amounts released by Cancel
type InvoiceCancellation struct {
	RemainingBefore valueobject.Money
	PaidBefore      valueobject.Money
}

// Cancel voids an unpaid or partially paid invoice. The remaining amount is
// restored to the total and the paid amount is released; for invoices with
// a counterparty it is recorded as CreditedAmount.
func (inv *Invoice) Cancel(reason string) (InvoiceCancellation, error) {
	switch inv.Status {
	case InvoiceStatusPaid:
		return InvoiceCancellation{}, ErrInvoiceAlreadyPaid
	case InvoiceStatusCancelled:
		return InvoiceCancellation{}, ErrInvoiceAlreadyCancelled
	}

	result := InvoiceCancellation{
		RemainingBefore: inv.Remaining(),
		PaidBefore:      inv.Paid(),
	}

	now := time.Now()
	if !inv.IsAnonymous() {
		inv.CreditedAmount = inv.PaidAmount
	}
	inv.PaidAmount = decimal.Zero
	inv.RemainingAmount = inv.TotalAmount
	inv.Status = InvoiceStatusCancelled
	inv.CancelReason = reason
	inv.CancelledAt = &now
	inv.Touch()
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, result))
	return result, nil
}

// CheckRemaining verifies remaining = max(0, total - paid) and the derived status
func (inv *Invoice) CheckRemaining() error {
	expected := decimal.Max(decimal.Zero, inv.TotalAmount.Sub(inv.PaidAmount))
	if inv.Status == InvoiceStatusCancelled {
		expected = inv.TotalAmount
	}
	if !inv.RemainingAmount.Equal(expected) {
		return fmt.Errorf("remaining %s, expected %s", inv.RemainingAmount, expected)
	}
	if inv.PaidAmount.IsNegative() {
		return fmt.Errorf("paid amount %s is negative", inv.PaidAmount)
	}
	if inv.Status != InvoiceStatusCancelled && inv.Status != deriveStatus(inv.PaidAmount, inv.RemainingAmount) {
		return fmt.Errorf("status %s does not match remaining %s", inv.Status, inv.RemainingAmount)
	}
	return nil
}

func (inv *Invoice) recompute() {
	inv.RemainingAmount = decimal.Max(decimal.Zero, inv.TotalAmount.Sub(inv.PaidAmount))
	inv.Status = deriveStatus(inv.PaidAmount, inv.RemainingAmount)
}

func deriveStatus(paid, remaining decimal.Decimal) InvoiceStatus {
	switch {
	case remaining.IsZero():
		return InvoiceStatusPaid
	case paid.IsZero():
		return InvoiceStatusUnpaid
	default:
		return InvoiceStatusPartial
	}
}

func (inv *Invoice) checkCurrency(amount valueobject.Money) error {
	if amount.Currency() != inv.Currency {
		return shared.ErrCurrencyMismatch.WithMessage(
			fmt.Sprintf("invoice %s is in %s, amount is in %s", inv.Number, inv.Currency, amount.Currency()))
	}
	return nil
}
