package finance

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSale(t *testing.T, counterpartyID *uuid.UUID, total int64) *Invoice {
	t.Helper()
	inv, err := NewInvoice(InvoiceTypeSale, counterpartyID, valueobject.NewIQD(total), time.Now())
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	cp := uuid.New()

	t.Run("records an unpaid sale", func(t *testing.T) {
		inv := newSale(t, &cp, 100000)
		assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
		assert.True(t, inv.Remaining().Equals(valueobject.NewIQD(100000)))
		assert.True(t, inv.PaidAmount.IsZero())
		assert.Regexp(t, `^S-[0-9A-F]{8}$`, inv.Number)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("anonymous sale", func(t *testing.T) {
		inv := newSale(t, nil, 5000)
		assert.True(t, inv.IsAnonymous())
	})

	t.Run("anonymous purchase is rejected", func(t *testing.T) {
		_, err := NewInvoice(InvoiceTypePurchase, nil, valueobject.NewIQD(5000), time.Now())
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("total must be positive", func(t *testing.T) {
		_, err := NewInvoice(InvoiceTypeSale, &cp, valueobject.Zero(valueobject.USD), time.Now())
		assert.ErrorIs(t, err, shared.ErrZeroAmount)
		_, err = NewInvoice(InvoiceTypeSale, &cp, valueobject.NewIQD(-1), time.Now())
		assert.ErrorIs(t, err, shared.ErrNegativeAmount)
	})

	t.Run("purchase number prefix", func(t *testing.T) {
		inv, err := NewInvoice(InvoiceTypePurchase, &cp, valueobject.NewUSD("10.00"), time.Time{})
		require.NoError(t, err)
		assert.Regexp(t, `^P-`, inv.Number)
		assert.False(t, inv.InvoiceDate.IsZero())
	})
}

func TestInvoice_ApplyPayment(t *testing.T) {
	cp := uuid.New()

	t.Run("partial then full", func(t *testing.T) {
		inv := newSale(t, &cp, 100000)

		applied, excess, err := inv.ApplyPayment(valueobject.NewIQD(40000), false)
		require.NoError(t, err)
		assert.True(t, applied.Equals(valueobject.NewIQD(40000)))
		assert.True(t, excess.IsZero())
		assert.Equal(t, InvoiceStatusPartial, inv.Status)

		_, _, err = inv.ApplyPayment(valueobject.NewIQD(60000), false)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.RemainingAmount.IsZero())
	})

	t.Run("overpayment needs authorization", func(t *testing.T) {
		inv := newSale(t, &cp, 100000)

		_, _, err := inv.ApplyPayment(valueobject.NewIQD(150000), false)
		assert.ErrorIs(t, err, ErrOverpaymentNotAllowed)
		assert.Equal(t, InvoiceStatusUnpaid, inv.Status)

		applied, excess, err := inv.ApplyPayment(valueobject.NewIQD(150000), true)
		require.NoError(t, err)
		assert.True(t, applied.Equals(valueobject.NewIQD(100000)))
		assert.True(t, excess.Equals(valueobject.NewIQD(50000)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("paid invoice is not open", func(t *testing.T) {
		inv := newSale(t, &cp, 1000)
		_, _, err := inv.ApplyPayment(valueobject.NewIQD(1000), false)
		require.NoError(t, err)
		_, _, err = inv.ApplyPayment(valueobject.NewIQD(1), true)
		assert.ErrorIs(t, err, ErrInvoiceNotOpen)
	})

	t.Run("currency and amount checks", func(t *testing.T) {
		inv := newSale(t, &cp, 1000)
		_, _, err := inv.ApplyPayment(valueobject.NewUSD("1.00"), false)
		assert.ErrorIs(t, err, shared.ErrCurrencyMismatch)
		_, _, err = inv.ApplyPayment(valueobject.Zero(valueobject.IQD), false)
		assert.ErrorIs(t, err, shared.ErrZeroAmount)
	})
}

func TestInvoice_ReversePayment(t *testing.T) {
	cp := uuid.New()
	inv := newSale(t, &cp, 1000)
	_, _, err := inv.ApplyPayment(valueobject.NewIQD(1000), false)
	require.NoError(t, err)

	require.NoError(t, inv.ReversePayment(valueobject.NewIQD(400)))
	assert.Equal(t, InvoiceStatusPartial, inv.Status)
	assert.True(t, inv.Remaining().Equals(valueobject.NewIQD(400)))

	assert.ErrorIs(t, inv.ReversePayment(valueobject.NewIQD(700)), shared.ErrInvalidState)

	require.NoError(t, inv.ReversePayment(valueobject.NewIQD(600)))
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
}

func TestInvoice_Cancel(t *testing.T) {
	cp := uuid.New()

	t.Run("partially paid invoice credits paid amount", func(t *testing.T) {
		inv := newSale(t, &cp, 1000)
		_, _, err := inv.ApplyPayment(valueobject.NewIQD(300), false)
		require.NoError(t, err)

		result, err := inv.Cancel("customer returned goods")
		require.NoError(t, err)
		assert.True(t, result.RemainingBefore.Equals(valueobject.NewIQD(700)))
		assert.True(t, result.PaidBefore.Equals(valueobject.NewIQD(300)))
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.True(t, inv.RemainingAmount.Equal(inv.TotalAmount))
		assert.True(t, inv.PaidAmount.IsZero())
		assert.Equal(t, "300", inv.CreditedAmount.String())
		assert.NotNil(t, inv.CancelledAt)
		assert.NoError(t, inv.CheckRemaining())

		assert.ErrorIs(t, inv.ReversePayment(valueobject.NewIQD(1)), ErrInvoiceCancelled)
	})

	t.Run("guards", func(t *testing.T) {
		paid := newSale(t, &cp, 1000)
		_, _, err := paid.ApplyPayment(valueobject.NewIQD(1000), false)
		require.NoError(t, err)
		_, err = paid.Cancel("")
		assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)

		inv := newSale(t, &cp, 1000)
		_, err = inv.Cancel("")
		require.NoError(t, err)
		_, err = inv.Cancel("")
		assert.ErrorIs(t, err, ErrInvoiceAlreadyCancelled)
	})

	t.Run("anonymous invoice credits nothing", func(t *testing.T) {
		inv := newSale(t, nil, 1000)
		_, _, err := inv.ApplyPayment(valueobject.NewIQD(200), false)
		require.NoError(t, err)
		_, err = inv.Cancel("")
		require.NoError(t, err)
		assert.True(t, inv.CreditedAmount.IsZero())
	})
}

func TestSortForAllocation(t *testing.T) {
	cp := uuid.New()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	newer, err := NewInvoice(InvoiceTypeSale, &cp, valueobject.NewIQD(1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	older, err := NewInvoice(InvoiceTypeSale, &cp, valueobject.NewIQD(1), day)
	require.NoError(t, err)
	sameDayLater, err := NewInvoice(InvoiceTypeSale, &cp, valueobject.NewIQD(1), day)
	require.NoError(t, err)
	sameDayLater.CreatedAt = older.CreatedAt.Add(time.Second)

	sorted := SortForAllocation([]*Invoice{newer, sameDayLater, older})
	assert.Equal(t, []uuid.UUID{older.ID, sameDayLater.ID, newer.ID},
		[]uuid.UUID{sorted[0].ID, sorted[1].ID, sorted[2].ID})
}
