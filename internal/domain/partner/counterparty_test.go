package partner

import (
	"strings"
	"testing"

	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounterparty(t *testing.T) {
	t.Run("registers a customer", func(t *testing.T) {
		c, err := NewCustomer("  Ali Hassan ", "0770 000 0000")
		require.NoError(t, err)
		assert.Equal(t, KindCustomer, c.Kind)
		assert.Equal(t, "Ali Hassan", c.Name)
		assert.Equal(t, StatusActive, c.Status)
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("registers a supplier", func(t *testing.T) {
		c, err := NewSupplier("Basra Trading", "")
		require.NoError(t, err)
		assert.Equal(t, KindSupplier, c.Kind)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCustomer("   ", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Name cannot be empty")
	})

	t.Run("fails with long name", func(t *testing.T) {
		_, err := NewCustomer(strings.Repeat("a", 201), "")
		assert.Error(t, err)
	})

	t.Run("fails with unknown kind", func(t *testing.T) {
		_, err := NewCounterparty(Kind("partner"), "x", "")
		assert.Error(t, err)
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Supplier")
	require.NoError(t, err)
	assert.Equal(t, KindSupplier, k)

	_, err = ParseKind("vendor")
	assert.Error(t, err)
}

func TestCounterparty_RequireKind(t *testing.T) {
	c, err := NewCustomer("Ali", "")
	require.NoError(t, err)

	assert.NoError(t, c.RequireKind(KindCustomer))
	assert.ErrorIs(t, c.RequireKind(KindSupplier), ErrCounterpartyKindMismatch)
}

func TestCounterparty_Status(t *testing.T) {
	c, err := NewSupplier("Basra Trading", "")
	require.NoError(t, err)

	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive())
	assert.ErrorIs(t, c.RequireActive(), ErrCounterpartyInactive)
	assert.Error(t, c.Deactivate())

	require.NoError(t, c.Activate())
	assert.NoError(t, c.RequireActive())
	assert.Error(t, c.Activate())
}

func TestCounterparty_MarkDeleted(t *testing.T) {
	newAccount := func(t *testing.T, c *Counterparty, cur valueobject.Currency) *LedgerAccount {
		t.Helper()
		a, err := NewLedgerAccount(c.ID, cur)
		require.NoError(t, err)
		return a
	}

	t.Run("open invoices block deletion", func(t *testing.T) {
		c, err := NewCustomer("Ali", "")
		require.NoError(t, err)
		c.ClearDomainEvents()

		assert.ErrorIs(t, c.MarkDeleted(2, nil), ErrCounterpartyHasOpenInvoices)
		assert.Empty(t, c.GetDomainEvents())
	})

	t.Run("an advance in any currency blocks deletion", func(t *testing.T) {
		c, err := NewCustomer("Ali", "")
		require.NoError(t, err)
		c.ClearDomainEvents()

		iqd := newAccount(t, c, valueobject.IQD)
		usd := newAccount(t, c, valueobject.USD)
		_, err = usd.Credit(valueobject.NewUSD("40"), PaymentSource(uuid.New()))
		require.NoError(t, err)

		err = c.MarkDeleted(0, []*LedgerAccount{iqd, usd})
		assert.ErrorIs(t, err, ErrCounterpartyHasAdvance)
		assert.Empty(t, c.GetDomainEvents())
	})

	t.Run("settled accounts allow deletion", func(t *testing.T) {
		c, err := NewCustomer("Ali", "")
		require.NoError(t, err)
		c.ClearDomainEvents()

		a := newAccount(t, c, valueobject.IQD)
		_, err = a.Credit(valueobject.NewIQD(50000), PaymentSource(uuid.New()))
		require.NoError(t, err)
		require.NoError(t, a.ConsumeAdvance(valueobject.NewIQD(50000), PaymentSource(uuid.New())))

		require.NoError(t, c.MarkDeleted(0, []*LedgerAccount{a}))
		assert.Len(t, c.GetDomainEvents(), 1)
	})
}

func TestCounterparty_Update(t *testing.T) {
	c, err := NewCustomer("Ali", "")
	require.NoError(t, err)

	require.NoError(t, c.Update("Ali Hassan", "0780", "pays on Thursdays"))
	assert.Equal(t, "Ali Hassan", c.Name)
	assert.Equal(t, "0780", c.Phone)
	assert.Equal(t, "pays on Thursdays", c.Note)

	assert.Error(t, c.Update("", "", ""))
}
