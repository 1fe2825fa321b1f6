package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpartyRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormCounterpartyRepository(db.DB)
	ctx := context.Background()

	c := createCustomer(t, db.DB)
	supplier, err := partner.NewSupplier("Basra Wholesale", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, supplier))

	t.Run("find and update with version check", func(t *testing.T) {
		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ahmed Stores", found.Name)
		assert.Equal(t, 1, found.Version)

		stale, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)

		require.NoError(t, found.Update("Ahmed Stores Ltd", found.Phone, "VIP"))
		require.NoError(t, repo.Save(ctx, found))
		assert.Equal(t, 2, found.Version)

		require.NoError(t, stale.Update("Other", stale.Phone, ""))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("list filters", func(t *testing.T) {
		kind := partner.KindSupplier
		list, total, err := repo.List(ctx, partner.CounterpartyFilter{Kind: &kind})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, supplier.ID, list[0].ID)

		list, _, err = repo.List(ctx, partner.CounterpartyFilter{Search: "ahmed"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, c.ID, list[0].ID)
	})

	t.Run("soft delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, supplier.ID))
		_, err := repo.FindByID(ctx, supplier.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, supplier.ID), shared.ErrNotFound)
	})
}

func TestLedgerAccountRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormLedgerAccountRepository(db.DB)
	ctx := context.Background()
	c := createCustomer(t, db.DB)

	_, err := repo.Find(ctx, c.ID, valueobject.IQD)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	account, err := repo.LockForUpdate(ctx, c.ID, valueobject.IQD)
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())

	again, err := repo.LockForUpdate(ctx, c.ID, valueobject.IQD)
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID, "opening an account twice returns the same row")

	require.NoError(t, account.Debit(valueobject.NewIQD(150000), partner.InvoiceSource(uuid.New())))
	require.NoError(t, repo.Save(ctx, account))
	assert.Equal(t, 2, account.Version)

	assert.ErrorIs(t, repo.Save(ctx, again), shared.ErrConcurrencyConflict)

	stored, err := repo.Find(ctx, c.ID, valueobject.IQD)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(150000)))

	_, err = repo.LockForUpdate(ctx, c.ID, valueobject.USD)
	require.NoError(t, err)
	all, err := repo.FindByCounterparty(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLedgerEntryRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	c := createCustomer(t, db.DB)

	account, err := NewGormLedgerAccountRepository(db.DB).LockForUpdate(ctx, c.ID, valueobject.USD)
	require.NoError(t, err)
	require.NoError(t, account.Debit(valueobject.NewUSD("100.00"), partner.InvoiceSource(uuid.New())))
	time.Sleep(2 * time.Millisecond)
	_, err = account.Credit(valueobject.NewUSD("30.50"), partner.PaymentSource(uuid.New()))
	require.NoError(t, err)

	repo := NewGormLedgerEntryRepository(db.DB)
	require.NoError(t, repo.Append(ctx, account.PendingEntries()...))
	require.NoError(t, repo.Append(ctx))

	entries, err := repo.List(ctx, c.ID, valueobject.USD, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, partner.EntryKind("credit"), entries[0].Kind)
	assert.True(t, entries[0].BalanceAfter.Equal(decimal.RequireFromString("69.50")))
	assert.True(t, entries[1].Amount.Equal(decimal.NewFromInt(100)))
}

func TestInvoiceRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormInvoiceRepository(db.DB)
	ctx := context.Background()
	c := createCustomer(t, db.DB)
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	newer := createSale(t, db.DB, &c.ID, valueobject.NewIQD(5000), day.AddDate(0, 0, 1))
	older := createSale(t, db.DB, &c.ID, valueobject.NewIQD(10000), day)
	usd := createSale(t, db.DB, &c.ID, valueobject.NewUSD("20.00"), day)
	anon := createSale(t, db.DB, nil, valueobject.NewIQD(700), day)

	t.Run("open invoices in allocation order", func(t *testing.T) {
		open, err := repo.FindOpen(ctx, c.ID, valueobject.IQD)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, older.ID, open[0].ID)
		assert.Equal(t, newer.ID, open[1].ID)

		count, err := repo.CountOpen(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("save applies payment and bumps version", func(t *testing.T) {
		inv, err := repo.LockByID(ctx, older.ID)
		require.NoError(t, err)
		_, _, err = inv.ApplyPayment(valueobject.NewIQD(10000), false)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, inv))

		stored, err := repo.FindByID(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.InvoiceStatusPaid, stored.Status)
		assert.Equal(t, 2, stored.Version)

		open, err := repo.FindOpen(ctx, c.ID, valueobject.IQD)
		require.NoError(t, err)
		assert.Len(t, open, 1)

		older.Status = finance.InvoiceStatusCancelled
		assert.ErrorIs(t, repo.Save(ctx, older), shared.ErrConcurrencyConflict)
	})

	t.Run("anonymous and by ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []uuid.UUID{anon.ID, usd.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		got, err := repo.FindByID(ctx, anon.ID)
		require.NoError(t, err)
		assert.True(t, got.IsAnonymous())
	})

	t.Run("duplicate number", func(t *testing.T) {
		dup, err := finance.NewInvoice(finance.InvoiceTypeSale, &c.ID, valueobject.NewIQD(1), day)
		require.NoError(t, err)
		require.NoError(t, dup.SetNumber(older.Number))
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestPaymentRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormPaymentRepository(db.DB)
	ctx := context.Background()
	c := createCustomer(t, db.DB)
	inv := createSale(t, db.DB, &c.ID, valueobject.NewIQD(1000), time.Now())

	req := finance.SettlementRequest{
		Type:            finance.PaymentTypeCustomer,
		CounterpartyID:  &c.ID,
		Amount:          valueobject.NewIQD(1500),
		TargetInvoiceID: &inv.ID,
		AuthorizeExcess: true,
		IdempotencyKey:  "till-3-0001",
	}
	plan, err := finance.PlanSettlement(req, valueobject.Zero(valueobject.IQD), []*finance.Invoice{inv})
	require.NoError(t, err)
	p, err := finance.NewPayment(req, plan)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	t.Run("round trip keeps allocations", func(t *testing.T) {
		got, err := repo.FindByIdempotencyKey(ctx, "till-3-0001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		require.Len(t, got.Allocations, 1)
		assert.Equal(t, inv.ID, got.Allocations[0].InvoiceID)
		assert.True(t, got.ExcessAmount.Equal(decimal.NewFromInt(500)))
		assert.NoError(t, got.CheckItemization())
	})

	t.Run("duplicate idempotency key", func(t *testing.T) {
		dup, err := finance.NewPayment(req, plan)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("cancel with version check", func(t *testing.T) {
		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, got.Cancel())
		require.NoError(t, repo.Save(ctx, got))

		list, err := repo.FindByCounterparty(ctx, c.ID, valueobject.IQD)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, finance.PaymentStatusCancelled, list[0].Status)

		require.NoError(t, p.Cancel())
		assert.ErrorIs(t, repo.Save(ctx, p), shared.ErrConcurrencyConflict)
	})

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUnitOfWork_RollsBack(t *testing.T) {
	db := newTestDB(t)
	uow := NewGormUnitOfWork(db.DB)
	ctx := context.Background()
	c := createCustomer(t, db.DB)

	err := uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
		account, err := repos.Accounts().LockForUpdate(ctx, c.ID, valueobject.IQD)
		require.NoError(t, err)
		require.NoError(t, account.Debit(valueobject.NewIQD(100), partner.InvoiceSource(uuid.New())))
		require.NoError(t, repos.Accounts().Save(ctx, account))
		return shared.ErrInvalidState
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = uow.Repositories().Accounts().Find(ctx, c.ID, valueobject.IQD)
	assert.ErrorIs(t, err, shared.ErrNotFound, "account opening rolled back with the rest")
}
