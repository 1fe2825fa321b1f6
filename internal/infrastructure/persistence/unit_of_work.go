package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"gorm.io/gorm"
)

// gormRepositories binds every repository to one *gorm.DB, which is either
// the pool or an open transaction
type gormRepositories struct {
	counterparties *GormCounterpartyRepository
	accounts       *GormLedgerAccountRepository
	entries        *GormLedgerEntryRepository
	invoices       *GormInvoiceRepository
	payments       *GormPaymentRepository
}

func newGormRepositories(db *gorm.DB) *gormRepositories {
	return &gormRepositories{
		counterparties: NewGormCounterpartyRepository(db),
		accounts:       NewGormLedgerAccountRepository(db),
		entries:        NewGormLedgerEntryRepository(db),
		invoices:       NewGormInvoiceRepository(db),
		payments:       NewGormPaymentRepository(db),
	}
}

func (r *gormRepositories) Counterparties() partner.CounterpartyRepository { return r.counterparties }
func (r *gormRepositories) Accounts() partner.LedgerAccountRepository      { return r.accounts }
func (r *gormRepositories) Entries() partner.LedgerEntryRepository         { return r.entries }
func (r *gormRepositories) Invoices() finance.InvoiceRepository            { return r.invoices }
func (r *gormRepositories) Payments() finance.PaymentRepository            { return r.payments }

// GormUnitOfWork implements finance.UnitOfWork on gorm transactions
type GormUnitOfWork struct {
	db    *gorm.DB
	reads *gormRepositories
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db, reads: newGormRepositories(db)}
}

// Do runs fn in one transaction that commits when fn returns nil
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos finance.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newGormRepositories(tx))
	})
}

// Repositories returns repositories bound to the pool, for reads
func (u *GormUnitOfWork) Repositories() finance.Repositories {
	return u.reads
}

var _ finance.UnitOfWork = (*GormUnitOfWork)(nil)
