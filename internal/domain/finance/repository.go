package finance

import (
	"context"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// LockByID finds an invoice and holds a row lock on it until the
	// transaction ends. Used for anonymous invoices, which have no account.
	LockByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDs finds several invoices by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Invoice, error)

	// FindOpen returns the unpaid and partially paid invoices of a
	// counterparty in currency, oldest invoice date first
	FindOpen(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*Invoice, error)

	// FindByCounterparty returns every invoice of a counterparty in currency
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*Invoice, error)

	// CountOpen counts the open invoices of a counterparty in any currency
	CountOpen(ctx context.Context, counterpartyID uuid.UUID) (int64, error)

	// Create inserts a new invoice
	Create(ctx context.Context, inv *Invoice) error

	// Save updates an invoice with optimistic locking
	Save(ctx context.Context, inv *Invoice) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIdempotencyKey finds the payment created with key
	FindByIdempotencyKey(ctx context.Context, key string) (*Payment, error)

	// FindByCounterparty returns every payment of a counterparty in currency
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*Payment, error)

	// Create inserts a new payment
	Create(ctx context.Context, p *Payment) error

	// Save updates a payment with optimistic locking
	Save(ctx context.Context, p *Payment) error
}

// Repositories gives access to every repository bound to one transaction
type Repositories interface {
	Counterparties() partner.CounterpartyRepository
	Accounts() partner.LedgerAccountRepository
	Entries() partner.LedgerEntryRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
}

// UnitOfWork runs fn inside one storage transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Repositories returns repositories outside any transaction, for reads
	Repositories() Repositories
}
