package partner

import (
	"context"

	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CounterpartyFilter contains filter options for listing counterparties
type CounterpartyFilter struct {
	Kind   *Kind
	Status *Status
	Search string
	Limit  int
	Offset int
}

// CounterpartyRepository defines the interface for counterparty persistence
type CounterpartyRepository interface {
	// FindByID finds a counterparty by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Counterparty, error)

	// LockForShare returns the counterparty and holds a shared row lock on it
	// until the surrounding transaction ends. Ledger mutations take it so the
	// counterparty cannot be deleted under them.
	LockForShare(ctx context.Context, id uuid.UUID) (*Counterparty, error)

	// LockForUpdate returns the counterparty and holds an exclusive row lock
	// on it, waiting for every transaction holding the shared lock.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Counterparty, error)

	// List lists counterparties matching the filter, ordered by name
	List(ctx context.Context, filter CounterpartyFilter) ([]*Counterparty, int64, error)

	// Create inserts a new counterparty
	Create(ctx context.Context, c *Counterparty) error

	// Save updates a counterparty with optimistic locking. The stored version
	// must equal c.Version; on success the version is incremented.
	Save(ctx context.Context, c *Counterparty) error

	// Delete removes a counterparty
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerAccountRepository defines the interface for ledger account persistence
type LedgerAccountRepository interface {
	// LockForUpdate returns the account of the counterparty in currency,
	// opening it first if it does not exist, and holds an exclusive row lock
	// on it until the surrounding transaction ends.
	LockForUpdate(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) (*LedgerAccount, error)

	// Find returns the account without locking, or shared.ErrNotFound
	Find(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) (*LedgerAccount, error)

	// FindByCounterparty returns every opened account of a counterparty
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*LedgerAccount, error)

	// Save persists balance and advance with optimistic locking
	Save(ctx context.Context, account *LedgerAccount) error
}

// LedgerEntryRepository defines the interface for the movement journal
type LedgerEntryRepository interface {
	// Append stores journal entries
	Append(ctx context.Context, entries ...*LedgerEntry) error

	// List returns the newest entries of one account first
	List(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency, limit int) ([]*LedgerEntry, error)
}
