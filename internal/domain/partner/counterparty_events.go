package partner

import (
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCounterparty  = "Counterparty"
	AggregateTypeLedgerAccount = "LedgerAccount"
)

// Event type constants
const (
	EventTypeCounterpartyCreated       = "CounterpartyCreated"
	EventTypeCounterpartyUpdated       = "CounterpartyUpdated"
	EventTypeCounterpartyStatusChanged = "CounterpartyStatusChanged"
	EventTypeCounterpartyDeleted       = "CounterpartyDeleted"
	EventTypeLedgerBalanceChanged      = "LedgerBalanceChanged"
)

// CounterpartyCreatedEvent is published when a customer or supplier is registered
type CounterpartyCreatedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Kind           Kind      `json:"kind"`
	Name           string    `json:"name"`
}

// NewCounterpartyCreatedEvent creates a new CounterpartyCreatedEvent
func NewCounterpartyCreatedEvent(c *Counterparty) *CounterpartyCreatedEvent {
	return &CounterpartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyCreated, AggregateTypeCounterparty, c.ID),
		CounterpartyID:  c.ID,
		Kind:            c.Kind,
		Name:            c.Name,
	}
}

// CounterpartyUpdatedEvent is published when descriptive fields change
type CounterpartyUpdatedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
}

// NewCounterpartyUpdatedEvent creates a new CounterpartyUpdatedEvent
func NewCounterpartyUpdatedEvent(c *Counterparty) *CounterpartyUpdatedEvent {
	return &CounterpartyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyUpdated, AggregateTypeCounterparty, c.ID),
		CounterpartyID:  c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
	}
}

// CounterpartyStatusChangedEvent is published on activation or deactivation
type CounterpartyStatusChangedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	OldStatus      Status    `json:"old_status"`
	NewStatus      Status    `json:"new_status"`
}

// NewCounterpartyStatusChangedEvent creates a new CounterpartyStatusChangedEvent
func NewCounterpartyStatusChangedEvent(c *Counterparty, oldStatus, newStatus Status) *CounterpartyStatusChangedEvent {
	return &CounterpartyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyStatusChanged, AggregateTypeCounterparty, c.ID),
		CounterpartyID:  c.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// CounterpartyDeletedEvent is published when a counterparty is removed
type CounterpartyDeletedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	Kind           Kind      `json:"kind"`
}

// NewCounterpartyDeletedEvent creates a new CounterpartyDeletedEvent
func NewCounterpartyDeletedEvent(c *Counterparty) *CounterpartyDeletedEvent {
	return &CounterpartyDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCounterpartyDeleted, AggregateTypeCounterparty, c.ID),
		CounterpartyID:  c.ID,
		Kind:            c.Kind,
	}
}

// LedgerBalanceChangedEvent is published for every ledger account movement
type LedgerBalanceChangedEvent struct {
	shared.BaseDomainEvent
	CounterpartyID uuid.UUID            `json:"counterparty_id"`
	Currency       valueobject.Currency `json:"currency"`
	Kind           EntryKind            `json:"kind"`
	Amount         decimal.Decimal      `json:"amount"`
	BalanceAfter   decimal.Decimal      `json:"balance_after"`
	AdvanceAfter   decimal.Decimal      `json:"advance_after"`
	SourceType     SourceType           `json:"source_type"`
	SourceID       uuid.UUID            `json:"source_id"`
}

// NewLedgerBalanceChangedEvent creates an event from a journal entry
func NewLedgerBalanceChangedEvent(e *LedgerEntry) *LedgerBalanceChangedEvent {
	return &LedgerBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerBalanceChanged, AggregateTypeLedgerAccount, e.AccountID),
		CounterpartyID:  e.CounterpartyID,
		Currency:        e.Currency,
		Kind:            e.Kind,
		Amount:          e.Amount,
		BalanceAfter:    e.BalanceAfter,
		AdvanceAfter:    e.AdvanceAfter,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
	}
}
