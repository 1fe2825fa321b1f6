package partner

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
)

// Kind distinguishes customers from suppliers. Both share one shape but
// their identity spaces never overlap.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// IsValid returns true if the kind is customer or supplier
func (k Kind) IsValid() bool {
	return k == KindCustomer || k == KindSupplier
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a counterparty kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", shared.NewDomainError("INVALID_KIND", "Counterparty kind must be customer or supplier")
	}
	return k, nil
}

// Status represents the status of a counterparty
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Counterparty is a customer or supplier whose balances the ledger tracks.
// Balances themselves live on LedgerAccount, one per currency.
type Counterparty struct {
	shared.BaseAggregateRoot
	Kind   Kind
	Name   string
	Phone  string
	Note   string
	Status Status
}

// NewCounterparty registers a new customer or supplier
func NewCounterparty(kind Kind, name, phone string) (*Counterparty, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Counterparty kind must be customer or supplier")
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	c := &Counterparty{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Name:              name,
		Phone:             strings.TrimSpace(phone),
		Status:            StatusActive,
	}
	c.AddDomainEvent(NewCounterpartyCreatedEvent(c))
	return c, nil
}

// NewCustomer registers a new customer
func NewCustomer(name, phone string) (*Counterparty, error) {
	return NewCounterparty(KindCustomer, name, phone)
}

// NewSupplier registers a new supplier
func NewSupplier(name, phone string) (*Counterparty, error) {
	return NewCounterparty(KindSupplier, name, phone)
}

// Update changes the descriptive fields of the counterparty
func (c *Counterparty) Update(name, phone, note string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	c.Name = name
	c.Phone = strings.TrimSpace(phone)
	c.Note = note
	c.Touch()
	c.AddDomainEvent(NewCounterpartyUpdatedEvent(c))
	return nil
}

// Activate re-enables an inactive counterparty
func (c *Counterparty) Activate() error {
	if c.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Counterparty is already active")
	}
	c.Status = StatusActive
	c.Touch()
	c.AddDomainEvent(NewCounterpartyStatusChangedEvent(c, StatusInactive, StatusActive))
	return nil
}

// Deactivate stops new invoices and payments from being recorded
func (c *Counterparty) Deactivate() error {
	if c.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Counterparty is already inactive")
	}
	c.Status = StatusInactive
	c.Touch()
	c.AddDomainEvent(NewCounterpartyStatusChangedEvent(c, StatusActive, StatusInactive))
	return nil
}

// IsActive returns true if the counterparty accepts new transactions
func (c *Counterparty) IsActive() bool {
	return c.Status == StatusActive
}

// RequireKind fails with COUNTERPARTY_KIND_MISMATCH unless c is of kind k.
// A customer id is never accepted where a supplier is required.
func (c *Counterparty) RequireKind(k Kind) error {
	if c.Kind != k {
		return ErrCounterpartyKindMismatch.WithMessage(
			"counterparty " + c.ID.String() + " is a " + c.Kind.String() + ", expected " + k.String())
	}
	return nil
}

// RequireActive fails unless the counterparty is active
func (c *Counterparty) RequireActive() error {
	if !c.IsActive() {
		return ErrCounterpartyInactive
	}
	return nil
}

// MarkDeleted checks the deletion guard and records the deletion event.
// accounts are the counterparty's ledger accounts; an advance in any of them
// is money still owed to the counterparty and blocks the deletion.
func (c *Counterparty) MarkDeleted(openInvoices int64, accounts []*LedgerAccount) error {
	if openInvoices > 0 {
		return ErrCounterpartyHasOpenInvoices
	}
	for _, a := range accounts {
		if a.Advance.IsPositive() {
			return ErrCounterpartyHasAdvance.WithMessage(
				"counterparty " + c.ID.String() + " holds an advance of " + valueobject.FormatAmount(a.AdvanceMoney()))
		}
	}
	c.AddDomainEvent(NewCounterpartyDeletedEvent(c))
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
