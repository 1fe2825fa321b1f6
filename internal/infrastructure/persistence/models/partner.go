package models

import (
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CounterpartyModel is the persistence model for a customer or supplier
type CounterpartyModel struct {
	AggregateModel
	Kind      partner.Kind   `gorm:"type:varchar(20);not null;index"`
	Name      string         `gorm:"type:varchar(200);not null;index"`
	Phone     string         `gorm:"type:varchar(50);not null;default:''"`
	Note      string         `gorm:"type:text;not null;default:''"`
	Status    partner.Status `gorm:"type:varchar(20);not null;default:'active'"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// ToDomain converts the persistence model to a domain Counterparty
func (m *CounterpartyModel) ToDomain() *partner.Counterparty {
	return &partner.Counterparty{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Kind:              m.Kind,
		Name:              m.Name,
		Phone:             m.Phone,
		Note:              m.Note,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Counterparty
func (m *CounterpartyModel) FromDomain(c *partner.Counterparty) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Kind = c.Kind
	m.Name = c.Name
	m.Phone = c.Phone
	m.Note = c.Note
	m.Status = c.Status
}

// CounterpartyModelFromDomain creates a persistence model from a domain Counterparty
func CounterpartyModelFromDomain(c *partner.Counterparty) *CounterpartyModel {
	m := &CounterpartyModel{}
	m.FromDomain(c)
	return m
}

// LedgerAccountModel is the persistence model for one (counterparty, currency) account
type LedgerAccountModel struct {
	AggregateModel
	CounterpartyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:uq_ledger_accounts_counterparty_currency,priority:1"`
	Currency       valueobject.Currency `gorm:"type:char(3);not null;uniqueIndex:uq_ledger_accounts_counterparty_currency,priority:2"`
	Balance        decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	Advance        decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
}

// TableName returns the table name for GORM
func (LedgerAccountModel) TableName() string {
	return "ledger_accounts"
}

// ToDomain converts the persistence model to a domain LedgerAccount
func (m *LedgerAccountModel) ToDomain() *partner.LedgerAccount {
	return &partner.LedgerAccount{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CounterpartyID:    m.CounterpartyID,
		Currency:          m.Currency,
		Balance:           m.Balance,
		Advance:           m.Advance,
	}
}

// FromDomain populates the persistence model from a domain LedgerAccount
func (m *LedgerAccountModel) FromDomain(a *partner.LedgerAccount) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CounterpartyID = a.CounterpartyID
	m.Currency = a.Currency
	m.Balance = a.Balance
	m.Advance = a.Advance
}

// LedgerAccountModelFromDomain creates a persistence model from a domain LedgerAccount
func LedgerAccountModelFromDomain(a *partner.LedgerAccount) *LedgerAccountModel {
	m := &LedgerAccountModel{}
	m.FromDomain(a)
	return m
}

// LedgerEntryModel is the persistence model for an append-only journal row
type LedgerEntryModel struct {
	BaseModel
	AccountID      uuid.UUID            `gorm:"type:uuid;not null"`
	CounterpartyID uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_entries_account,priority:1"`
	Currency       valueobject.Currency `gorm:"type:char(3);not null;index:idx_ledger_entries_account,priority:2"`
	Kind           partner.EntryKind    `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	BalanceBefore  decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	BalanceAfter   decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	AdvanceBefore  decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	AdvanceAfter   decimal.Decimal      `gorm:"type:decimal(20,2);not null"`
	SourceType     partner.SourceType   `gorm:"type:varchar(30);not null;index:idx_ledger_entries_source,priority:1"`
	SourceID       uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_entries_source,priority:2"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *partner.LedgerEntry {
	return &partner.LedgerEntry{
		BaseEntity:     m.BaseModel.ToDomain(),
		AccountID:      m.AccountID,
		CounterpartyID: m.CounterpartyID,
		Currency:       m.Currency,
		Kind:           m.Kind,
		Amount:         m.Amount,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		AdvanceBefore:  m.AdvanceBefore,
		AdvanceAfter:   m.AdvanceAfter,
		SourceType:     m.SourceType,
		SourceID:       m.SourceID,
	}
}

// LedgerEntryModelFromDomain creates a persistence model from a domain LedgerEntry
func LedgerEntryModelFromDomain(e *partner.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		BaseModel: BaseModel{
			ID:        e.ID,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		},
		AccountID:      e.AccountID,
		CounterpartyID: e.CounterpartyID,
		Currency:       e.Currency,
		Kind:           e.Kind,
		Amount:         e.Amount,
		BalanceBefore:  e.BalanceBefore,
		BalanceAfter:   e.BalanceAfter,
		AdvanceBefore:  e.AdvanceBefore,
		AdvanceAfter:   e.AdvanceAfter,
		SourceType:     e.SourceType,
		SourceID:       e.SourceID,
	}
}
