package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for a sale or purchase invoice
type InvoiceModel struct {
	AggregateModel
	Number          string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            finance.InvoiceType   `gorm:"type:varchar(20);not null"`
	CounterpartyID  *uuid.UUID            `gorm:"type:uuid;index:idx_invoices_open,priority:1"`
	Currency        valueobject.Currency  `gorm:"type:char(3);not null;index:idx_invoices_open,priority:2"`
	TotalAmount     decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	PaidAmount      decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	RemainingAmount decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	CreditedAmount  decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	Status          finance.InvoiceStatus `gorm:"type:varchar(20);not null;index:idx_invoices_open,priority:3"`
	InvoiceDate     time.Time             `gorm:"not null;index:idx_invoices_open,priority:4"`
	Note            string                `gorm:"type:text;not null;default:''"`
	CancelReason    string                `gorm:"type:text;not null;default:''"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		Type:              m.Type,
		CounterpartyID:    m.CounterpartyID,
		Currency:          m.Currency,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		RemainingAmount:   m.RemainingAmount,
		CreditedAmount:    m.CreditedAmount,
		Status:            m.Status,
		InvoiceDate:       m.InvoiceDate,
		Note:              m.Note,
		CancelReason:      m.CancelReason,
		CancelledAt:       m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *finance.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.Number = inv.Number
	m.Type = inv.Type
	m.CounterpartyID = inv.CounterpartyID
	m.Currency = inv.Currency
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.RemainingAmount = inv.RemainingAmount
	m.CreditedAmount = inv.CreditedAmount
	m.Status = inv.Status
	m.InvoiceDate = inv.InvoiceDate
	m.Note = inv.Note
	m.CancelReason = inv.CancelReason
	m.CancelledAt = inv.CancelledAt
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for a payment. Allocations are
// stored as a JSON array since they are only ever read with the payment.
type PaymentModel struct {
	AggregateModel
	Type            finance.PaymentType   `gorm:"type:varchar(20);not null"`
	CounterpartyID  *uuid.UUID            `gorm:"type:uuid;index:idx_payments_counterparty,priority:1"`
	TargetInvoiceID *uuid.UUID            `gorm:"type:uuid"`
	Currency        valueobject.Currency  `gorm:"type:char(3);not null;index:idx_payments_counterparty,priority:2"`
	Amount          decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	AdvanceUsed     decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	DirectAmount    decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	ExcessAmount    decimal.Decimal       `gorm:"type:decimal(20,2);not null"`
	Allocations     string                `gorm:"type:jsonb;not null"`
	Status          finance.PaymentStatus `gorm:"type:varchar(20);not null;index:idx_payments_counterparty,priority:3"`
	IdempotencyKey  *string               `gorm:"type:varchar(100);uniqueIndex"`
	Note            string                `gorm:"type:text;not null;default:''"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() (*finance.Payment, error) {
	allocations := make([]finance.Allocation, 0)
	if m.Allocations != "" {
		if err := json.Unmarshal([]byte(m.Allocations), &allocations); err != nil {
			return nil, fmt.Errorf("decode allocations of payment %s: %w", m.ID, err)
		}
	}
	return &finance.Payment{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Type:              m.Type,
		CounterpartyID:    m.CounterpartyID,
		TargetInvoiceID:   m.TargetInvoiceID,
		Currency:          m.Currency,
		Amount:            m.Amount,
		AdvanceUsed:       m.AdvanceUsed,
		DirectAmount:      m.DirectAmount,
		ExcessAmount:      m.ExcessAmount,
		Allocations:       allocations,
		Status:            m.Status,
		IdempotencyKey:    m.IdempotencyKey,
		Note:              m.Note,
		CancelledAt:       m.CancelledAt,
	}, nil
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *finance.Payment) error {
	allocations := p.Allocations
	if allocations == nil {
		allocations = []finance.Allocation{}
	}
	raw, err := json.Marshal(allocations)
	if err != nil {
		return fmt.Errorf("encode allocations of payment %s: %w", p.ID, err)
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Type = p.Type
	m.CounterpartyID = p.CounterpartyID
	m.TargetInvoiceID = p.TargetInvoiceID
	m.Currency = p.Currency
	m.Amount = p.Amount
	m.AdvanceUsed = p.AdvanceUsed
	m.DirectAmount = p.DirectAmount
	m.ExcessAmount = p.ExcessAmount
	m.Allocations = string(raw)
	m.Status = p.Status
	m.IdempotencyKey = p.IdempotencyKey
	m.Note = p.Note
	m.CancelledAt = p.CancelledAt
	return nil
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *finance.Payment) (*PaymentModel, error) {
	m := &PaymentModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}
