package finance

import (
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// RecordInvoiceRequest records a sale or a purchase
type RecordInvoiceRequest struct {
	CounterpartyID *uuid.UUID      `json:"counterparty_id"`
	Type           string          `json:"type" binding:"required,oneof=sale purchase"`
	Currency       string          `json:"currency" binding:"required,oneof=IQD USD"`
	TotalAmount    decimal.Decimal `json:"total_amount" swaggertype:"string" example:"150000"`
	// PaidNow is paid at the time of the invoice and applied to it in the
	// same transaction
	PaidNow         *decimal.Decimal `json:"paid_now" swaggertype:"string"`
	AuthorizeExcess bool             `json:"authorize_excess"`
	InvoiceDate     *time.Time       `json:"invoice_date"`
	Number          string           `json:"number" binding:"max=50"`
	Note            string           `json:"note" binding:"max=500"`
}

// ApplyPaymentRequest applies money received from a customer or paid to a supplier
type ApplyPaymentRequest struct {
	Type            string          `json:"type" binding:"required,oneof=customer supplier"`
	CounterpartyID  *uuid.UUID      `json:"counterparty_id"`
	Currency        string          `json:"currency" binding:"required,oneof=IQD USD"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string" example:"25000"`
	UseAdvance      bool            `json:"use_advance"`
	TargetInvoiceID *uuid.UUID      `json:"target_invoice_id"`
	AuthorizeExcess bool            `json:"authorize_excess"`
	// IdempotencyKey is normally taken from the Idempotency-Key header
	IdempotencyKey string `json:"idempotency_key" binding:"max=100"`
	Note           string `json:"note" binding:"max=500"`
}

// CancelInvoiceRequest voids an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// =============================================================================
// Responses
// =============================================================================

// BalanceResponse is one ledger account position
type BalanceResponse struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	Advance        decimal.Decimal `json:"advance"`
	Net            decimal.Decimal `json:"net"`
	DisplayBalance decimal.Decimal `json:"display_balance"`
	DisplayAdvance decimal.Decimal `json:"display_advance"`
	Formatted      string          `json:"formatted"`
}

// BalancesResponse holds both currencies and the net in the reporting currency
type BalancesResponse struct {
	CounterpartyID    uuid.UUID         `json:"counterparty_id"`
	Balances          []BalanceResponse `json:"balances"`
	ReportingCurrency string            `json:"reporting_currency"`
	ReportingNet      decimal.Decimal   `json:"reporting_net"`
	ReportingRate     decimal.Decimal   `json:"reporting_rate"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Type            string          `json:"type"`
	CounterpartyID  *uuid.UUID      `json:"counterparty_id,omitempty"`
	Currency        string          `json:"currency"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CreditedAmount  decimal.Decimal `json:"credited_amount"`
	Status          string          `json:"status"`
	InvoiceDate     time.Time       `json:"invoice_date"`
	Note            string          `json:"note,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AllocationResponse is one allocation line of a payment
type AllocationResponse struct {
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	FromAdvance decimal.Decimal `json:"from_advance"`
	FromCash    decimal.Decimal `json:"from_cash"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID            `json:"id"`
	Type            string               `json:"type"`
	CounterpartyID  *uuid.UUID           `json:"counterparty_id,omitempty"`
	TargetInvoiceID *uuid.UUID           `json:"target_invoice_id,omitempty"`
	Currency        string               `json:"currency"`
	Amount          decimal.Decimal      `json:"amount"`
	AdvanceUsed     decimal.Decimal      `json:"advance_used"`
	DirectAmount    decimal.Decimal      `json:"direct_amount"`
	ExcessAmount    decimal.Decimal      `json:"excess_amount"`
	Allocations     []AllocationResponse `json:"allocations"`
	Status          string               `json:"status"`
	IdempotencyKey  *string              `json:"idempotency_key,omitempty"`
	Note            string               `json:"note,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// PaymentResult is returned by ApplyPayment
type PaymentResult struct {
	PaymentID    uuid.UUID         `json:"payment_id"`
	AdvanceUsed  decimal.Decimal   `json:"advance_used"`
	DirectAmount decimal.Decimal   `json:"direct_amount"`
	ExcessAmount decimal.Decimal   `json:"excess_amount"`
	Balance      *BalanceResponse  `json:"updated_balance,omitempty"`
	Invoices     []InvoiceResponse `json:"updated_invoices"`
	Payment      PaymentResponse   `json:"payment"`
	// Replayed is true when the result was served from an earlier request
	// with the same idempotency key
	Replayed bool `json:"replayed"`
}

// ReversalResult is returned by CancelPayment and RefundPayment
type ReversalResult struct {
	Payment  PaymentResponse   `json:"payment"`
	Balance  *BalanceResponse  `json:"updated_balance,omitempty"`
	Invoices []InvoiceResponse `json:"updated_invoices"`
}

// InvoiceResult is returned by RecordInvoice and CancelInvoice
type InvoiceResult struct {
	Invoice InvoiceResponse  `json:"invoice"`
	Payment *PaymentResponse `json:"payment,omitempty"`
	Balance *BalanceResponse `json:"updated_balance,omitempty"`
}

// ViolationResponse is one broken reconciliation rule
type ViolationResponse struct {
	Rule      string    `json:"rule"`
	SubjectID uuid.UUID `json:"subject_id"`
	Message   string    `json:"message"`
}

// ReconciliationResponse is the outcome of Check
type ReconciliationResponse struct {
	CounterpartyID uuid.UUID           `json:"counterparty_id"`
	Currency       string              `json:"currency"`
	Consistent     bool                `json:"consistent"`
	Balance        decimal.Decimal     `json:"balance"`
	Advance        decimal.Decimal     `json:"advance"`
	Net            decimal.Decimal     `json:"net"`
	OpenRemaining  decimal.Decimal     `json:"open_remaining"`
	HistoryAdvance decimal.Decimal     `json:"history_advance"`
	ExpectedNet    decimal.Decimal     `json:"expected_net"`
	Violations     []ViolationResponse `json:"violations"`
}

// LedgerEntryResponse is one movement of a ledger account
type LedgerEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	AdvanceBefore decimal.Decimal `json:"advance_before"`
	AdvanceAfter  decimal.Decimal `json:"advance_after"`
	SourceType    string          `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// =============================================================================
// Conversions
// =============================================================================

// ToBalanceResponse converts a snapshot
func ToBalanceResponse(s partner.BalanceSnapshot) BalanceResponse {
	return BalanceResponse{
		CounterpartyID: s.CounterpartyID,
		Currency:       s.Currency.String(),
		Balance:        s.Balance.Amount(),
		Advance:        s.Advance.Amount(),
		Net:            s.Net().Amount(),
		DisplayBalance: s.DisplayBalance().Amount(),
		DisplayAdvance: s.DisplayAdvance().Amount(),
		Formatted:      formatPosition(s),
	}
}

// ToInvoiceResponse converts an invoice
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		Number:          inv.Number,
		Type:            inv.Type.String(),
		CounterpartyID:  inv.CounterpartyID,
		Currency:        inv.Currency.String(),
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount,
		CreditedAmount:  inv.CreditedAmount,
		Status:          inv.Status.String(),
		InvoiceDate:     inv.InvoiceDate,
		Note:            inv.Note,
		CancelReason:    inv.CancelReason,
		CancelledAt:     inv.CancelledAt,
		Version:         inv.Version,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a list of invoices
func ToInvoiceResponses(invoices []*finance.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = ToInvoiceResponse(inv)
	}
	return out
}

// ToPaymentResponse converts a payment
func ToPaymentResponse(p *finance.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			InvoiceID:   a.InvoiceID,
			Amount:      a.Amount,
			FromAdvance: a.FromAdvance,
			FromCash:    a.FromCash,
		}
	}
	return PaymentResponse{
		ID:              p.ID,
		Type:            p.Type.String(),
		CounterpartyID:  p.CounterpartyID,
		TargetInvoiceID: p.TargetInvoiceID,
		Currency:        p.Currency.String(),
		Amount:          p.Amount,
		AdvanceUsed:     p.AdvanceUsed,
		DirectAmount:    p.DirectAmount,
		ExcessAmount:    p.ExcessAmount,
		Allocations:     allocations,
		Status:          p.Status.String(),
		IdempotencyKey:  p.IdempotencyKey,
		Note:            p.Note,
		CancelledAt:     p.CancelledAt,
		CreatedAt:       p.CreatedAt,
	}
}

// ToReconciliationResponse converts a report
func ToReconciliationResponse(r finance.ReconciliationReport) ReconciliationResponse {
	violations := make([]ViolationResponse, len(r.Violations))
	for i, v := range r.Violations {
		violations[i] = ViolationResponse{Rule: v.Rule, SubjectID: v.SubjectID, Message: v.Message}
	}
	return ReconciliationResponse{
		CounterpartyID: r.CounterpartyID,
		Currency:       r.Currency.String(),
		Consistent:     r.Consistent,
		Balance:        r.Balance.Amount(),
		Advance:        r.Advance.Amount(),
		Net:            r.Net.Amount(),
		OpenRemaining:  r.OpenRemaining.Amount(),
		HistoryAdvance: r.HistoryAdvance.Amount(),
		ExpectedNet:    r.ExpectedNet.Amount(),
		Violations:     violations,
	}
}

// ToLedgerEntryResponse converts a journal entry
func ToLedgerEntryResponse(e *partner.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		Kind:          e.Kind.String(),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		AdvanceBefore: e.AdvanceBefore,
		AdvanceAfter:  e.AdvanceAfter,
		SourceType:    e.SourceType.String(),
		SourceID:      e.SourceID,
		CreatedAt:     e.CreatedAt,
	}
}
