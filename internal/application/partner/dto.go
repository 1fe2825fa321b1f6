package partner

import (
	"time"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCounterpartyRequest registers a customer or supplier
type CreateCounterpartyRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=customer supplier"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
	Note  string `json:"note" binding:"max=500"`
}

// UpdateCounterpartyRequest changes descriptive fields; nil fields are kept
type UpdateCounterpartyRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Note  *string `json:"note" binding:"omitempty,max=500"`
}

// CounterpartyListFilter holds list query parameters
type CounterpartyListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=customer supplier"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// AccountPosition is one opened ledger account of a counterparty
type AccountPosition struct {
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	Advance        decimal.Decimal `json:"advance"`
	DisplayBalance decimal.Decimal `json:"display_balance"`
	DisplayAdvance decimal.Decimal `json:"display_advance"`
}

// CounterpartyResponse represents a counterparty in API responses
type CounterpartyResponse struct {
	ID        uuid.UUID         `json:"id"`
	Kind      string            `json:"kind"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone,omitempty"`
	Note      string            `json:"note,omitempty"`
	Status    string            `json:"status"`
	Accounts  []AccountPosition `json:"accounts,omitempty"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToCounterpartyResponse converts a counterparty without its accounts
func ToCounterpartyResponse(c *partner.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		ID:        c.ID,
		Kind:      c.Kind.String(),
		Name:      c.Name,
		Phone:     c.Phone,
		Note:      c.Note,
		Status:    string(c.Status),
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toAccountPosition(a *partner.LedgerAccount) AccountPosition {
	s := a.Snapshot()
	return AccountPosition{
		Currency:       a.Currency.String(),
		Balance:        a.Balance,
		Advance:        a.Advance,
		DisplayBalance: s.DisplayBalance().Amount(),
		DisplayAdvance: s.DisplayAdvance().Amount(),
	}
}
