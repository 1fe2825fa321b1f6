package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var openInvoiceStatuses = []finance.InvoiceStatus{finance.InvoiceStatusUnpaid, finance.InvoiceStatusPartial}

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "invoice")
	}
	return model.ToDomain(), nil
}

// LockByID finds an invoice and locks its row until the transaction ends
func (r *GormInvoiceRepository) LockByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds several invoices by ID; missing IDs are skipped
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*finance.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// FindOpen returns open invoices of a counterparty in currency in allocation order
func (r *GormInvoiceRepository) FindOpen(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND currency = ? AND status IN ?", counterpartyID, currency, openInvoiceStatuses).
		Order("invoice_date ASC, created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// FindByCounterparty returns every invoice of a counterparty in currency
func (r *GormInvoiceRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*finance.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND currency = ?", counterpartyID, currency).
		Order("invoice_date ASC, created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// CountOpen counts the open invoices of a counterparty in any currency
func (r *GormInvoiceRepository) CountOpen(ctx context.Context, counterpartyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("counterparty_id = ? AND status IN ?", counterpartyID, openInvoiceStatuses).
		Count(&count).Error
	return count, err
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *finance.Invoice) error {
	if err := r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(inv)).Error; err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithMessage("invoice number " + inv.Number + " is already used")
		}
		return err
	}
	return nil
}

// Save updates an invoice's amounts and status with optimistic locking
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *finance.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", inv.ID, inv.Version).
		Updates(map[string]any{
			"paid_amount":      inv.PaidAmount,
			"remaining_amount": inv.RemainingAmount,
			"credited_amount":  inv.CreditedAmount,
			"status":           inv.Status,
			"note":             inv.Note,
			"cancel_reason":    inv.CancelReason,
			"cancelled_at":     inv.CancelledAt,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       inv.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("invoice " + inv.Number + " was modified by another transaction")
	}
	inv.IncrementVersion()
	return nil
}

func invoicesToDomain(rows []models.InvoiceModel) []*finance.Invoice {
	out := make([]*finance.Invoice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
