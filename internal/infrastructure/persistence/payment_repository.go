package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return model.ToDomain()
}

// FindByIdempotencyKey finds the payment created with key
func (r *GormPaymentRepository) FindByIdempotencyKey(ctx context.Context, key string) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "idempotency_key = ?", key).Error; err != nil {
		return nil, notFound(err, "payment")
	}
	return model.ToDomain()
}

// FindByCounterparty returns every payment of a counterparty in currency, oldest first
func (r *GormPaymentRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) ([]*finance.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND currency = ?", counterpartyID, currency).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*finance.Payment, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Create inserts a new payment. A duplicate idempotency key is reported
// as ALREADY_EXISTS so the caller can replay the original payment.
func (r *GormPaymentRepository) Create(ctx context.Context, p *finance.Payment) error {
	model, err := models.PaymentModelFromDomain(p)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists.WithMessage("a payment with this idempotency key already exists")
		}
		return err
	}
	return nil
}

// Save updates a payment's status with optimistic locking
func (r *GormPaymentRepository) Save(ctx context.Context, p *finance.Payment) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(map[string]any{
			"status":       p.Status,
			"note":         p.Note,
			"cancelled_at": p.CancelledAt,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("payment was modified by another transaction")
	}
	p.IncrementVersion()
	return nil
}
