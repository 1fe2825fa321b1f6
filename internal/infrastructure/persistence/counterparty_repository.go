package persistence

import (
	"context"
	"strings"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCounterpartyRepository implements partner.CounterpartyRepository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// FindByID finds a counterparty by its ID
func (r *GormCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "counterparty")
	}
	return model.ToDomain(), nil
}

// LockForShare reads the counterparty with SELECT ... FOR SHARE
func (r *GormCounterpartyRepository) LockForShare(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	return r.lock(ctx, id, "SHARE")
}

// LockForUpdate reads the counterparty with SELECT ... FOR UPDATE
func (r *GormCounterpartyRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*partner.Counterparty, error) {
	return r.lock(ctx, id, "UPDATE")
}

// lock is a no-op on SQLite, which serializes writers on its single connection
func (r *GormCounterpartyRepository) lock(ctx context.Context, id uuid.UUID, strength string) (*partner.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "counterparty")
	}
	return model.ToDomain(), nil
}

// List lists counterparties matching the filter, ordered by name
func (r *GormCounterpartyRepository) List(ctx context.Context, filter partner.CounterpartyFilter) ([]*partner.Counterparty, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CounterpartyModel{})
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.CounterpartyModel
	if err := query.Order("name ASC, id ASC").Limit(limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*partner.Counterparty, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new counterparty
func (r *GormCounterpartyRepository) Create(ctx context.Context, c *partner.Counterparty) error {
	return r.db.WithContext(ctx).Create(models.CounterpartyModelFromDomain(c)).Error
}

// Save updates a counterparty with optimistic locking
func (r *GormCounterpartyRepository) Save(ctx context.Context, c *partner.Counterparty) error {
	result := r.db.WithContext(ctx).
		Model(&models.CounterpartyModel{}).
		Where("id = ? AND version = ?", c.ID, c.Version).
		Updates(map[string]any{
			"name":       c.Name,
			"phone":      c.Phone,
			"note":       c.Note,
			"status":     c.Status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("counterparty was modified by another transaction")
	}
	c.IncrementVersion()
	return nil
}

// Delete soft-deletes a counterparty; its documents keep referring to it
func (r *GormCounterpartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CounterpartyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("counterparty not found")
	}
	return nil
}
