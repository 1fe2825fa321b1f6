package persistence

import (
	"context"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements partner.LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Append stores journal entries in one batch insert
func (r *GormLedgerEntryRepository) Append(ctx context.Context, entries ...*partner.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.LedgerEntryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

// List returns the newest entries of one account first
func (r *GormLedgerEntryRepository) List(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency, limit int) ([]*partner.LedgerEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND currency = ?", counterpartyID, currency).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*partner.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
