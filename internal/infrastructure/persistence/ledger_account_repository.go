package persistence

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLedgerAccountRepository implements partner.LedgerAccountRepository using GORM
type GormLedgerAccountRepository struct {
	db *gorm.DB
}

// NewGormLedgerAccountRepository creates a new GormLedgerAccountRepository
func NewGormLedgerAccountRepository(db *gorm.DB) *GormLedgerAccountRepository {
	return &GormLedgerAccountRepository{db: db}
}

// LockForUpdate opens the account if needed and locks its row.
//
// The insert uses ON CONFLICT DO NOTHING on (counterparty_id, currency) so
// two transactions opening the same account cannot both create it; the
// loser waits for the winner and then reads its row. SELECT ... FOR UPDATE
// serializes every mutation of one account. SQLite has no row locks and
// relies on its single connection instead.
func (r *GormLedgerAccountRepository) LockForUpdate(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) (*partner.LedgerAccount, error) {
	fresh, err := partner.NewLedgerAccount(counterpartyID, currency)
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "counterparty_id"}, {Name: "currency"}},
		DoNothing: true,
	}).Create(models.LedgerAccountModelFromDomain(fresh)).Error; err != nil {
		return nil, fmt.Errorf("open ledger account: %w", err)
	}

	var model models.LedgerAccountModel
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("counterparty_id = ? AND currency = ?", counterpartyID, currency).
		First(&model).Error; err != nil {
		return nil, notFound(err, "ledger account")
	}
	return model.ToDomain(), nil
}

// Find returns the account without locking
func (r *GormLedgerAccountRepository) Find(ctx context.Context, counterpartyID uuid.UUID, currency valueobject.Currency) (*partner.LedgerAccount, error) {
	var model models.LedgerAccountModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND currency = ?", counterpartyID, currency).
		First(&model).Error; err != nil {
		return nil, notFound(err, "ledger account")
	}
	return model.ToDomain(), nil
}

// FindByCounterparty returns every opened account of a counterparty
func (r *GormLedgerAccountRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*partner.LedgerAccount, error) {
	var rows []models.LedgerAccountModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ?", counterpartyID).
		Order("currency ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*partner.LedgerAccount, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Save persists balance and advance when the stored version still equals
// the version the account was loaded with, then bumps the version.
func (r *GormLedgerAccountRepository) Save(ctx context.Context, account *partner.LedgerAccount) error {
	result := r.db.WithContext(ctx).
		Model(&models.LedgerAccountModel{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]any{
			"balance":    account.Balance,
			"advance":    account.Advance,
			"version":    gorm.Expr("version + 1"),
			"updated_at": account.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage("ledger account was modified by another transaction")
	}
	account.IncrementVersion()
	return nil
}
