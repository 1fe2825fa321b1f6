package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database with the schema
func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newMockDB opens gorm on the postgres dialect over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func createCustomer(t *testing.T, db *gorm.DB) *partner.Counterparty {
	t.Helper()
	c, err := partner.NewCustomer("Ahmed Stores", "0770 000 0000")
	require.NoError(t, err)
	require.NoError(t, NewGormCounterpartyRepository(db).Create(t.Context(), c))
	return c
}

func createSale(t *testing.T, db *gorm.DB, cpID *uuid.UUID, total valueobject.Money, date time.Time) *finance.Invoice {
	t.Helper()
	inv, err := finance.NewInvoice(finance.InvoiceTypeSale, cpID, total, date)
	require.NoError(t, err)
	require.NoError(t, NewGormInvoiceRepository(db).Create(t.Context(), inv))
	return inv
}
