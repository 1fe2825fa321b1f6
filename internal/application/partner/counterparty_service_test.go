package partner

import (
	"context"
	"testing"
	"time"

	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func eventTypes(events []shared.DomainEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}

func newTestService(t *testing.T) (*CounterpartyService, finance.UnitOfWork, *MockEventPublisher) {
	t.Helper()
	db, err := persistence.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	uow := persistence.NewGormUnitOfWork(db.DB)
	publisher := new(MockEventPublisher)
	return NewCounterpartyService(uow, publisher), uow, publisher
}

func TestCounterpartyService_Create(t *testing.T) {
	svc, _, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return assert.ObjectsAreEqual([]string{partner.EventTypeCounterpartyCreated}, eventTypes(events))
	})).Return(nil).Once()

	resp, err := svc.Create(context.Background(), CreateCounterpartyRequest{
		Kind: "supplier", Name: "  Erbil Trading  ", Phone: "0750 111 2222", Note: "cash only",
	})
	require.NoError(t, err)
	assert.Equal(t, "supplier", resp.Kind)
	assert.Equal(t, "Erbil Trading", resp.Name)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "cash only", resp.Note)
	publisher.AssertExpectations(t)

	got, err := svc.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
	assert.Empty(t, got.Accounts)

	_, err = svc.Create(context.Background(), CreateCounterpartyRequest{Kind: "employee", Name: "x"})
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), CreateCounterpartyRequest{Kind: "customer", Name: "   "})
	assert.Error(t, err)
}

func TestCounterpartyService_UpdateAndStatus(t *testing.T) {
	svc, _, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Create(context.Background(), CreateCounterpartyRequest{Kind: "customer", Name: "Mosul Pharmacy"})
	require.NoError(t, err)

	phone := "0780 999 0000"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCounterpartyRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Mosul Pharmacy", updated.Name)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, created.Version+1, updated.Version)

	deactivated, err := svc.Deactivate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", deactivated.Status)

	_, err = svc.Deactivate(context.Background(), created.ID)
	assert.Equal(t, "ALREADY_INACTIVE", shared.GetErrorCode(err))

	activated, err := svc.Activate(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", activated.Status)

	_, err = svc.Update(context.Background(), uuid.New(), UpdateCounterpartyRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	publisher.AssertNumberOfCalls(t, "Publish", 4)
}

func TestCounterpartyService_List(t *testing.T) {
	svc, _, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	for _, req := range []CreateCounterpartyRequest{
		{Kind: "customer", Name: "Alpha Market"},
		{Kind: "customer", Name: "Beta Market"},
		{Kind: "supplier", Name: "Gamma Imports"},
	} {
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	}

	customers, total, err := svc.List(context.Background(), CounterpartyListFilter{Kind: "customer"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, customers, 2)

	page, total, err := svc.List(context.Background(), CounterpartyListFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)

	found, _, err := svc.List(context.Background(), CounterpartyListFilter{Search: "Gamma"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "supplier", found[0].Kind)
}

func TestCounterpartyService_Delete(t *testing.T) {
	svc, uow, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Create(context.Background(), CreateCounterpartyRequest{Kind: "customer", Name: "Najaf Books"})
	require.NoError(t, err)

	inv, err := finance.NewInvoice(finance.InvoiceTypeSale, &created.ID, valueobject.NewIQD(5000), time.Now())
	require.NoError(t, err)
	require.NoError(t, uow.Repositories().Invoices().Create(context.Background(), inv))

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, partner.ErrCounterpartyHasOpenInvoices)

	_, err = inv.Cancel("test")
	require.NoError(t, err)
	require.NoError(t, uow.Repositories().Invoices().Save(context.Background(), inv))

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	last := publisher.Calls[len(publisher.Calls)-1]
	assert.Equal(t, []string{partner.EventTypeCounterpartyDeleted}, eventTypes(last.Arguments.Get(1).([]shared.DomainEvent)))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCounterpartyService_DeleteKeepsAdvanceReachable(t *testing.T) {
	svc, uow, publisher := newTestService(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	ledger := financeapp.NewLedgerService(uow)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCounterpartyRequest{Kind: "customer", Name: "Kufa Dates"})
	require.NoError(t, err)

	prepaid, err := ledger.ApplyPayment(ctx, financeapp.ApplyPaymentRequest{
		Type:           "customer",
		CounterpartyID: &created.ID,
		Currency:       "IQD",
		Amount:         decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	require.True(t, prepaid.Balance.Advance.Equal(decimal.NewFromInt(50000)))

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, partner.ErrCounterpartyHasAdvance)

	// The counterparty is still there, so the prepayment can be reversed
	_, err = ledger.CancelPayment(ctx, prepaid.PaymentID)
	require.NoError(t, err)
	balance, err := ledger.GetBalance(ctx, created.ID, "IQD")
	require.NoError(t, err)
	assert.True(t, balance.Advance.IsZero())

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = ledger.GetBalance(ctx, created.ID, "IQD")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
