package integration

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	financeapp "github.com/erp/ledger/internal/application/finance"
	partnerapp "github.com/erp/ledger/internal/application/partner"
	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/erp/ledger/internal/interfaces/http/router"
	"github.com/erp/ledger/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type ledgerSetup struct {
	db             *TestDB
	uow            *persistence.GormUnitOfWork
	events         *testutil.RecordingPublisher
	ledger         *financeapp.LedgerService
	counterparties *partnerapp.CounterpartyService
}

func newLedgerSetup(t *testing.T) *ledgerSetup {
	t.Helper()
	db := NewSharedTestDB(t)
	uow := persistence.NewGormUnitOfWork(db.DB)
	events := testutil.NewRecordingPublisher()
	return &ledgerSetup{
		db:             db,
		uow:            uow,
		events:         events,
		ledger:         newLedgerService(uow, events),
		counterparties: partnerapp.NewCounterpartyService(uow, events),
	}
}

// newLedgerService builds a service with its own key cache, like a separate
// server process would have
func newLedgerService(uow *persistence.GormUnitOfWork, events shared.EventPublisher) *financeapp.LedgerService {
	return financeapp.NewLedgerService(uow,
		financeapp.WithEventPublisher(events),
		financeapp.WithIdempotencyStore(cache.NewInMemoryIdempotencyStore()),
		financeapp.WithConfig(financeapp.Config{
			MaxRetries:        10,
			RetryBackoff:      5 * time.Millisecond,
			VerifyAfterCommit: true,
			Idempotency:       shared.IdempotencyConfig{TTL: time.Hour, Enabled: true},
			Retryable:         persistence.IsRetryable,
		}),
	)
}

func (s *ledgerSetup) customer(t *testing.T, name string) uuid.UUID {
	t.Helper()
	created, err := s.counterparties.Create(context.Background(), partnerapp.CreateCounterpartyRequest{Kind: "customer", Name: name})
	require.NoError(t, err)
	return created.ID
}

func (s *ledgerSetup) sale(t *testing.T, cpID uuid.UUID, currency string, total int64, date time.Time) financeapp.InvoiceResponse {
	t.Helper()
	res, err := s.ledger.RecordInvoice(context.Background(), financeapp.RecordInvoiceRequest{
		CounterpartyID: &cpID,
		Type:           "sale",
		Currency:       currency,
		TotalAmount:    decimal.NewFromInt(total),
		InvoiceDate:    &date,
	})
	require.NoError(t, err)
	return res.Invoice
}

func (s *ledgerSetup) requireConsistent(t *testing.T, cpID uuid.UUID, currency string) *financeapp.ReconciliationResponse {
	t.Helper()
	report, err := s.ledger.Check(context.Background(), cpID, currency)
	require.NoError(t, err)
	require.True(t, report.Consistent, "violations: %+v", report.Violations)
	return report
}

func payment(cpID uuid.UUID, currency string, amount int64) financeapp.ApplyPaymentRequest {
	return financeapp.ApplyPaymentRequest{
		Type:           "customer",
		CounterpartyID: &cpID,
		Currency:       currency,
		Amount:         decimal.NewFromInt(amount),
	}
}

func TestLedger_SettlementOnPostgres(t *testing.T) {
	s := newLedgerSetup(t)
	ctx := context.Background()
	cpID := s.customer(t, "Mansour Electronics")
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	older := s.sale(t, cpID, "USD", 300, day)
	newer := s.sale(t, cpID, "USD", 200, day.AddDate(0, 0, 5))
	s.sale(t, cpID, "IQD", 250000, day)

	t.Run("oldest invoice is settled first", func(t *testing.T) {
		res, err := s.ledger.ApplyPayment(ctx, payment(cpID, "USD", 350))
		require.NoError(t, err)
		require.Len(t, res.Payment.Allocations, 2)
		assert.Equal(t, older.ID, res.Payment.Allocations[0].InvoiceID)
		testutil.AssertDecimal(t, "300", res.Payment.Allocations[0].Amount)
		assert.Equal(t, newer.ID, res.Payment.Allocations[1].InvoiceID)
		testutil.AssertDecimal(t, "50", res.Payment.Allocations[1].Amount)
		testutil.AssertDecimal(t, "150", res.Balance.Balance)
	})

	t.Run("currencies never mix", func(t *testing.T) {
		iqd, err := s.ledger.GetBalance(ctx, cpID, "IQD")
		require.NoError(t, err)
		testutil.AssertDecimal(t, "250000", iqd.Balance)
		testutil.AssertDecimal(t, "0", iqd.Advance)
	})

	t.Run("authorized excess becomes advance", func(t *testing.T) {
		res, err := s.ledger.ApplyPayment(ctx, financeapp.ApplyPaymentRequest{
			Type:            "customer",
			CounterpartyID:  &cpID,
			Currency:        "USD",
			Amount:          decimal.NewFromInt(200),
			AuthorizeExcess: true,
		})
		require.NoError(t, err)
		testutil.AssertDecimal(t, "150", res.DirectAmount)
		testutil.AssertDecimal(t, "50", res.ExcessAmount)
		testutil.AssertDecimal(t, "0", res.Balance.DisplayBalance)
		testutil.AssertDecimal(t, "50", res.Balance.DisplayAdvance)
	})

	t.Run("advance settles a later invoice", func(t *testing.T) {
		later := s.sale(t, cpID, "USD", 80, day.AddDate(0, 1, 0))
		req := payment(cpID, "USD", 80)
		req.UseAdvance = true
		req.TargetInvoiceID = &later.ID
		res, err := s.ledger.ApplyPayment(ctx, req)
		require.NoError(t, err)
		testutil.AssertDecimal(t, "50", res.AdvanceUsed)
		testutil.AssertDecimal(t, "30", res.DirectAmount)
		testutil.AssertDecimal(t, "0", res.Balance.Advance)
	})

	report := s.requireConsistent(t, cpID, "USD")
	testutil.AssertDecimal(t, "0", report.Net)
	s.requireConsistent(t, cpID, "IQD")

	entries, err := s.ledger.ListLedgerEntries(ctx, cpID, "USD", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.GreaterOrEqual(t, s.events.CountOf(finance.EventTypePaymentApplied), 3)
}

func TestLedger_CancelPartiallyPaidInvoice(t *testing.T) {
	s := newLedgerSetup(t)
	ctx := context.Background()
	cpID := s.customer(t, "Zaytoun Bakery")

	inv := s.sale(t, cpID, "IQD", 90000, time.Now().AddDate(0, 0, -3))
	_, err := s.ledger.ApplyPayment(ctx, payment(cpID, "IQD", 40000))
	require.NoError(t, err)

	res, err := s.ledger.CancelInvoice(ctx, inv.ID, financeapp.CancelInvoiceRequest{Reason: "returned goods"})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "40000", res.Invoice.CreditedAmount)

	balance, err := s.ledger.GetBalance(ctx, cpID, "IQD")
	require.NoError(t, err)
	testutil.AssertDecimal(t, "0", balance.Balance)
	testutil.AssertDecimal(t, "40000", balance.Advance)
	s.requireConsistent(t, cpID, "IQD")

	_, err = s.ledger.CancelInvoice(ctx, inv.ID, financeapp.CancelInvoiceRequest{})
	assert.ErrorIs(t, err, finance.ErrInvoiceAlreadyCancelled)
}

func TestLedger_ConcurrentPaymentsOnOneLedger(t *testing.T) {
	s := newLedgerSetup(t)
	ctx := context.Background()
	cpID := s.customer(t, "Rafidain Traders")
	for i := range 5 {
		s.sale(t, cpID, "IQD", 10000, time.Now().AddDate(0, 0, -10+i))
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := payment(cpID, "IQD", 10000)
			req.AuthorizeExcess = true
			_, err := s.ledger.ApplyPayment(ctx, req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := s.ledger.GetBalance(ctx, cpID, "IQD")
	require.NoError(t, err)
	testutil.AssertDecimal(t, "0", balance.Balance)
	testutil.AssertDecimal(t, "30000", balance.Advance)

	open, err := s.ledger.ListOpenInvoices(ctx, cpID, "IQD")
	require.NoError(t, err)
	assert.Empty(t, open)
	s.requireConsistent(t, cpID, "IQD")
}

func TestLedger_ConcurrentRetriesWithSameKey(t *testing.T) {
	s := newLedgerSetup(t)
	ctx := context.Background()
	cpID := s.customer(t, "Tigris Pharmacy")
	s.sale(t, cpID, "USD", 500, time.Now().AddDate(0, 0, -1))

	const attempts = 6
	var wg sync.WaitGroup
	results := make(chan *financeapp.PaymentResult, attempts)
	errs := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		// separate services share only the database, as separate processes would
		svc := newLedgerService(s.uow, s.events)
		go func() {
			defer wg.Done()
			req := payment(cpID, "USD", 120)
			req.IdempotencyKey = "pos-3-receipt-981"
			res, err := svc.ApplyPayment(ctx, req)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	ids := map[uuid.UUID]int{}
	replays := 0
	for res := range results {
		ids[res.Payment.ID]++
		if res.Replayed {
			replays++
		}
	}
	assert.Len(t, ids, 1, "every attempt must resolve to the same payment")
	assert.Equal(t, attempts-1, replays)

	balance, err := s.ledger.GetBalance(ctx, cpID, "USD")
	require.NoError(t, err)
	testutil.AssertDecimal(t, "380", balance.Balance)
	s.requireConsistent(t, cpID, "USD")
}

func TestLedger_HTTPOnPostgres(t *testing.T) {
	s := newLedgerSetup(t)
	require.NoError(t, middleware.SetupValidator())

	engine := gin.New()
	engine.Use(middleware.RequestID(), logger.Recovery(zap.NewNop()))
	r := router.NewRouter(engine).
		Register(router.CounterpartyRoutes(handler.NewCounterpartyHandler(s.counterparties)))
	for _, registrar := range router.LedgerRoutes(handler.NewLedgerHandler(s.ledger)) {
		r.Register(registrar)
	}
	r.Setup()
	api := testutil.NewAPIClient(engine, "/api/v1")

	w := api.Do(t, http.MethodPost, "/counterparties", map[string]any{"kind": "supplier", "name": "Basra Cement"}, nil)
	testutil.RequireStatus(t, http.StatusCreated, w)
	supplier := testutil.Decode[partnerapp.CounterpartyResponse](t, w).Data

	w = api.Get(t, "/counterparties?kind=supplier&page_size=100")
	testutil.RequireStatus(t, http.StatusOK, w)
	list := testutil.Decode[[]partnerapp.CounterpartyResponse](t, w)
	require.NotNil(t, list.Meta)
	assert.GreaterOrEqual(t, list.Meta.Total, int64(1))

	w = api.Do(t, http.MethodPost, "/payments", map[string]any{
		"type":            "customer",
		"counterparty_id": supplier.ID,
		"currency":        "IQD",
		"amount":          "1000",
	}, nil)
	testutil.RequireStatus(t, http.StatusUnprocessableEntity, w)
	testutil.RequireErrorCode(t, w, "ERR_COUNTERPARTY_KIND_MISMATCH")

	w = api.Do(t, http.MethodPost, "/counterparties/"+supplier.ID.String()+"/deactivate", nil, nil)
	testutil.RequireStatus(t, http.StatusOK, w)

	w = api.Do(t, http.MethodDelete, "/counterparties/"+supplier.ID.String(), nil, nil)
	testutil.RequireStatus(t, http.StatusNoContent, w)

	w = api.Get(t, "/counterparties/"+supplier.ID.String())
	testutil.RequireStatus(t, http.StatusNotFound, w)
}
