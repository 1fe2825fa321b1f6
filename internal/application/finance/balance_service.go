package finance

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DefaultEntryLimit is used by ListLedgerEntries when no limit is given
const DefaultEntryLimit = 50

// GetBalance returns the counterparty's position in one currency. A
// counterparty that never traded in the currency has a zero position.
func (s *LedgerService) GetBalance(ctx context.Context, counterpartyID uuid.UUID, currency string) (*BalanceResponse, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	repos := s.uow.Repositories()
	if _, err := repos.Counterparties().FindByID(ctx, counterpartyID); err != nil {
		return nil, err
	}
	snapshot, err := s.snapshot(ctx, repos, counterpartyID, cur)
	if err != nil {
		return nil, err
	}
	resp := ToBalanceResponse(snapshot)
	return &resp, nil
}

// GetBalances returns the position in both currencies and the combined net
// converted to the reporting currency
func (s *LedgerService) GetBalances(ctx context.Context, counterpartyID uuid.UUID) (*BalancesResponse, error) {
	repos := s.uow.Repositories()
	if _, err := repos.Counterparties().FindByID(ctx, counterpartyID); err != nil {
		return nil, err
	}

	rate := s.cfg.ReportingRate
	resp := &BalancesResponse{
		CounterpartyID:    counterpartyID,
		ReportingCurrency: rate.To().String(),
		ReportingRate:     rate.Rate(),
	}
	nets := make([]valueobject.Money, 0, len(valueobject.SupportedCurrencies))
	for _, cur := range valueobject.SupportedCurrencies {
		snapshot, err := s.snapshot(ctx, repos, counterpartyID, cur)
		if err != nil {
			return nil, err
		}
		resp.Balances = append(resp.Balances, ToBalanceResponse(snapshot))
		nets = append(nets, snapshot.Net())
	}
	total, err := valueobject.SumInReportingCurrency(rate, nets...)
	if err != nil {
		return nil, err
	}
	resp.ReportingNet = total.Amount()
	return resp, nil
}

// Check recomputes the position from invoice and payment history and reports
// every rule the stored ledger breaks
func (s *LedgerService) Check(ctx context.Context, counterpartyID uuid.UUID, currency string) (*ReconciliationResponse, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	if _, err := s.uow.Repositories().Counterparties().FindByID(ctx, counterpartyID); err != nil {
		return nil, err
	}
	report, err := s.check(ctx, counterpartyID, cur)
	if err != nil {
		return nil, err
	}
	resp := ToReconciliationResponse(report)
	return &resp, nil
}

// check reads the account and its history in one transaction while holding the
// account lock every ledger mutation takes, so the three reads agree
func (s *LedgerService) check(ctx context.Context, counterpartyID uuid.UUID, cur valueobject.Currency) (finance.ReconciliationReport, error) {
	var report finance.ReconciliationReport
	err := s.uow.Do(ctx, func(ctx context.Context, repos finance.Repositories) error {
		account, err := repos.Accounts().LockForUpdate(ctx, counterpartyID, cur)
		if err != nil {
			return err
		}
		invoices, err := repos.Invoices().FindByCounterparty(ctx, counterpartyID, cur)
		if err != nil {
			return err
		}
		payments, err := repos.Payments().FindByCounterparty(ctx, counterpartyID, cur)
		if err != nil {
			return err
		}
		report = finance.CheckReconciliation(account.Snapshot(), invoices, payments)
		return nil
	})
	return report, err
}

// ListLedgerEntries returns the newest movements of one account first
func (s *LedgerService) ListLedgerEntries(ctx context.Context, counterpartyID uuid.UUID, currency string, limit int) ([]LedgerEntryResponse, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultEntryLimit
	}
	repos := s.uow.Repositories()
	if _, err := repos.Counterparties().FindByID(ctx, counterpartyID); err != nil {
		return nil, err
	}
	entries, err := repos.Entries().List(ctx, counterpartyID, cur, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out, nil
}

func (s *LedgerService) snapshot(ctx context.Context, repos finance.Repositories, counterpartyID uuid.UUID, cur valueobject.Currency) (partner.BalanceSnapshot, error) {
	account, err := repos.Accounts().Find(ctx, counterpartyID, cur)
	if errors.Is(err, shared.ErrNotFound) {
		return partner.EmptySnapshot(counterpartyID, cur), nil
	}
	if err != nil {
		return partner.BalanceSnapshot{}, err
	}
	return account.Snapshot(), nil
}
