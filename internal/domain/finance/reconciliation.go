package finance

import (
	"fmt"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reconciliation rule names reported in violations
const (
	RuleNonNegative      = "non_negative"
	RuleBalanceMatches   = "balance_matches_open_invoices"
	RuleAdvanceMatches   = "advance_matches_history"
	RuleNetPosition      = "net_position"
	RuleInvoiceRemaining = "invoice_remaining"
	RuleInvoiceCurrency  = "invoice_currency"
	RulePaymentItemized  = "payment_itemized"
	RulePaymentCurrency  = "payment_currency"
)

// Violation is one broken reconciliation rule
type Violation struct {
	Rule      string    `json:"rule"`
	SubjectID uuid.UUID `json:"subject_id"`
	Message   string    `json:"message"`
}

// ReconciliationReport is the outcome of CheckReconciliation
type ReconciliationReport struct {
	CounterpartyID uuid.UUID
	Currency       valueobject.Currency
	Consistent     bool
	Balance        valueobject.Money
	Advance        valueobject.Money
	Net            valueobject.Money
	OpenRemaining  valueobject.Money
	// HistoryAdvance is the advance implied by payment and cancellation history
	HistoryAdvance valueobject.Money
	// ExpectedNet is OpenRemaining minus HistoryAdvance
	ExpectedNet valueobject.Money
	Violations  []Violation
}

// CheckReconciliation recomputes one counterparty's position in one currency
// from its invoices and payments and compares it with the stored account.
//
// invoices and payments must be every invoice and payment of the counterparty
// in the account's currency, whatever their status. The check is O(n) in
// their number and is meant for tests, diagnostics and non-production
// post-commit verification.
func CheckReconciliation(snapshot partner.BalanceSnapshot, invoices []*Invoice, payments []*Payment) ReconciliationReport {
	currency := snapshot.Currency
	report := ReconciliationReport{
		CounterpartyID: snapshot.CounterpartyID,
		Currency:       currency,
		Balance:        snapshot.Balance,
		Advance:        snapshot.Advance,
		Net:            snapshot.Net(),
	}
	violate := func(rule string, subject uuid.UUID, format string, args ...any) {
		report.Violations = append(report.Violations, Violation{
			Rule:      rule,
			SubjectID: subject,
			Message:   fmt.Sprintf(format, args...),
		})
	}

	if snapshot.Balance.IsNegative() {
		violate(RuleNonNegative, snapshot.CounterpartyID, "balance %s is negative", snapshot.Balance)
	}
	if snapshot.Advance.IsNegative() {
		violate(RuleNonNegative, snapshot.CounterpartyID, "advance %s is negative", snapshot.Advance)
	}

	openRemaining := decimal.Zero
	historyAdvance := decimal.Zero
	for _, inv := range invoices {
		if inv.Currency != currency {
			violate(RuleInvoiceCurrency, inv.ID, "invoice %s is in %s", inv.Number, inv.Currency)
			continue
		}
		if err := inv.CheckRemaining(); err != nil {
			violate(RuleInvoiceRemaining, inv.ID, "invoice %s: %v", inv.Number, err)
		}
		if inv.RemainingAmount.IsNegative() {
			violate(RuleNonNegative, inv.ID, "invoice %s remaining %s is negative", inv.Number, inv.RemainingAmount)
		}
		if inv.IsOpen() {
			openRemaining = openRemaining.Add(inv.RemainingAmount)
		}
		if inv.Status == InvoiceStatusCancelled {
			historyAdvance = historyAdvance.Add(inv.CreditedAmount)
		}
	}

	for _, p := range payments {
		if p.Currency != currency {
			violate(RulePaymentCurrency, p.ID, "payment is in %s", p.Currency)
			continue
		}
		if err := p.CheckItemization(); err != nil {
			violate(RulePaymentItemized, p.ID, "%v", err)
		}
		if p.IsCompleted() {
			historyAdvance = historyAdvance.Add(p.ExcessAmount).Sub(p.AdvanceUsed)
		}
	}

	report.OpenRemaining = valueobject.MoneyOf(openRemaining, currency)
	report.HistoryAdvance = valueobject.MoneyOf(historyAdvance, currency)
	report.ExpectedNet = valueobject.MoneyOf(openRemaining.Sub(historyAdvance), currency)

	if !snapshot.Balance.Amount().Equal(openRemaining) {
		violate(RuleBalanceMatches, snapshot.CounterpartyID,
			"balance %s, open invoices owe %s", snapshot.Balance, report.OpenRemaining)
	}
	if !snapshot.Advance.Amount().Equal(historyAdvance) {
		violate(RuleAdvanceMatches, snapshot.CounterpartyID,
			"advance %s, history implies %s", snapshot.Advance, report.HistoryAdvance)
	}
	if !report.Net.Equals(report.ExpectedNet) {
		violate(RuleNetPosition, snapshot.CounterpartyID,
			"balance - advance = %s, expected %s", report.Net, report.ExpectedNet)
	}

	report.Consistent = len(report.Violations) == 0
	return report
}
