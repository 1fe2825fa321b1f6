package finance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// book is an in-memory stand-in for one counterparty's ledger in one
// currency, driving the aggregates the same way the application service does.
type book struct {
	t        *testing.T
	cp       uuid.UUID
	account  *partner.LedgerAccount
	invoices []*Invoice
	payments []*Payment
}

func newBook(t *testing.T, currency valueobject.Currency) *book {
	t.Helper()
	cp := uuid.New()
	acc, err := partner.NewLedgerAccount(cp, currency)
	require.NoError(t, err)
	return &book{t: t, cp: cp, account: acc}
}

func (b *book) invoice(total valueobject.Money) *Invoice {
	b.t.Helper()
	inv, err := NewInvoice(InvoiceTypeSale, &b.cp, total, time.Now().Add(time.Duration(len(b.invoices))*time.Minute))
	require.NoError(b.t, err)
	require.NoError(b.t, RecordInvoiceDebit(b.account, inv))
	b.invoices = append(b.invoices, inv)
	return inv
}

func (b *book) request(amount valueobject.Money, useAdvance bool, target *Invoice, authorize bool) SettlementRequest {
	req := SettlementRequest{
		Type:            PaymentTypeCustomer,
		CounterpartyID:  &b.cp,
		Amount:          amount,
		UseAdvance:      useAdvance,
		AuthorizeExcess: authorize,
	}
	if target != nil {
		req.TargetInvoiceID = &target.ID
	}
	return req
}

func (b *book) pay(req SettlementRequest) (*Payment, error) {
	candidates := b.invoices
	if req.TargetInvoiceID != nil {
		candidates = nil
		for _, inv := range b.invoices {
			if inv.ID == *req.TargetInvoiceID {
				candidates = []*Invoice{inv}
			}
		}
	}
	plan, err := PlanSettlement(req, b.account.AdvanceMoney(), candidates)
	if err != nil {
		return nil, err
	}
	p, err := NewPayment(req, plan)
	if err != nil {
		return nil, err
	}
	if _, err := ApplySettlement(b.account, candidates, p, req.AuthorizeExcess); err != nil {
		return nil, err
	}
	b.payments = append(b.payments, p)
	return p, nil
}

func (b *book) check() ReconciliationReport {
	return CheckReconciliation(b.account.Snapshot(), b.invoices, b.payments)
}

func (b *book) requireConsistent() {
	b.t.Helper()
	report := b.check()
	require.True(b.t, report.Consistent, "violations: %+v", report.Violations)
}

func TestScenario_FullPaymentSettlesInvoice(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(100000))

	p, err := b.pay(b.request(valueobject.NewIQD(100000), false, nil, false))
	require.NoError(t, err)

	assert.Equal(t, "100000", p.DirectAmount.String())
	assert.True(t, p.AdvanceUsed.IsZero())
	assert.True(t, p.ExcessAmount.IsZero())
	assert.True(t, inv.RemainingAmount.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	b.requireConsistent()
}

func TestScenario_AuthorizedExcessBecomesAdvance(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(100000))

	_, err := b.pay(b.request(valueobject.NewIQD(150000), false, inv, false))
	assert.ErrorIs(t, err, ErrOverpaymentNotAllowed)
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)

	p, err := b.pay(b.request(valueobject.NewIQD(150000), false, inv, true))
	require.NoError(t, err)

	assert.Equal(t, "100000", p.DirectAmount.String())
	assert.Equal(t, "50000", p.ExcessAmount.String())
	assert.True(t, b.account.AdvanceMoney().Equals(valueobject.NewIQD(50000)))
	assert.True(t, b.account.Balance.IsZero())
	b.requireConsistent()
}

func TestScenario_AdvanceCoversTenderBeforeCash(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	prepay, err := b.pay(b.request(valueobject.NewIQD(50000), false, nil, false))
	require.NoError(t, err)
	require.Equal(t, "50000", prepay.ExcessAmount.String())
	inv := b.invoice(valueobject.NewIQD(80000))

	p, err := b.pay(b.request(valueobject.NewIQD(30000), true, nil, false))
	require.NoError(t, err)

	assert.True(t, b.account.BalanceMoney().Equals(valueobject.NewIQD(50000)))
	assert.Equal(t, "30000", p.AdvanceUsed.String())
	assert.True(t, p.DirectAmount.IsZero())
	assert.True(t, p.ExcessAmount.IsZero())
	assert.True(t, inv.Remaining().Equals(valueobject.NewIQD(50000)))
	assert.True(t, b.account.AdvanceMoney().Equals(valueobject.NewIQD(20000)))
	b.requireConsistent()
}

func TestScenario_ZeroAmountRejected(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(1000))
	before := b.account.Snapshot()

	_, err := b.pay(b.request(valueobject.Zero(valueobject.IQD), true, inv, true))
	assert.ErrorIs(t, err, shared.ErrZeroAmount)

	_, err = b.pay(b.request(valueobject.NewIQD(-10), false, nil, false))
	assert.ErrorIs(t, err, shared.ErrNegativeAmount)

	assert.Equal(t, before, b.account.Snapshot())
	assert.Equal(t, InvoiceStatusUnpaid, inv.Status)
}

func TestPlanSettlement_FIFOAcrossInvoices(t *testing.T) {
	b := newBook(t, valueobject.USD)
	first := b.invoice(valueobject.NewUSD("100.00"))
	second := b.invoice(valueobject.NewUSD("50.00"))
	third := b.invoice(valueobject.NewUSD("25.00"))

	p, err := b.pay(b.request(valueobject.NewUSD("120.00"), false, nil, false))
	require.NoError(t, err)

	require.Len(t, p.Allocations, 2)
	assert.Equal(t, first.ID, p.Allocations[0].InvoiceID)
	assert.Equal(t, second.ID, p.Allocations[1].InvoiceID)
	assert.Equal(t, InvoiceStatusPaid, first.Status)
	assert.Equal(t, InvoiceStatusPartial, second.Status)
	assert.True(t, second.Remaining().Equals(valueobject.NewUSD("30.00")))
	assert.Equal(t, InvoiceStatusUnpaid, third.Status)
	b.requireConsistent()
}

func TestPlanSettlement_AccountLevelLeftoverNeedsNoAuthorization(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	b.invoice(valueobject.NewIQD(1000))

	p, err := b.pay(b.request(valueobject.NewIQD(5000), false, nil, false))
	require.NoError(t, err)
	assert.Equal(t, "4000", p.ExcessAmount.String())
	assert.True(t, b.account.AdvanceMoney().Equals(valueobject.NewIQD(4000)))
	b.requireConsistent()
}

func TestPlanSettlement_AdvanceThenCashAllocation(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	seed, err := b.pay(b.request(valueobject.NewIQD(3000), false, nil, false))
	require.NoError(t, err)
	require.Equal(t, "3000", seed.ExcessAmount.String())

	first := b.invoice(valueobject.NewIQD(2000))
	second := b.invoice(valueobject.NewIQD(4000))

	p, err := b.pay(b.request(valueobject.NewIQD(5000), true, nil, false))
	require.NoError(t, err)

	assert.Equal(t, "3000", p.AdvanceUsed.String())
	assert.Equal(t, "2000", p.DirectAmount.String())
	require.Len(t, p.Allocations, 2)
	assert.Equal(t, first.ID, p.Allocations[0].InvoiceID)
	assert.Equal(t, "2000", p.Allocations[0].FromAdvance.String())
	assert.True(t, p.Allocations[0].FromCash.IsZero())
	assert.Equal(t, "1000", p.Allocations[1].FromAdvance.String())
	assert.Equal(t, "2000", p.Allocations[1].FromCash.String())
	assert.True(t, second.Remaining().Equals(valueobject.NewIQD(1000)))
	b.requireConsistent()
}

func TestPlanSettlement_UseAdvanceWithoutAdvance(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(1000))

	withFlag, err := PlanSettlement(b.request(valueobject.NewIQD(600), true, inv, false), b.account.AdvanceMoney(), []*Invoice{inv})
	require.NoError(t, err)
	withoutFlag, err := PlanSettlement(b.request(valueobject.NewIQD(600), false, inv, false), b.account.AdvanceMoney(), []*Invoice{inv})
	require.NoError(t, err)

	assert.True(t, withFlag.AdvanceUsed.IsZero())
	assert.True(t, withFlag.DirectAmount.Equals(withoutFlag.DirectAmount))
	assert.True(t, withFlag.ExcessAmount.Equals(withoutFlag.ExcessAmount))
	assert.Equal(t, withoutFlag.Allocations[0].Amount.String(), withFlag.Allocations[0].Amount.String())
}

func TestPlanSettlement_TargetValidation(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(1000))
	zero := valueobject.Zero(valueobject.IQD)

	t.Run("other counterparty", func(t *testing.T) {
		other := uuid.New()
		req := b.request(valueobject.NewIQD(10), false, inv, false)
		req.CounterpartyID = &other
		_, err := PlanSettlement(req, zero, []*Invoice{inv})
		assert.ErrorIs(t, err, ErrInvoiceCounterpartyMismatch)
	})

	t.Run("wrong currency", func(t *testing.T) {
		req := b.request(valueobject.NewUSD("1.00"), false, inv, false)
		_, err := PlanSettlement(req, valueobject.Zero(valueobject.USD), []*Invoice{inv})
		assert.ErrorIs(t, err, shared.ErrCurrencyMismatch)
	})

	t.Run("supplier payment on a sale", func(t *testing.T) {
		req := b.request(valueobject.NewIQD(10), false, inv, false)
		req.Type = PaymentTypeSupplier
		_, err := PlanSettlement(req, zero, []*Invoice{inv})
		assert.ErrorIs(t, err, ErrInvoiceTypeMismatch)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := PlanSettlement(b.request(valueobject.NewIQD(10), false, inv, false), zero, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cancelled target", func(t *testing.T) {
		cancelled := b.invoice(valueobject.NewIQD(10))
		_, err := CancelInvoice(b.account, cancelled, "")
		require.NoError(t, err)
		_, err = PlanSettlement(b.request(valueobject.NewIQD(10), false, cancelled, false), zero, []*Invoice{cancelled})
		assert.ErrorIs(t, err, ErrInvoiceNotOpen)
	})
}

func TestPlanSettlement_Anonymous(t *testing.T) {
	walkIn := newSale(t, nil, 1000)

	t.Run("requires a target", func(t *testing.T) {
		req := SettlementRequest{Type: PaymentTypeCustomer, Amount: valueobject.NewIQD(100)}
		_, err := PlanSettlement(req, valueobject.Zero(valueobject.IQD), nil)
		assert.ErrorIs(t, err, ErrAnonymousTargetRequired)
	})

	t.Run("cannot use advance", func(t *testing.T) {
		req := SettlementRequest{Type: PaymentTypeCustomer, Amount: valueobject.NewIQD(100), TargetInvoiceID: &walkIn.ID, UseAdvance: true}
		_, err := PlanSettlement(req, valueobject.Zero(valueobject.IQD), []*Invoice{walkIn})
		assert.ErrorIs(t, err, ErrAnonymousAdvanceRejected)
	})

	t.Run("cannot generate advance even when authorized", func(t *testing.T) {
		req := SettlementRequest{Type: PaymentTypeCustomer, Amount: valueobject.NewIQD(1500), TargetInvoiceID: &walkIn.ID, AuthorizeExcess: true}
		_, err := PlanSettlement(req, valueobject.Zero(valueobject.IQD), []*Invoice{walkIn})
		assert.ErrorIs(t, err, ErrAnonymousAdvanceRejected)
	})

	t.Run("must target an anonymous invoice", func(t *testing.T) {
		cp := uuid.New()
		owned := newSale(t, &cp, 1000)
		req := SettlementRequest{Type: PaymentTypeCustomer, Amount: valueobject.NewIQD(100), TargetInvoiceID: &owned.ID}
		_, err := PlanSettlement(req, valueobject.Zero(valueobject.IQD), []*Invoice{owned})
		assert.ErrorIs(t, err, ErrAnonymousTargetRequired)
	})

	t.Run("settles without a ledger account", func(t *testing.T) {
		req := SettlementRequest{Type: PaymentTypeCustomer, Amount: valueobject.NewIQD(400), TargetInvoiceID: &walkIn.ID}
		plan, err := PlanSettlement(req, valueobject.Zero(valueobject.IQD), []*Invoice{walkIn})
		require.NoError(t, err)
		p, err := NewPayment(req, plan)
		require.NoError(t, err)
		touched, err := ApplySettlement(nil, []*Invoice{walkIn}, p, false)
		require.NoError(t, err)
		assert.Len(t, touched, 1)
		assert.True(t, walkIn.Remaining().Equals(valueobject.NewIQD(600)))
	})
}

func TestReverseSettlement_RestoresState(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	_, err := b.pay(b.request(valueobject.NewIQD(7000), false, nil, false))
	require.NoError(t, err)
	first := b.invoice(valueobject.NewIQD(4000))
	second := b.invoice(valueobject.NewIQD(6000))

	before := b.account.Snapshot()
	remainingBefore := []string{first.RemainingAmount.String(), second.RemainingAmount.String()}

	p, err := b.pay(b.request(valueobject.NewIQD(9000), true, nil, false))
	require.NoError(t, err)
	b.requireConsistent()

	_, err = ReverseSettlement(b.account, b.invoices, p, false)
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusCancelled, p.Status)
	assert.True(t, before.Balance.Equals(b.account.BalanceMoney()))
	assert.True(t, before.Advance.Equals(b.account.AdvanceMoney()))
	assert.Equal(t, remainingBefore, []string{first.RemainingAmount.String(), second.RemainingAmount.String()})
	b.requireConsistent()

	_, err = ReverseSettlement(b.account, b.invoices, p, false)
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
}

func TestReverseSettlement_Guards(t *testing.T) {
	t.Run("spent excess cannot be retracted", func(t *testing.T) {
		b := newBook(t, valueobject.IQD)
		prepay, err := b.pay(b.request(valueobject.NewIQD(5000), false, nil, false))
		require.NoError(t, err)
		b.invoice(valueobject.NewIQD(5000))
		_, err = b.pay(b.request(valueobject.NewIQD(5000), true, nil, false))
		require.NoError(t, err)

		_, err = ReverseSettlement(b.account, b.invoices, prepay, false)
		assert.ErrorIs(t, err, partner.ErrInsufficientAdvance)
	})

	t.Run("cancelled invoice blocks reversal", func(t *testing.T) {
		b := newBook(t, valueobject.IQD)
		inv := b.invoice(valueobject.NewIQD(5000))
		p, err := b.pay(b.request(valueobject.NewIQD(2000), false, inv, false))
		require.NoError(t, err)
		_, err = CancelInvoice(b.account, inv, "")
		require.NoError(t, err)

		_, err = ReverseSettlement(b.account, b.invoices, p, false)
		assert.ErrorIs(t, err, ErrInvoiceCancelled)
	})

	t.Run("refund marks payment refunded", func(t *testing.T) {
		b := newBook(t, valueobject.IQD)
		inv := b.invoice(valueobject.NewIQD(5000))
		p, err := b.pay(b.request(valueobject.NewIQD(2000), false, inv, false))
		require.NoError(t, err)

		_, err = ReverseSettlement(b.account, b.invoices, p, true)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatusRefunded, p.Status)
		b.requireConsistent()
	})
}

func TestCancelInvoice_ReleasesDebtAndCreditsPaid(t *testing.T) {
	b := newBook(t, valueobject.IQD)
	inv := b.invoice(valueobject.NewIQD(10000))
	other := b.invoice(valueobject.NewIQD(3000))
	_, err := b.pay(b.request(valueobject.NewIQD(4000), false, inv, false))
	require.NoError(t, err)

	result, err := CancelInvoice(b.account, inv, "wrong customer")
	require.NoError(t, err)

	assert.True(t, result.RemainingBefore.Equals(valueobject.NewIQD(6000)))
	assert.True(t, b.account.BalanceMoney().Equals(other.Remaining()))
	assert.True(t, b.account.AdvanceMoney().Equals(valueobject.NewIQD(4000)))
	b.requireConsistent()
}

// TestProperties_RandomSequences drives random operation sequences and
// checks every property after each step.
func TestProperties_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		b := newBook(t, valueobject.IQD)
		for step := 0; step < 40; step++ {
			switch op := rng.Intn(10); {
			case op < 3:
				b.invoice(valueobject.NewIQD(int64(1+rng.Intn(100)) * 1000))
			case op < 7:
				amount := valueobject.NewIQD(int64(1+rng.Intn(80)) * 500)
				var target *Invoice
				if len(b.invoices) > 0 && rng.Intn(2) == 0 {
					target = b.invoices[rng.Intn(len(b.invoices))]
				}
				p, err := b.pay(b.request(amount, rng.Intn(2) == 0, target, rng.Intn(2) == 0))
				if err == nil {
					sum := p.AdvanceUsed.Add(p.DirectAmount).Add(p.ExcessAmount)
					require.True(t, sum.Equal(p.Amount), "conservation")
				}
			case op < 9:
				if len(b.payments) > 0 {
					p := b.payments[rng.Intn(len(b.payments))]
					before := b.account.Snapshot()
					if _, err := ReverseSettlement(b.account, b.invoices, p, false); err != nil {
						require.Equal(t, before, b.account.Snapshot(), "failed reversal must not move the account")
					}
				}
			default:
				if len(b.invoices) > 0 {
					_, _ = CancelInvoice(b.account, b.invoices[rng.Intn(len(b.invoices))], "")
				}
			}

			b.requireConsistent()
			snap := b.account.Snapshot()
			assert.False(t, snap.DisplayBalance().IsPositive() && snap.DisplayAdvance().IsPositive(), "display exclusivity")
			for _, inv := range b.invoices {
				require.False(t, inv.RemainingAmount.IsNegative(), "no negative remaining")
			}
		}
	}
}
