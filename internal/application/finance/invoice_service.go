package finance

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecordInvoice records a sale or purchase and debits the counterparty's
// ledger with its total. An amount paid on the spot is applied to the new
// invoice as a targeted payment in the same transaction.
func (s *LedgerService) RecordInvoice(ctx context.Context, req RecordInvoiceRequest) (*InvoiceResult, error) {
	var result *InvoiceResult
	err := s.observe(ctx, OpRecordInvoice, scopeOf(req.CounterpartyID, req.Currency), func(ctx context.Context) error {
		var err error
		result, err = s.recordInvoice(ctx, req)
		return err
	})
	return result, err
}

func (s *LedgerService) recordInvoice(ctx context.Context, req RecordInvoiceRequest) (*InvoiceResult, error) {
	total, err := parseMoney(req.TotalAmount, req.Currency)
	if err != nil {
		return nil, err
	}
	invoiceType := finance.InvoiceType(req.Type)
	var paidNow valueobject.Money
	if req.PaidNow != nil && !req.PaidNow.IsZero() {
		if paidNow, err = valueobject.NewMoney(*req.PaidNow, total.Currency()); err != nil {
			return nil, err
		}
		if err := paidNow.RequirePositive(); err != nil {
			return nil, err
		}
	}
	invoiceDate := time.Time{}
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	var invoice *finance.Invoice
	var payment *finance.Payment
	var account *partner.LedgerAccount
	err = s.execute(ctx, OpRecordInvoice, func(ctx context.Context, tx *txScope) error {
		var err error
		if invoice, err = finance.NewInvoice(invoiceType, req.CounterpartyID, total, invoiceDate); err != nil {
			return err
		}
		if req.Number != "" {
			if err := invoice.SetNumber(req.Number); err != nil {
				return err
			}
		}
		invoice.Note = req.Note

		account = nil
		payment = nil
		if req.CounterpartyID != nil {
			account, err = lockAccount(ctx, tx, *req.CounterpartyID, invoiceType.CounterpartyKind(), total.Currency(), true)
			if err != nil {
				return err
			}
		}
		if err := finance.RecordInvoiceDebit(account, invoice); err != nil {
			return err
		}

		if paidNow.IsPositive() {
			target := invoice.ID
			sreq := finance.SettlementRequest{
				Type:            finance.PaymentTypeFor(invoiceType),
				CounterpartyID:  req.CounterpartyID,
				Amount:          paidNow,
				TargetInvoiceID: &target,
				AuthorizeExcess: req.AuthorizeExcess,
				Note:            "paid with invoice " + invoice.Number,
			}
			plan, err := finance.PlanSettlement(sreq, valueobject.Zero(total.Currency()), []*finance.Invoice{invoice})
			if err != nil {
				return err
			}
			if payment, err = finance.NewPayment(sreq, plan); err != nil {
				return err
			}
			if _, err := finance.ApplySettlement(account, []*finance.Invoice{invoice}, payment, sreq.AuthorizeExcess); err != nil {
				return err
			}
		}

		if err := tx.repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		tx.track(invoice)
		if payment != nil {
			if err := tx.repos.Payments().Create(ctx, payment); err != nil {
				return err
			}
			tx.track(payment)
		}
		return tx.saveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrInvoiceID, invoice.ID.String())
	s.log(ctx).Info("invoice recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("total", invoice.TotalAmount.String()),
		zap.String("paid", invoice.PaidAmount.String()),
	)
	s.verify(ctx, invoice.CounterpartyID, invoice.Currency)

	result := &InvoiceResult{
		Invoice: ToInvoiceResponse(invoice),
		Balance: snapshotOf(account),
	}
	if payment != nil {
		resp := ToPaymentResponse(payment)
		result.Payment = &resp
	}
	return result, nil
}

// CancelInvoice voids an unpaid or partially paid invoice. Its outstanding
// amount leaves the balance and whatever was paid on it becomes advance.
func (s *LedgerService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResult, error) {
	var result *InvoiceResult
	err := s.observe(ctx, OpCancelInvoice, logger.LedgerScope{}, func(ctx context.Context) error {
		telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrInvoiceID, invoiceID.String())

		var invoice *finance.Invoice
		var account *partner.LedgerAccount
		err := s.execute(ctx, OpCancelInvoice, func(ctx context.Context, tx *txScope) error {
			found, err := tx.repos.Invoices().FindByID(ctx, invoiceID)
			if err != nil {
				return err
			}
			account = nil
			if found.CounterpartyID != nil {
				account, err = lockAccount(ctx, tx, *found.CounterpartyID, found.Type.CounterpartyKind(), found.Currency, false)
				if err != nil {
					return err
				}
			}
			if invoice, err = tx.repos.Invoices().LockByID(ctx, invoiceID); err != nil {
				return err
			}
			if _, err := finance.CancelInvoice(account, invoice, req.Reason); err != nil {
				return err
			}
			if err := tx.saveInvoices(ctx, []*finance.Invoice{invoice}); err != nil {
				return err
			}
			return tx.saveAccount(ctx, account)
		})
		if err != nil {
			return err
		}

		s.log(ctx).Info("invoice cancelled",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("credited", invoice.CreditedAmount.String()),
		)
		s.verify(ctx, invoice.CounterpartyID, invoice.Currency)
		result = &InvoiceResult{
			Invoice: ToInvoiceResponse(invoice),
			Balance: snapshotOf(account),
		}
		return nil
	})
	return result, err
}

// GetInvoice returns an invoice by ID
func (s *LedgerService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.uow.Repositories().Invoices().FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListOpenInvoices returns the open invoices of a counterparty in the order
// account-level payments settle them
func (s *LedgerService) ListOpenInvoices(ctx context.Context, counterpartyID uuid.UUID, currency string) ([]InvoiceResponse, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}
	repos := s.uow.Repositories()
	if _, err := repos.Counterparties().FindByID(ctx, counterpartyID); err != nil {
		return nil, err
	}
	invoices, err := repos.Invoices().FindOpen(ctx, counterpartyID, cur)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(finance.SortForAllocation(invoices)), nil
}
