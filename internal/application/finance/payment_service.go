package finance

import (
	"context"
	"errors"

	"github.com/erp/ledger/internal/domain/finance"
	"github.com/erp/ledger/internal/domain/partner"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ApplyPayment applies money received from a customer or paid to a
// supplier. The counterparty's ledger is locked for the whole operation.
//
// A request carrying an idempotency key that was already processed returns
// the original payment with Replayed set and changes nothing.
func (s *LedgerService) ApplyPayment(ctx context.Context, req ApplyPaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.observe(ctx, OpApplyPayment, scopeOf(req.CounterpartyID, req.Currency), func(ctx context.Context) error {
		var err error
		result, err = s.applyPayment(ctx, req)
		if err != nil && shared.GetErrorCode(err) != "" {
			s.metrics.RecordPaymentRejected(ctx, req.Currency, shared.GetErrorCode(err))
		}
		return err
	})
	return result, err
}

func (s *LedgerService) applyPayment(ctx context.Context, req ApplyPaymentRequest) (*PaymentResult, error) {
	amount, err := parseMoney(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}
	sreq := finance.SettlementRequest{
		Type:            finance.PaymentType(req.Type),
		CounterpartyID:  req.CounterpartyID,
		Amount:          amount,
		UseAdvance:      req.UseAdvance,
		TargetInvoiceID: req.TargetInvoiceID,
		AuthorizeExcess: req.AuthorizeExcess,
		IdempotencyKey:  req.IdempotencyKey,
		Note:            req.Note,
	}
	if err := sreq.Validate(); err != nil {
		return nil, err
	}

	if sreq.IdempotencyKey != "" {
		if result, err := s.replay(ctx, sreq); result != nil || err != nil {
			return result, err
		}
	}

	var payment *finance.Payment
	var account *partner.LedgerAccount
	var touched []*finance.Invoice
	err = s.execute(ctx, OpApplyPayment, func(ctx context.Context, tx *txScope) error {
		var invoices []*finance.Invoice
		var err error
		advance := valueobject.Zero(amount.Currency())
		account = nil

		if sreq.Anonymous() {
			target, err := tx.repos.Invoices().LockByID(ctx, *sreq.TargetInvoiceID)
			if err != nil {
				return err
			}
			invoices = []*finance.Invoice{target}
		} else {
			account, err = lockAccount(ctx, tx, *sreq.CounterpartyID, sreq.Type.CounterpartyKind(), amount.Currency(), true)
			if err != nil {
				return err
			}
			advance = account.AdvanceMoney()
			if sreq.TargetInvoiceID != nil {
				target, err := tx.repos.Invoices().FindByID(ctx, *sreq.TargetInvoiceID)
				if err != nil {
					return err
				}
				invoices = []*finance.Invoice{target}
			} else if invoices, err = tx.repos.Invoices().FindOpen(ctx, *sreq.CounterpartyID, amount.Currency()); err != nil {
				return err
			}
		}

		plan, err := finance.PlanSettlement(sreq, advance, invoices)
		if err != nil {
			return err
		}
		payment, err = finance.NewPayment(sreq, plan)
		if err != nil {
			return err
		}
		if touched, err = finance.ApplySettlement(account, invoices, payment, sreq.AuthorizeExcess); err != nil {
			return err
		}

		if err := tx.repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		tx.track(payment)
		if err := tx.saveInvoices(ctx, touched); err != nil {
			return err
		}
		return tx.saveAccount(ctx, account)
	})
	if err != nil {
		// A concurrent request with the same key committed first
		if sreq.IdempotencyKey != "" && errors.Is(err, shared.ErrAlreadyExists) {
			if result, rerr := s.replay(ctx, sreq); result != nil {
				return result, nil
			} else if rerr != nil {
				return nil, rerr
			}
		}
		return nil, err
	}

	s.rememberKey(ctx, payment)
	telemetry.SetAttributes(trace.SpanFromContext(ctx),
		telemetry.SpanAttrPaymentID, payment.ID.String(),
		telemetry.SpanAttrAdvanceUsed, payment.AdvanceUsed.String(),
		telemetry.SpanAttrDirect, payment.DirectAmount.String(),
		telemetry.SpanAttrExcess, payment.ExcessAmount.String(),
	)
	s.log(ctx).Info("payment applied",
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("advance_used", payment.AdvanceUsed.String()),
		zap.String("direct_amount", payment.DirectAmount.String()),
		zap.String("excess_amount", payment.ExcessAmount.String()),
	)
	s.verify(ctx, payment.CounterpartyID, payment.Currency)

	return newPaymentResult(payment, account, touched, false), nil
}

// replay returns the result of an already processed idempotency key, or nil.
// A key that comes back with a different payment is rejected.
func (s *LedgerService) replay(ctx context.Context, req finance.SettlementRequest) (*PaymentResult, error) {
	repos := s.uow.Repositories()
	key := req.IdempotencyKey

	var payment *finance.Payment
	if id, ok := s.lookupKey(ctx, key); ok {
		p, err := repos.Payments().FindByID(ctx, id)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		payment = p
	}
	if payment == nil {
		p, err := repos.Payments().FindByIdempotencyKey(ctx, key)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		payment = p
	}
	if !payment.Matches(req) {
		s.log(ctx).Warn("idempotency key reused for a different payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("idempotency_key", key),
		)
		return nil, finance.ErrIdempotencyKeyReused.WithMessage(
			"idempotency key " + key + " already recorded payment " + payment.ID.String())
	}

	ids := make([]uuid.UUID, len(payment.Allocations))
	for i, a := range payment.Allocations {
		ids[i] = a.InvoiceID
	}
	invoices, err := repos.Invoices().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var account *partner.LedgerAccount
	if payment.CounterpartyID != nil {
		account, err = repos.Accounts().Find(ctx, *payment.CounterpartyID, payment.Currency)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	s.metrics.RecordReplay(ctx, OpApplyPayment)
	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrReplayed, true)
	s.log(ctx).Info("idempotent payment replayed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("idempotency_key", key),
	)
	return newPaymentResult(payment, account, invoices, true), nil
}

func (s *LedgerService) lookupKey(ctx context.Context, key string) (uuid.UUID, bool) {
	if s.keys == nil || !s.cfg.Idempotency.Enabled {
		return uuid.Nil, false
	}
	raw, found, err := s.keys.Lookup(ctx, key)
	if err != nil {
		s.log(ctx).Warn("idempotency cache lookup failed", zap.Error(err))
		return uuid.Nil, false
	}
	if !found {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *LedgerService) rememberKey(ctx context.Context, p *finance.Payment) {
	if p.IdempotencyKey == nil || s.keys == nil || !s.cfg.Idempotency.Enabled {
		return
	}
	if _, err := s.keys.Remember(ctx, *p.IdempotencyKey, p.ID.String(), s.cfg.Idempotency.TTL); err != nil {
		s.log(ctx).Warn("failed to cache idempotency key", zap.Error(err))
	}
}

// CancelPayment voids a completed payment and restores the ledger and the
// invoices it touched
func (s *LedgerService) CancelPayment(ctx context.Context, paymentID uuid.UUID) (*ReversalResult, error) {
	return s.reversePayment(ctx, OpCancelPayment, paymentID, false)
}

// RefundPayment reverses a completed payment whose money went back to the payer
func (s *LedgerService) RefundPayment(ctx context.Context, paymentID uuid.UUID) (*ReversalResult, error) {
	return s.reversePayment(ctx, OpRefundPayment, paymentID, true)
}

func (s *LedgerService) reversePayment(ctx context.Context, op string, paymentID uuid.UUID, refund bool) (*ReversalResult, error) {
	var result *ReversalResult
	err := s.observe(ctx, op, logger.LedgerScope{}, func(ctx context.Context) error {
		telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrPaymentID, paymentID.String())

		var payment *finance.Payment
		var account *partner.LedgerAccount
		var touched []*finance.Invoice
		err := s.execute(ctx, op, func(ctx context.Context, tx *txScope) error {
			found, err := tx.repos.Payments().FindByID(ctx, paymentID)
			if err != nil {
				return err
			}
			account = nil

			var invoices []*finance.Invoice
			if found.CounterpartyID != nil {
				account, err = lockAccount(ctx, tx, *found.CounterpartyID, found.Type.CounterpartyKind(), found.Currency, false)
				if err != nil {
					return err
				}
				// Re-read under the lock
				if payment, err = tx.repos.Payments().FindByID(ctx, paymentID); err != nil {
					return err
				}
				ids := make([]uuid.UUID, len(payment.Allocations))
				for i, a := range payment.Allocations {
					ids[i] = a.InvoiceID
				}
				if invoices, err = tx.repos.Invoices().FindByIDs(ctx, ids); err != nil {
					return err
				}
			} else {
				payment = found
				for _, a := range payment.Allocations {
					inv, err := tx.repos.Invoices().LockByID(ctx, a.InvoiceID)
					if err != nil {
						return err
					}
					invoices = append(invoices, inv)
				}
				if payment, err = tx.repos.Payments().FindByID(ctx, paymentID); err != nil {
					return err
				}
			}

			if touched, err = finance.ReverseSettlement(account, invoices, payment, refund); err != nil {
				return err
			}
			if err := tx.repos.Payments().Save(ctx, payment); err != nil {
				return err
			}
			tx.track(payment)
			if err := tx.saveInvoices(ctx, touched); err != nil {
				return err
			}
			return tx.saveAccount(ctx, account)
		})
		if err != nil {
			return err
		}

		s.log(ctx).Info("payment reversed",
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", payment.Status.String()),
		)
		s.verify(ctx, payment.CounterpartyID, payment.Currency)
		result = &ReversalResult{
			Payment:  ToPaymentResponse(payment),
			Balance:  snapshotOf(account),
			Invoices: ToInvoiceResponses(touched),
		}
		return nil
	})
	return result, err
}

// GetPayment returns a payment by ID
func (s *LedgerService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.uow.Repositories().Payments().FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// verify runs the reconciliation check after a committed mutation when
// enabled. Violations are logged, never returned.
func (s *LedgerService) verify(ctx context.Context, counterpartyID *uuid.UUID, currency valueobject.Currency) {
	if !s.cfg.VerifyAfterCommit || counterpartyID == nil {
		return
	}
	report, err := s.check(ctx, *counterpartyID, currency)
	if err != nil {
		s.log(ctx).Warn("reconciliation check failed to run", zap.Error(err))
		return
	}
	if report.Consistent {
		return
	}
	s.metrics.RecordReconciliationFailure(ctx, currency.String())
	for _, v := range report.Violations {
		s.log(ctx).Error("ledger reconciliation violation",
			zap.String("rule", v.Rule),
			zap.String("subject_id", v.SubjectID.String()),
			zap.String("detail", v.Message),
		)
	}
}

func newPaymentResult(p *finance.Payment, account *partner.LedgerAccount, invoices []*finance.Invoice, replayed bool) *PaymentResult {
	return &PaymentResult{
		PaymentID:    p.ID,
		AdvanceUsed:  p.AdvanceUsed,
		DirectAmount: p.DirectAmount,
		ExcessAmount: p.ExcessAmount,
		Balance:      snapshotOf(account),
		Invoices:     ToInvoiceResponses(invoices),
		Payment:      ToPaymentResponse(p),
		Replayed:     replayed,
	}
}

func scopeOf(counterpartyID *uuid.UUID, currency string) logger.LedgerScope {
	scope := logger.LedgerScope{Currency: currency}
	if counterpartyID != nil {
		scope.CounterpartyID = counterpartyID.String()
	}
	return scope
}
