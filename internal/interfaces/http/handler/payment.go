package handler

import (
	"context"

	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/erp/ledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotentReplayed marks responses served from an earlier request
const HeaderIdempotentReplayed = "Idempotent-Replayed"

// LedgerHandler handles invoice, payment and balance endpoints
type LedgerHandler struct {
	BaseHandler
	ledger *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// ApplyPayment godoc
// @ID           applyPayment
// @Summary      Apply a payment
// @Description  Applies money received from a customer or paid to a supplier. Without
// @Description  target_invoice_id the payment settles open invoices oldest first; with
// @Description  it only that invoice is settled. Money beyond what is owed is rejected
// @Description  with 409 ERR_OVERPAYMENT_NOT_ALLOWED unless authorize_excess is set.
// @Description  A repeated Idempotency-Key returns the original result with 200.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client key that makes retries safe"
// @Param        request body financeapp.ApplyPaymentRequest true "Payment"
// @Success      201 {object} APIResponse[financeapp.PaymentResult]
// @Success      200 {object} APIResponse[financeapp.PaymentResult] "Replayed"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /payments [post]
func (h *LedgerHandler) ApplyPayment(c *gin.Context) {
	var req financeapp.ApplyPaymentRequest
	if !h.bind(c, &req) {
		return
	}
	if key := c.GetHeader(middleware.HeaderIdempotencyKey); key != "" {
		if req.IdempotencyKey != "" && req.IdempotencyKey != key {
			h.Error(c, dto.ErrCodeValidation, "Idempotency-Key header and idempotency_key differ")
			return
		}
		req.IdempotencyKey = key
	}

	result, err := h.ledger.ApplyPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		c.Header(HeaderIdempotentReplayed, "true")
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// GetPayment godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /payments/{id} [get]
func (h *LedgerHandler) GetPayment(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	payment, err := h.ledger.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// CancelPayment godoc
// @ID           cancelPayment
// @Summary      Cancel a payment
// @Description  Reverses every effect of a completed payment: settled invoices are
// @Description  reopened, consumed advance is restored and created advance is removed.
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReversalResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id}/cancel [post]
func (h *LedgerHandler) CancelPayment(c *gin.Context) {
	h.reverse(c, h.ledger.CancelPayment)
}

// RefundPayment godoc
// @ID           refundPayment
// @Summary      Refund a payment
// @Description  Same reversal as cancel; the payment ends in status refunded.
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReversalResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /payments/{id}/refund [post]
func (h *LedgerHandler) RefundPayment(c *gin.Context) {
	h.reverse(c, h.ledger.RefundPayment)
}

func (h *LedgerHandler) reverse(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*financeapp.ReversalResult, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
