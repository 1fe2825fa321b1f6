package handler

import (
	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// RecordInvoice godoc
// @ID           recordInvoice
// @Summary      Record a sale or purchase invoice
// @Description  Debits the counterparty's ledger in the invoice currency. Without
// @Description  counterparty_id the invoice is an anonymous cash sale and paid_now
// @Description  must cover it. paid_now is recorded as a payment against the invoice.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.RecordInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[financeapp.InvoiceResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /invoices [post]
func (h *LedgerHandler) RecordInvoice(c *gin.Context) {
	var req financeapp.RecordInvoiceRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.ledger.RecordInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetInvoice godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /invoices/{id} [get]
func (h *LedgerHandler) GetInvoice(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.ledger.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// CancelInvoice godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice
// @Description  Removes the unpaid remainder from the balance and credits the paid part
// @Description  to the counterparty's advance. Fully paid invoices cannot be cancelled.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.CancelInvoiceRequest false "Reason"
// @Success      200 {object} APIResponse[financeapp.InvoiceResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /invoices/{id}/cancel [post]
func (h *LedgerHandler) CancelInvoice(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CancelInvoiceRequest
	if c.Request.ContentLength != 0 && !h.bind(c, &req) {
		return
	}
	result, err := h.ledger.CancelInvoice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListOpenInvoices godoc
// @ID           listOpenInvoices
// @Summary      List open invoices of a counterparty
// @Description  Unpaid and partially paid invoices in one currency, in settlement order
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Param        currency path string true "Currency" Enums(IQD, USD)
// @Success      200 {object} APIResponse[[]financeapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id}/ledgers/{currency}/invoices [get]
func (h *LedgerHandler) ListOpenInvoices(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	invoices, err := h.ledger.ListOpenInvoices(c.Request.Context(), id, c.Param("currency"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}
