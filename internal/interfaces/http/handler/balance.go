package handler

import (
	financeapp "github.com/erp/ledger/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// GetBalances godoc
// @ID           getBalances
// @Summary      Get both ledger positions of a counterparty
// @Description  IQD and USD positions plus the net in the reporting currency
// @Tags         balances
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.BalancesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id}/balances [get]
func (h *LedgerHandler) GetBalances(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	balances, err := h.ledger.GetBalances(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// GetBalance godoc
// @ID           getBalance
// @Summary      Get one ledger position
// @Description  Stored balance and advance with the netted display pair. A ledger that
// @Description  never traded reports zero.
// @Tags         balances
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Param        currency path string true "Currency" Enums(IQD, USD)
// @Success      200 {object} APIResponse[financeapp.BalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id}/ledgers/{currency} [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	balance, err := h.ledger.GetBalance(c.Request.Context(), id, c.Param("currency"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Check godoc
// @ID           checkLedger
// @Summary      Reconcile one ledger
// @Description  Recomputes the position from invoices and payments and lists every
// @Description  broken rule. An inconsistent ledger still answers 200.
// @Tags         balances
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Param        currency path string true "Currency" Enums(IQD, USD)
// @Success      200 {object} APIResponse[financeapp.ReconciliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id}/ledgers/{currency}/check [get]
func (h *LedgerHandler) Check(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	report, err := h.ledger.Check(c.Request.Context(), id, c.Param("currency"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ListLedgerEntries godoc
// @ID           listLedgerEntries
// @Summary      List ledger movements
// @Description  Newest first, each with the balance and advance before and after
// @Tags         balances
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Param        currency path string true "Currency" Enums(IQD, USD)
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id}/ledgers/{currency}/entries [get]
func (h *LedgerHandler) ListLedgerEntries(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	limit, ok := h.queryInt(c, "limit", financeapp.DefaultEntryLimit)
	if !ok {
		return
	}
	entries, err := h.ledger.ListLedgerEntries(c.Request.Context(), id, c.Param("currency"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
