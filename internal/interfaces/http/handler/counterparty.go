package handler

import (
	"context"

	partnerapp "github.com/erp/ledger/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CounterpartyHandler handles customer and supplier registration endpoints
type CounterpartyHandler struct {
	BaseHandler
	counterparties *partnerapp.CounterpartyService
}

// NewCounterpartyHandler creates a new CounterpartyHandler
func NewCounterpartyHandler(counterparties *partnerapp.CounterpartyService) *CounterpartyHandler {
	return &CounterpartyHandler{counterparties: counterparties}
}

// Create godoc
// @ID           createCounterparty
// @Summary      Register a customer or supplier
// @Tags         counterparties
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCounterpartyRequest true "Counterparty"
// @Success      201 {object} APIResponse[partnerapp.CounterpartyResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /counterparties [post]
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCounterpartyRequest
	if !h.bind(c, &req) {
		return
	}
	created, err := h.counterparties.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// GetByID godoc
// @ID           getCounterparty
// @Summary      Get a counterparty with its ledger positions
// @Tags         counterparties
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CounterpartyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /counterparties/{id} [get]
func (h *CounterpartyHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	found, err := h.counterparties.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, found)
}

// List godoc
// @ID           listCounterparties
// @Summary      List counterparties
// @Tags         counterparties
// @Produce      json
// @Param        kind query string false "Kind" Enums(customer, supplier)
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        search query string false "Name contains"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.CounterpartyResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /counterparties [get]
func (h *CounterpartyHandler) List(c *gin.Context) {
	var filter partnerapp.CounterpartyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.counterparties.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Update godoc
// @ID           updateCounterparty
// @Summary      Update name, phone or note
// @Tags         counterparties
// @Accept       json
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Param        request body partnerapp.UpdateCounterpartyRequest true "Changes"
// @Success      200 {object} APIResponse[partnerapp.CounterpartyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /counterparties/{id} [put]
func (h *CounterpartyHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdateCounterpartyRequest
	if !h.bind(c, &req) {
		return
	}
	updated, err := h.counterparties.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Activate godoc
// @ID           activateCounterparty
// @Summary      Activate a counterparty
// @Tags         counterparties
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CounterpartyResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /counterparties/{id}/activate [post]
func (h *CounterpartyHandler) Activate(c *gin.Context) {
	h.transition(c, h.counterparties.Activate)
}

// Deactivate godoc
// @ID           deactivateCounterparty
// @Summary      Deactivate a counterparty
// @Description  Blocks new invoices and payments; reads, cancellations and reversals still work.
// @Tags         counterparties
// @Produce      json
// @Param        id path string true "Counterparty ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CounterpartyResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /counterparties/{id}/deactivate [post]
func (h *CounterpartyHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.counterparties.Deactivate)
}

// Delete godoc
// @ID           deleteCounterparty
// @Summary      Delete a counterparty
// @Description  Refused while the counterparty has open invoices in any currency.
// @Tags         counterparties
// @Param        id path string true "Counterparty ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /counterparties/{id} [delete]
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.counterparties.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CounterpartyHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*partnerapp.CounterpartyResponse, error)) {
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
