package router

import (
	"github.com/erp/ledger/internal/interfaces/http/handler"
)

// LedgerRoutes maps the invoice, payment and balance endpoints
func LedgerRoutes(h *handler.LedgerHandler) []RouteRegistrar {
	invoices := NewDomainGroup("invoices", "/invoices").
		POST("", h.RecordInvoice).
		GET("/:id", h.GetInvoice).
		POST("/:id/cancel", h.CancelInvoice)

	payments := NewDomainGroup("payments", "/payments").
		POST("", h.ApplyPayment).
		GET("/:id", h.GetPayment).
		POST("/:id/cancel", h.CancelPayment).
		POST("/:id/refund", h.RefundPayment)

	ledgers := NewDomainGroup("ledgers", "/counterparties/:id")
	ledgers.GET("/balances", h.GetBalances)
	ledgers.Group("ledger", "/ledgers/:currency").
		GET("", h.GetBalance).
		GET("/check", h.Check).
		GET("/entries", h.ListLedgerEntries).
		GET("/invoices", h.ListOpenInvoices)

	return []RouteRegistrar{invoices, payments, ledgers}
}

// CounterpartyRoutes maps customer and supplier registration
func CounterpartyRoutes(h *handler.CounterpartyHandler) RouteRegistrar {
	return NewDomainGroup("counterparties", "/counterparties").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete).
		POST("/:id/activate", h.Activate).
		POST("/:id/deactivate", h.Deactivate)
}

// SystemRoutes maps build information under the versioned API
func SystemRoutes(h *handler.SystemHandler) RouteRegistrar {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
