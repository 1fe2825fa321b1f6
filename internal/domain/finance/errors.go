package finance

import "github.com/erp/ledger/internal/domain/shared"

// Invoice and payment errors
var (
	ErrOverpaymentNotAllowed       = shared.NewDomainError("OVERPAYMENT_NOT_ALLOWED", "Payment exceeds the amount owed; excess must be authorized to become advance")
	ErrAnonymousAdvanceRejected    = shared.NewDomainError("ANONYMOUS_ADVANCE_REJECTED", "A payment without counterparty cannot use or create advance")
	ErrAnonymousTargetRequired     = shared.NewDomainError("ANONYMOUS_TARGET_REQUIRED", "A payment without counterparty must target an anonymous invoice")
	ErrInvoiceNotOpen              = shared.NewDomainError("INVOICE_NOT_OPEN", "Invoice does not accept payments")
	ErrInvoiceAlreadyPaid          = shared.NewDomainError("INVOICE_ALREADY_PAID", "A fully paid invoice cannot be cancelled")
	ErrInvoiceAlreadyCancelled     = shared.NewDomainError("INVOICE_ALREADY_CANCELLED", "Invoice is already cancelled")
	ErrInvoiceCancelled            = shared.NewDomainError("INVOICE_CANCELLED", "Invoice has been cancelled")
	ErrInvoiceCounterpartyMismatch = shared.NewDomainError("INVOICE_COUNTERPARTY_MISMATCH", "Invoice belongs to another counterparty")
	ErrInvoiceTypeMismatch         = shared.NewDomainError("INVOICE_TYPE_MISMATCH", "Customer payments settle sales and supplier payments settle purchases")
	ErrPaymentNotCompleted         = shared.NewDomainError("PAYMENT_NOT_COMPLETED", "Only completed payments can be reversed")
	ErrIdempotencyKeyReused        = shared.NewDomainError("IDEMPOTENCY_KEY_REUSED", "Idempotency key was already used for a different payment")
)
