package partner

import "github.com/erp/ledger/internal/domain/shared"

// Ledger and counterparty errors
var (
	ErrInsufficientAdvance         = shared.NewDomainError("INSUFFICIENT_ADVANCE", "Requested advance exceeds the available advance")
	ErrSettlementExceedsBalance    = shared.NewDomainError("SETTLEMENT_EXCEEDS_BALANCE", "Settlement exceeds the outstanding balance")
	ErrCounterpartyKindMismatch    = shared.NewDomainError("COUNTERPARTY_KIND_MISMATCH", "Counterparty is not of the required kind")
	ErrCounterpartyHasOpenInvoices = shared.NewDomainError("COUNTERPARTY_HAS_OPEN_INVOICES", "Counterparty cannot be deleted while it has open invoices")
	ErrCounterpartyHasAdvance      = shared.NewDomainError("COUNTERPARTY_HAS_ADVANCE", "Counterparty cannot be deleted while it holds an advance")
	ErrCounterpartyInactive        = shared.NewDomainError("COUNTERPARTY_INACTIVE", "Counterparty is inactive")
)
