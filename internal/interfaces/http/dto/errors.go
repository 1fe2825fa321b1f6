package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when a dependency (database) is down
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Money error codes
const (
	ErrCodeCurrencyMismatch       = "ERR_CURRENCY_MISMATCH"
	ErrCodeInvalidCurrency        = "ERR_INVALID_CURRENCY"
	ErrCodeInvalidAmountPrecision = "ERR_INVALID_AMOUNT_PRECISION"
	ErrCodeZeroAmount             = "ERR_ZERO_AMOUNT"
	ErrCodeNegativeAmount         = "ERR_NEGATIVE_AMOUNT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails after retries
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeOverpaymentNotAllowed asks the caller to confirm the excess with
	// authorize_excess and resend
	ErrCodeOverpaymentNotAllowed = "ERR_OVERPAYMENT_NOT_ALLOWED"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"

	ErrCodeInsufficientAdvance         = "ERR_INSUFFICIENT_ADVANCE"
	ErrCodeSettlementExceedsBalance    = "ERR_SETTLEMENT_EXCEEDS_BALANCE"
	ErrCodeAnonymousAdvanceRejected    = "ERR_ANONYMOUS_ADVANCE_REJECTED"
	ErrCodeAnonymousTargetRequired     = "ERR_ANONYMOUS_TARGET_REQUIRED"
	ErrCodeInvoiceNotOpen              = "ERR_INVOICE_NOT_OPEN"
	ErrCodeInvoiceAlreadyPaid          = "ERR_INVOICE_ALREADY_PAID"
	ErrCodeInvoiceAlreadyCancelled     = "ERR_INVOICE_ALREADY_CANCELLED"
	ErrCodeInvoiceCancelled            = "ERR_INVOICE_CANCELLED"
	ErrCodeInvoiceCounterpartyMismatch = "ERR_INVOICE_COUNTERPARTY_MISMATCH"
	ErrCodeInvoiceTypeMismatch         = "ERR_INVOICE_TYPE_MISMATCH"
	ErrCodePaymentNotCompleted         = "ERR_PAYMENT_NOT_COMPLETED"
	ErrCodeCounterpartyKindMismatch    = "ERR_COUNTERPARTY_KIND_MISMATCH"
	ErrCodeCounterpartyHasOpenInvoices = "ERR_COUNTERPARTY_HAS_OPEN_INVOICES"
	ErrCodeCounterpartyInactive        = "ERR_COUNTERPARTY_INACTIVE"
	ErrCodeCounterpartyHasAdvance      = "ERR_COUNTERPARTY_HAS_ADVANCE"

	// ErrCodeIdempotencyKeyReused is used when an idempotency key comes back
	// with a different payment than the one it first recorded
	ErrCodeIdempotencyKeyReused = "ERR_IDEMPOTENCY_KEY_REUSED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Money errors are input errors
	ErrCodeCurrencyMismatch:       http.StatusBadRequest,
	ErrCodeInvalidCurrency:        http.StatusBadRequest,
	ErrCodeInvalidAmountPrecision: http.StatusBadRequest,
	ErrCodeZeroAmount:             http.StatusBadRequest,
	ErrCodeNegativeAmount:         http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeConflict:              http.StatusConflict,
	ErrCodeConcurrencyConflict:   http.StatusConflict,
	ErrCodeOverpaymentNotAllowed: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:                http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:                http.StatusUnprocessableEntity,
	ErrCodeInsufficientAdvance:         http.StatusUnprocessableEntity,
	ErrCodeSettlementExceedsBalance:    http.StatusUnprocessableEntity,
	ErrCodeAnonymousAdvanceRejected:    http.StatusUnprocessableEntity,
	ErrCodeAnonymousTargetRequired:     http.StatusUnprocessableEntity,
	ErrCodeInvoiceNotOpen:              http.StatusUnprocessableEntity,
	ErrCodeInvoiceAlreadyPaid:          http.StatusUnprocessableEntity,
	ErrCodeInvoiceAlreadyCancelled:     http.StatusUnprocessableEntity,
	ErrCodeInvoiceCancelled:            http.StatusUnprocessableEntity,
	ErrCodeInvoiceCounterpartyMismatch: http.StatusUnprocessableEntity,
	ErrCodeInvoiceTypeMismatch:         http.StatusUnprocessableEntity,
	ErrCodePaymentNotCompleted:         http.StatusUnprocessableEntity,
	ErrCodeCounterpartyKindMismatch:    http.StatusUnprocessableEntity,
	ErrCodeCounterpartyHasOpenInvoices: http.StatusUnprocessableEntity,
	ErrCodeCounterpartyInactive:        http.StatusUnprocessableEntity,
	ErrCodeCounterpartyHasAdvance:      http.StatusUnprocessableEntity,
	ErrCodeIdempotencyKeyReused:        http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes that do not follow the
// ERR_<NAME> convention one to one
var DomainErrorCodeMapping = map[string]string{
	"INVALID_KIND":     ErrCodeValidationFormat,
	"INVALID_NAME":     ErrCodeValidationLength,
	"ALREADY_ACTIVE":   ErrCodeInvalidState,
	"ALREADY_INACTIVE": ErrCodeInvalidState,
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes already in the ERR_ format pass through; other codes are prefixed.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
