package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is matches a sentinel even when the message was specialised.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Money errors shared by every module that does arithmetic on amounts
var (
	ErrCurrencyMismatch       = NewDomainError("CURRENCY_MISMATCH", "Amounts in different currencies cannot be combined")
	ErrInvalidCurrency        = NewDomainError("INVALID_CURRENCY", "Currency must be IQD or USD")
	ErrInvalidAmountPrecision = NewDomainError("INVALID_AMOUNT_PRECISION", "Amount has more decimal places than the currency allows")
	ErrZeroAmount             = NewDomainError("ZERO_AMOUNT", "Amount must not be zero")
	ErrNegativeAmount         = NewDomainError("NEGATIVE_AMOUNT", "Amount must be positive")
)

// GetErrorCode returns the domain error code of err, or an empty string
func GetErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
