package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeZeroAmount, http.StatusBadRequest},
		{ErrCodeInvalidAmountPrecision, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeOverpaymentNotAllowed, http.StatusConflict},
		{ErrCodeInsufficientAdvance, http.StatusUnprocessableEntity},
		{ErrCodeAnonymousAdvanceRejected, http.StatusUnprocessableEntity},
		{ErrCodeInvoiceAlreadyPaid, http.StatusUnprocessableEntity},
		{ErrCodeCounterpartyHasOpenInvoices, http.StatusUnprocessableEntity},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"OVERPAYMENT_NOT_ALLOWED", ErrCodeOverpaymentNotAllowed},
		{"INSUFFICIENT_ADVANCE", ErrCodeInsufficientAdvance},
		{"INVALID_AMOUNT_PRECISION", ErrCodeInvalidAmountPrecision},
		{"INVALID_KIND", ErrCodeValidationFormat},
		{"ALREADY_INACTIVE", ErrCodeInvalidState},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

// Every code a domain package can raise must resolve to a mapped status.
func TestNormalizeErrorCode_DomainCodesAreMapped(t *testing.T) {
	domainCodes := []string{
		"NOT_FOUND", "ALREADY_EXISTS", "INVALID_INPUT", "CONCURRENCY_CONFLICT", "INVALID_STATE",
		"CURRENCY_MISMATCH", "INVALID_CURRENCY", "INVALID_AMOUNT_PRECISION", "ZERO_AMOUNT", "NEGATIVE_AMOUNT",
		"OVERPAYMENT_NOT_ALLOWED", "ANONYMOUS_ADVANCE_REJECTED", "ANONYMOUS_TARGET_REQUIRED",
		"INVOICE_NOT_OPEN", "INVOICE_ALREADY_PAID", "INVOICE_ALREADY_CANCELLED", "INVOICE_CANCELLED",
		"INVOICE_COUNTERPARTY_MISMATCH", "INVOICE_TYPE_MISMATCH", "PAYMENT_NOT_COMPLETED",
		"INSUFFICIENT_ADVANCE", "SETTLEMENT_EXCEEDS_BALANCE", "COUNTERPARTY_KIND_MISMATCH",
		"COUNTERPARTY_HAS_OPEN_INVOICES", "COUNTERPARTY_INACTIVE", "COUNTERPARTY_HAS_ADVANCE",
		"IDEMPOTENCY_KEY_REUSED",
		"INVALID_KIND", "INVALID_NAME", "ALREADY_ACTIVE", "ALREADY_INACTIVE",
	}
	for _, code := range domainCodes {
		_, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(code)]
		assert.True(t, ok, "domain code %s has no HTTP status", code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID("OVERPAYMENT_NOT_ALLOWED", "confirm the excess", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeOverpaymentNotAllowed, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.False(t, resp.Error.Timestamp.Before(before))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "req-123", errObj["request_id"])
	assert.NotContains(t, decoded, "data")
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-789", []ValidationDetail{
		{Field: "currency", Message: "must be one of IQD USD"},
	})

	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "currency", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}
