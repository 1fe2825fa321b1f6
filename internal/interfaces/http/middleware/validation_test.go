package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError(t *testing.T) {
	require.NoError(t, SetupValidator())

	type paymentBody struct {
		Type     string `json:"type" binding:"required,oneof=customer supplier"`
		Currency string `json:"currency" binding:"required,currency"`
	}

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req paymentBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := serve(router, req)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("field errors use json names", func(t *testing.T) {
		w, resp := post(`{"type":"employee","currency":"EUR"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be one of: customer supplier", fields["type"])
		assert.Equal(t, "Must be IQD or USD", fields["currency"])
	})

	t.Run("currency tag is case-insensitive", func(t *testing.T) {
		w, resp := post(`{"type":"customer","currency":"usd"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := post(`{"type":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, resp.Error.Message, "Malformed request")
		assert.Empty(t, resp.Error.Details)
	})
}
