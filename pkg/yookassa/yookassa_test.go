package yookassa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "shop", user)
		assert.Equal(t, "key", pass)

		_, err := uuid.Parse(r.Header.Get("Idempotence-Key"))
		assert.NoError(t, err)

		var req CreatePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, Amount{Value: "100.00", Currency: "RUB"}, req.Amount)
		assert.True(t, req.Capture)
		assert.Equal(t, "redirect", req.Confirmation.Type)
		assert.Equal(t, "5", req.Metadata["announcement_id"])

		w.Write([]byte(`{"id":"2d9e","status":"pending","paid":false,"amount":{"value":"100.00","currency":"RUB"},
			"confirmation":{"type":"redirect","confirmation_url":"https://yoomoney.ru/checkout/2d9e"}}`))
	}))
	defer server.Close()

	c := NewClient("shop", "key", server.URL)
	payment, err := c.CreatePayment(context.Background(), CreatePaymentRequest{
		Amount:       NewRUBAmount(decimal.NewFromInt(100)),
		Capture:      true,
		Confirmation: Confirmation{Type: "redirect", ReturnURL: "https://example.com"},
		Metadata:     map[string]string{"announcement_id": "5"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2d9e", payment.ID)
	assert.Equal(t, "https://yoomoney.ru/checkout/2d9e", payment.Confirmation.ConfirmationURL)
}

func TestGetPaymentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"type":"error","code":"not_found","description":"Payment doesn't exist"}`))
	}))
	defer server.Close()

	_, err := NewClient("shop", "key", server.URL+"/").GetPayment(context.Background(), "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestNewRUBAmount(t *testing.T) {
	assert.Equal(t, "10.00", NewRUBAmount(decimal.NewFromInt(10)).Value)
	assert.Equal(t, "150.50", NewRUBAmount(decimal.RequireFromString("150.5")).Value)
}
