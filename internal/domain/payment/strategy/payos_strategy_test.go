package strategy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"resto_pay/internal/domain/payment/model"
	"resto_pay/internal/domain/payment/token"
	"resto_pay/pkg/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payosConfig(enabled bool) *model.PaymentMethodConfig {
	return &model.PaymentMethodConfig{
		StoreID: "store-1",
		Method:  model.MethodPayOS,
		Enabled: enabled,
		Settings: json.RawMessage(`{
			"client_id": "client-1",
			"api_key": "api-key-1",
			"checksum_key": "checksum-key-1"
		}`),
	}
}

func newPayOSStrategyForTest(endpoint string) *PayOSStrategy {
	return &PayOSStrategy{
		parser:     token.NewParser("PAY"),
		endpoint:   endpoint,
		returnURL:  "https://example.com/ok",
		cancelURL:  "https://example.com/no",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestPayOSInitiate(t *testing.T) {
	t.Run("Creates payment request and returns checkout url", func(t *testing.T) {
		var got payosCreateRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/payment-requests", r.URL.Path)
			assert.Equal(t, "client-1", r.Header.Get("x-client-id"))
			assert.Equal(t, "api-key-1", r.Header.Get("x-api-key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"code": "00",
				"desc": "success",
				"data": map[string]interface{}{
					"checkoutUrl": "https://pay.example.com/web/abc123",
				},
			})
		}))
		defer ts.Close()

		s := newPayOSStrategyForTest(ts.URL)
		p := &model.Payment{Amount: 50000, Method: model.MethodPayOS, Status: model.StatusPending}
		p.ID = "9f86d081-884c-7d65-9a2f-eaa0c55ad015"

		artifact, err := s.Initiate(p, payosConfig(true), model.CustomerInfo{Name: "Anh Khach"})
		require.NoError(t, err)

		assert.Equal(t, "https://pay.example.com/web/abc123", artifact.CheckoutURL)
		assert.Equal(t, p.OrderCode, artifact.OrderCode)
		assert.NotZero(t, p.OrderCode)
		assert.Equal(t, "9F86D081", p.MatchToken)
		assert.Equal(t, "PAY9F86D081", p.TransferContent)

		// The request must be signed over the canonical field string with the
		// store's checksum key.
		wantSig := signature.SignFields(map[string]string{
			"amount":      strconv.FormatInt(got.Amount, 10),
			"cancelUrl":   "https://example.com/no",
			"description": "PAY9F86D081",
			"orderCode":   strconv.FormatInt(got.OrderCode, 10),
			"returnUrl":   "https://example.com/ok",
		}, "checksum-key-1")
		assert.Equal(t, wantSig, got.Signature)
		assert.Equal(t, "Anh Khach", got.BuyerName)
		assert.Equal(t, int64(50000), got.Amount)
	})

	t.Run("Gateway rejection surfaces as error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"code": "231",
				"desc": "duplicate order code",
			})
		}))
		defer ts.Close()

		s := newPayOSStrategyForTest(ts.URL)
		p := &model.Payment{Amount: 50000}
		p.ID = "9f86d081-884c-7d65-9a2f-eaa0c55ad015"

		_, err := s.Initiate(p, payosConfig(true), model.CustomerInfo{})
		assert.ErrorContains(t, err, "duplicate order code")
	})

	t.Run("Missing credentials rejected before any network call", func(t *testing.T) {
		s := newPayOSStrategyForTest("http://127.0.0.1:0")
		cfg := payosConfig(true)
		cfg.Settings = json.RawMessage(`{"client_id": "client-1"}`)
		p := &model.Payment{Amount: 50000}
		p.ID = "9f86d081-884c-7d65-9a2f-eaa0c55ad015"

		_, err := s.Initiate(p, cfg, model.CustomerInfo{})
		assert.ErrorIs(t, err, model.ErrMethodNotConfigured)
	})

	t.Run("Disabled config rejected", func(t *testing.T) {
		s := newPayOSStrategyForTest("http://127.0.0.1:0")
		p := &model.Payment{Amount: 50000}
		p.ID = "9f86d081-884c-7d65-9a2f-eaa0c55ad015"

		_, err := s.Initiate(p, payosConfig(false), model.CustomerInfo{})
		assert.ErrorIs(t, err, model.ErrMethodNotConfigured)
	})
}
