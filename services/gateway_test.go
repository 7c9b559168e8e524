package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hermexpress-io/api/models"
)

func TestNewPaymentReferenceFormat(t *testing.T) {
	ref := NewPaymentReference("HER-AB12CD34")
	assert.Regexp(t, regexp.MustCompile(`^HER-AB12CD34_[0-9a-f-]{5}$`), ref)
	assert.NotEqual(t, ref, NewPaymentReference("HER-AB12CD34"))
}

func TestInitializePaystack(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/xyz",
				"reference":         captured["reference"],
			},
		})
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{PaystackBaseURL: srv.URL, AppURL: "https://hermexpress.test"})
	result, err := g.Initialize(context.Background(), InitializePaymentRequest{
		Provider:       models.ProviderPaystack,
		Config:         map[string]interface{}{"secretKey": "sk_test_abc"},
		Amount:         30000,
		Email:          "sender@example.com",
		TrackingNumber: "HER-AB12CD34",
		ShipmentID:     "s1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/xyz", result.PaymentURL)
	assert.True(t, strings.HasPrefix(result.Reference, "HER-AB12CD34_"))

	// kobo conversion and metadata round trip
	assert.InDelta(t, 3000000.0, captured["amount"].(float64), 1e-9)
	meta := captured["metadata"].(map[string]interface{})
	assert.Equal(t, "HER-AB12CD34", meta["tracking_number"])
}

func TestInitializePaystackRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"status": false, "message": "invalid key"})
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{PaystackBaseURL: srv.URL, PaystackSecret: "sk"})
	_, err := g.Initialize(context.Background(), InitializePaymentRequest{
		Provider:       models.ProviderPaystack,
		Amount:         100,
		TrackingNumber: "HER-00000000",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestInitializeKorapayRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"checkout_url": "https://checkout.korapay.com/abc"},
		})
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{KorapayBaseURL: srv.URL, KorapaySecret: "sk_kora", AppURL: "https://hermexpress.test"})
	result, err := g.Initialize(context.Background(), InitializePaymentRequest{
		Provider:       models.ProviderKorapay,
		Amount:         5000,
		Email:          "x@y.z",
		Name:           "Customer",
		TrackingNumber: "HER-11112222",
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "https://checkout.korapay.com/abc", result.PaymentURL)
	assert.True(t, strings.HasPrefix(result.Reference, "HER-11112222_"))
}

func TestInitializeKorapayGivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{KorapayBaseURL: srv.URL, KorapaySecret: "sk_kora"})
	_, err := g.Initialize(context.Background(), InitializePaymentRequest{
		Provider:       models.ProviderKorapay,
		Amount:         5000,
		TrackingNumber: "HER-33334444",
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestInitializeBankTransferNoRoundTrip(t *testing.T) {
	g := NewGatewayClient(GatewayConfig{})
	cfg := map[string]interface{}{"bank": "First Bank", "account_number": "0123456789"}
	result, err := g.Initialize(context.Background(), InitializePaymentRequest{
		Provider: models.ProviderBankTransfer,
		Config:   cfg,
		Amount:   1000,
	})

	assert.NoError(t, err)
	assert.Empty(t, result.PaymentURL)
	assert.Equal(t, cfg, result.Details)
}

func TestInitializeWalletUnsupported(t *testing.T) {
	g := NewGatewayClient(GatewayConfig{})
	_, err := g.Initialize(context.Background(), InitializePaymentRequest{Provider: models.ProviderWallet})
	assert.Error(t, err)
}

func TestVerifyPaystackSuccessRoundTripsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/HER-AB12CD34_1a2b3", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"status": "success",
				"amount": 3000000,
				"metadata": map[string]interface{}{
					"tracking_number": "HER-AB12CD34",
				},
			},
		})
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{PaystackBaseURL: srv.URL, PaystackSecret: "sk"})
	result, err := g.Verify(context.Background(), models.ProviderPaystack, "HER-AB12CD34_1a2b3")

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.InDelta(t, 30000.0, result.Amount, 1e-9)
	assert.Equal(t, "HER-AB12CD34", result.Metadata["tracking_number"])
}

func TestVerifyPaystackFailureStillReturnsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"status":   "failed",
				"amount":   500000,
				"metadata": map[string]interface{}{"tracking_number": "HER-DEADBEEF"},
			},
		})
	}))
	defer srv.Close()

	g := NewGatewayClient(GatewayConfig{PaystackBaseURL: srv.URL, PaystackSecret: "sk"})
	result, err := g.Verify(context.Background(), models.ProviderPaystack, "ref")

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "HER-DEADBEEF", result.Metadata["tracking_number"])
}

func TestVerifyKorapayAcceptsBothSuccessSpellings(t *testing.T) {
	for _, status := range []string{"success", "successful"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true,
				"data": map[string]interface{}{
					"status":   status,
					"amount":   10000,
					"metadata": map[string]interface{}{"wallet_id": "w1", "transaction_type": "wallet_funding"},
				},
			})
		}))

		g := NewGatewayClient(GatewayConfig{KorapayBaseURL: srv.URL, KorapaySecret: "sk"})
		result, err := g.Verify(context.Background(), models.ProviderKorapay, "ref")
		srv.Close()

		assert.NoError(t, err)
		assert.True(t, result.Success, status)
		assert.InDelta(t, 10000.0, result.Amount, 1e-9)
		assert.Equal(t, "wallet_funding", result.Metadata["transaction_type"])
	}
}
