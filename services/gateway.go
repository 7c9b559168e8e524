package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"hermexpress-io/api/models"
)

// GatewayConfig carries the provider endpoints and fallback secrets. A
// payment method's config may override the secret per method.
type GatewayConfig struct {
	PaystackBaseURL string
	KorapayBaseURL  string
	PaystackSecret  string
	KorapaySecret   string
	AppURL          string
}

type GatewayClient struct {
	cfg  GatewayConfig
	http *http.Client
}

func NewGatewayClient(cfg GatewayConfig) *GatewayClient {
	return &GatewayClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewPaymentReference builds a per-attempt unique gateway reference. The
// tracking number prefix lets the callback locate the shipment; the uuid
// fragment keeps retried initializations distinct.
func NewPaymentReference(trackingNumber string) string {
	return trackingNumber + "_" + uuid.NewString()[:5]
}

type InitializePaymentRequest struct {
	Provider       models.PaymentProvider
	Config         map[string]interface{}
	Amount         float64
	Email          string
	Name           string
	TrackingNumber string
	ShipmentID     string
	Metadata       map[string]interface{}
}

type InitializePaymentResult struct {
	Provider       models.PaymentProvider `json:"provider"`
	PaymentURL     string                 `json:"payment_url,omitempty"`
	Reference      string                 `json:"reference,omitempty"`
	TrackingNumber string                 `json:"tracking_number,omitempty"`
	Message        string                 `json:"message,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

type VerifyPaymentResult struct {
	Success  bool
	Status   string
	Amount   float64
	Metadata map[string]interface{}
	Message  string
}

func (g *GatewayClient) secretFor(provider models.PaymentProvider, config map[string]interface{}) string {
	if config != nil {
		if s, ok := config["secretKey"].(string); ok && s != "" {
			return s
		}
	}
	if provider == models.ProviderPaystack {
		return g.cfg.PaystackSecret
	}
	return g.cfg.KorapaySecret
}

// Initialize contacts the provider and returns a checkout URL. Bank
// transfer has no round trip; it only echoes the bank details back.
// Wallet never reaches here: wallet settlement is synchronous at booking.
func (g *GatewayClient) Initialize(ctx context.Context, req InitializePaymentRequest) (InitializePaymentResult, error) {
	switch req.Provider {
	case models.ProviderPaystack:
		return g.initializePaystack(ctx, req)
	case models.ProviderKorapay:
		return g.initializeKorapay(ctx, req)
	case models.ProviderBankTransfer:
		return InitializePaymentResult{
			Provider: models.ProviderBankTransfer,
			Message:  "Please transfer to the provided bank account.",
			Details:  req.Config,
		}, nil
	}
	return InitializePaymentResult{}, errors.Errorf("unsupported payment provider: %s", req.Provider)
}

func (g *GatewayClient) initializePaystack(ctx context.Context, req InitializePaymentRequest) (InitializePaymentResult, error) {
	secret := g.secretFor(models.ProviderPaystack, req.Config)
	if secret == "" {
		return InitializePaymentResult{}, errors.New("paystack secret key not configured")
	}

	reference := NewPaymentReference(req.TrackingNumber)
	metadata := map[string]interface{}{
		"tracking_number": req.TrackingNumber,
		"shipment_id":     req.ShipmentID,
		"payment_method":  "paystack",
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	payload := map[string]interface{}{
		"email":        req.Email,
		"amount":       int64(math.Round(req.Amount * 100)), // kobo
		"reference":    reference,
		"callback_url": g.cfg.AppURL + "/api/payment/callback/paystack",
		"metadata":     metadata,
	}

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			AuthorizationURL string `json:"authorization_url"`
			Reference        string `json:"reference"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := g.postJSON(ctx, g.cfg.PaystackBaseURL+"/transaction/initialize", secret, payload, &body); err != nil {
		return InitializePaymentResult{}, errors.Wrap(err, "paystack initialization failed")
	}
	if !body.Status || body.Data.AuthorizationURL == "" {
		return InitializePaymentResult{}, errors.Errorf("paystack initialization failed: %s", body.Message)
	}

	return InitializePaymentResult{
		Provider:       models.ProviderPaystack,
		PaymentURL:     body.Data.AuthorizationURL,
		Reference:      body.Data.Reference,
		TrackingNumber: req.TrackingNumber,
	}, nil
}

func (g *GatewayClient) initializeKorapay(ctx context.Context, req InitializePaymentRequest) (InitializePaymentResult, error) {
	secret := g.secretFor(models.ProviderKorapay, req.Config)
	if secret == "" {
		return InitializePaymentResult{}, errors.New("korapay secret key not configured")
	}

	reference := NewPaymentReference(req.TrackingNumber)
	metadata := map[string]interface{}{
		"tracking_number": req.TrackingNumber,
		"shipment_id":     req.ShipmentID,
	}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	payload := map[string]interface{}{
		"amount":       math.Round(req.Amount),
		"currency":     "NGN",
		"reference":    reference,
		"redirect_url": g.cfg.AppURL + "/api/payment/callback/korapay",
		"narration":    fmt.Sprintf("Shipment #%s", req.TrackingNumber),
		"customer": map[string]string{
			"name":  req.Name,
			"email": req.Email,
		},
		"metadata":           metadata,
		"merchant_bears_cost": false,
	}

	// Korapay initialization is retried with linear backoff; the reference
	// stays the same across attempts so a late success is not duplicated.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		var body struct {
			Status bool `json:"status"`
			Data   struct {
				CheckoutURL string `json:"checkout_url"`
			} `json:"data"`
			Message string `json:"message"`
		}
		err := g.postJSON(ctx, g.cfg.KorapayBaseURL+"/charges/initialize", secret, payload, &body)
		if err == nil && body.Status && body.Data.CheckoutURL != "" {
			return InitializePaymentResult{
				Provider:       models.ProviderKorapay,
				PaymentURL:     body.Data.CheckoutURL,
				Reference:      reference,
				TrackingNumber: req.TrackingNumber,
			}, nil
		}
		if err == nil {
			err = errors.Errorf("korapay rejected charge: %s", body.Message)
		}
		lastErr = err
		log.Printf("Korapay initialize attempt %d failed: %v", attempt, err)
		if attempt < 3 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return InitializePaymentResult{}, ctx.Err()
			}
		}
	}
	return InitializePaymentResult{}, errors.Wrap(lastErr, "korapay failed after retries")
}

// Verify asks the provider for the authoritative state of a reference.
// It is a read and safe to retry; callers never trust client-supplied
// status.
func (g *GatewayClient) Verify(ctx context.Context, provider models.PaymentProvider, reference string) (VerifyPaymentResult, error) {
	if reference == "" {
		return VerifyPaymentResult{}, errors.New("payment reference is required")
	}

	switch provider {
	case models.ProviderPaystack:
		return g.verifyPaystack(ctx, reference)
	case models.ProviderKorapay:
		return g.verifyKorapay(ctx, reference)
	}
	return VerifyPaymentResult{}, errors.Errorf("unsupported provider for verification: %s", provider)
}

func (g *GatewayClient) verifyPaystack(ctx context.Context, reference string) (VerifyPaymentResult, error) {
	secret := g.cfg.PaystackSecret
	if secret == "" {
		return VerifyPaymentResult{}, errors.New("paystack secret key not configured")
	}

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string                 `json:"status"`
			Amount   float64                `json:"amount"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := g.getJSON(ctx, g.cfg.PaystackBaseURL+"/transaction/verify/"+reference, secret, &body); err != nil {
		return VerifyPaymentResult{}, errors.Wrap(err, "paystack verification failed")
	}

	result := VerifyPaymentResult{
		Status:   body.Data.Status,
		Amount:   body.Data.Amount / 100, // kobo to naira
		Metadata: body.Data.Metadata,
		Message:  body.Message,
	}
	result.Success = body.Status && body.Data.Status == "success"
	return result, nil
}

func (g *GatewayClient) verifyKorapay(ctx context.Context, reference string) (VerifyPaymentResult, error) {
	secret := g.cfg.KorapaySecret
	if secret == "" {
		return VerifyPaymentResult{}, errors.New("korapay secret key not configured")
	}

	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string                 `json:"status"`
			Amount   float64                `json:"amount"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := g.getJSON(ctx, g.cfg.KorapayBaseURL+"/charges/"+reference, secret, &body); err != nil {
		return VerifyPaymentResult{}, errors.Wrap(err, "korapay verification failed")
	}

	result := VerifyPaymentResult{
		Status:   body.Data.Status,
		Amount:   body.Data.Amount,
		Metadata: body.Data.Metadata,
		Message:  body.Message,
	}
	result.Success = body.Status && (body.Data.Status == "success" || body.Data.Status == "successful")
	return result, nil
}

func (g *GatewayClient) postJSON(ctx context.Context, url, secret string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	req.Header.Set("Content-Type", "application/json")

	return g.do(req, out)
}

func (g *GatewayClient) getJSON(ctx context.Context, url, secret string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	req.Header.Set("Content-Type", "application/json")

	return g.do(req, out)
}

func (g *GatewayClient) do(req *http.Request, out interface{}) error {
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("gateway responded %d: %s", resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}
