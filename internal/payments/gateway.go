package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"denchetravel/internal/shared/config"

	"github.com/google/uuid"
)

// CheckoutSession is the gateway's view of a payment session
type CheckoutSession struct {
	ID              string            `json:"id"`
	PaymentIntentID string            `json:"payment_intent"`
	URL             string            `json:"url"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Status          string            `json:"status"`
	Metadata        map[string]string `json:"metadata"`
}

// Refund is the gateway's view of an issued refund
type Refund struct {
	ID              string `json:"id"`
	PaymentIntentID string `json:"payment_intent"`
	AmountCents     int64  `json:"amount"`
	Status          string `json:"status"`
	Created         int64  `json:"created"`
}

// CheckoutParams describes the session to create
type CheckoutParams struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Gateway abstracts the payment processor. Callers depend only on this
// contract; the concrete provider is a configuration concern.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (*Refund, error)
}

// NewGateway selects the provider from configuration
func NewGateway(cfg *config.Config) Gateway {
	if cfg.Payment.Provider == "stripe" && cfg.Payment.StripeSecret != "" {
		return NewStripeGateway(cfg.Payment.StripeSecret, cfg.Payment.StripeBaseURL)
	}
	return NewMockGateway()
}

// mockGateway synthesizes already-settled sessions so the booking flow can be
// exercised end to end without a live payment account.
type mockGateway struct{}

func NewMockGateway() Gateway {
	return &mockGateway{}
}

func (g *mockGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionID := fmt.Sprintf("cs_test_%s", uuid.New().String())
	paymentIntentID := fmt.Sprintf("pi_test_%s", uuid.New().String())

	return &CheckoutSession{
		ID:              sessionID,
		PaymentIntentID: paymentIntentID,
		URL:             fmt.Sprintf("/mock-checkout?session_id=%s&amount=%d&currency=%s", sessionID, params.AmountCents, params.Currency),
		AmountTotal:     params.AmountCents,
		Currency:        strings.ToLower(params.Currency),
		PaymentStatus:   "paid",
		Status:          "complete",
		Metadata:        params.Metadata,
	}, nil
}

func (g *mockGateway) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	return &CheckoutSession{
		ID:              sessionID,
		PaymentIntentID: fmt.Sprintf("pi_test_%s", uuid.New().String()),
		PaymentStatus:   "paid",
		Status:          "complete",
		Currency:        "eur",
		Metadata:        map[string]string{},
	}, nil
}

func (g *mockGateway) CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (*Refund, error) {
	return &Refund{
		ID:              fmt.Sprintf("re_test_%s", uuid.New().String()),
		PaymentIntentID: paymentIntentID,
		AmountCents:     amountCents,
		Status:          "succeeded",
		Created:         time.Now().Unix(),
	}, nil
}

// stripeGateway talks to the provider's REST API with form-encoded requests
type stripeGateway struct {
	secret  string
	baseURL string
	client  *http.Client
}

func NewStripeGateway(secret, baseURL string) Gateway {
	return &stripeGateway{
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(params.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Trip booking")
	form.Set("line_items[0][quantity]", "1")
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var session CheckoutSession
	if err := g.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *stripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secret)

	var session CheckoutSession
	if err := g.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *stripeGateway) CreateRefund(ctx context.Context, paymentIntentID string, amountCents int64) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	form.Set("amount", strconv.FormatInt(amountCents, 10))

	var refund Refund
	if err := g.post(ctx, "/v1/refunds", form, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (g *stripeGateway) post(ctx context.Context, path string, form url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return g.do(req, dest)
}

func (g *stripeGateway) do(req *http.Request, dest interface{}) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned status %d for %s", resp.StatusCode, req.URL.Path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
