package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sabbir-Coder/AssetVerse-Server/internal/service"
	"github.com/Sabbir-Coder/AssetVerse-Server/pkg/config"
)

// Client talks to the hosted checkout provider over its REST API and
// implements service.CheckoutProvider.
type Client struct {
	baseURL    string
	apiKey     string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// New constructs a checkout client from configuration.
func New(cfg config.PaymentConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sessionRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
	Customer    string `json:"customer_email"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type sessionResponse struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

// CreateSession opens a checkout session and returns the redirect target.
func (c *Client) CreateSession(ctx context.Context, params service.CheckoutSessionParams) (*service.CheckoutSession, error) {
	body, err := json.Marshal(sessionRequest{
		AmountCents: params.AmountCents,
		Currency:    params.Currency,
		Description: params.Description,
		Reference:   params.Reference,
		Customer:    params.Customer,
		SuccessURL:  c.successURL,
		CancelURL:   c.cancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call checkout provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout provider returned status %d", resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.ID == "" || session.RedirectURL == "" {
		return nil, fmt.Errorf("checkout provider returned incomplete session")
	}

	return &service.CheckoutSession{ID: session.ID, RedirectURL: session.RedirectURL}, nil
}
