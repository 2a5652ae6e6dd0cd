// Package checkout creates the one-off payment session that upgrades a
// user to the premium export feature. It speaks Stripe's form-encoded
// checkout-sessions API directly; there is exactly one line item and the
// price never varies.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.stripe.com/v1/checkout/sessions"

// The premium export product: GBP 10.00, quantity 1.
const (
	productName = "Wedding Planner – PDF & CSV Export"
	currency    = "gbp"
	unitAmount  = "1000"
)

// ErrMissingCredential reports an absent provider secret. No outbound
// request is attempted when it is returned.
var ErrMissingCredential = errors.New("Missing STRIPE_SECRET_KEY")

// ErrNetwork reports a request that could not complete at all.
var ErrNetwork = errors.New("network error")

// ProviderError carries the provider's own message for a rejected request.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// Client issues checkout-session requests. It never retries: one user
// click is one attempt, and the caller decides whether to try again.
type Client struct {
	secretKey string
	siteURL   string
	endpoint  string
	httpc     *http.Client
}

// New builds a client. The secret may be empty; CreateSession then fails
// immediately with ErrMissingCredential.
func New(secretKey, siteURL string) *Client {
	return &Client{
		secretKey: secretKey,
		siteURL:   strings.TrimRight(siteURL, "/"),
		endpoint:  defaultEndpoint,
		httpc:     &http.Client{Timeout: 15 * time.Second},
	}
}

type sessionResponse struct {
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession sends the fixed line item to the provider and returns the
// redirect URL for the hosted payment page.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	if c.secretKey == "" {
		return "", ErrMissingCredential
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", c.siteURL+"/premium?success=1&session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.siteURL+"/plan?canceled=1")
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][product_data][name]", productName)
	form.Set("line_items[0][price_data][unit_amount]", unitAmount)
	form.Set("line_items[0][quantity]", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	// A non-JSON error body still maps onto the generic provider message.
	var body sessionResponse
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Stripe API error"
		if body.Error != nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return "", &ProviderError{Message: msg}
	}

	if body.URL == "" {
		return "", &ProviderError{Message: "Stripe API error"}
	}
	return body.URL, nil
}
