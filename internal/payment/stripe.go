// Package payment creates hosted checkout sessions through Stripe's REST
// API. Only the checkout session endpoint is used; webhooks and refunds are
// handled elsewhere.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httpclient"
)

// DefaultAPIURL is Stripe's production endpoint. Tests point this at a local
// server.
const DefaultAPIURL = "https://api.stripe.com"

// Session is a created checkout session. URL is where the customer is
// redirected to pay.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionParams describes a checkout session to create.
type SessionParams struct {
	LineItems  []domain.CheckoutLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Client calls the Stripe API. Calls go through a circuit breaker so a
// Stripe outage fails fast instead of stacking up request timeouts.
type Client struct {
	http      *httpclient.CircuitBreakerClient
	apiURL    string
	secretKey string
	logger    *slog.Logger
}

// NewClient creates a Stripe client. An empty apiURL uses production.
func NewClient(secretKey, apiURL string, hc *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		http:      hc,
		apiURL:    strings.TrimRight(apiURL, "/"),
		secretKey: secretKey,
		logger:    logger,
	}
}

// Configured reports whether a secret key is present. The checkout flow
// refuses to start without one rather than calling Stripe unauthenticated.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// CreateCheckoutSession creates a payment-mode checkout session and returns
// its hosted URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := sessionForm(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "stripe request failed",
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ServiceUnavailable("payment provider unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "stripe")
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}
	if session.URL == "" {
		return nil, apperrors.PaymentFailed("checkout session URL was not created")
	}
	return &session, nil
}

// sessionForm encodes session parameters in Stripe's bracketed form style,
// e.g. line_items[0][price_data][unit_amount]=6900.
func sessionForm(params SessionParams) url.Values {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("allow_promotion_codes", "true")
	form.Set("billing_address_collection", "auto")

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.AmountCents, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.Description != "" {
			form.Set(prefix+"[price_data][product_data][description]", item.Description)
		}
		for k, v := range item.Metadata {
			form.Set(prefix+"[price_data][product_data][metadata]["+k+"]", v)
		}
	}

	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	return form
}
