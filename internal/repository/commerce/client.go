// Package commerce implements the catalog against a hosted commerce
// platform's storefront GraphQL API. It also exposes the platform's remote
// cart for clients that opt into server-side carts instead of the cookie
// cart.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwaldorf05/fhp-storefront/pkg/httpclient"
)

// DefaultAPIVersion pins the storefront API version the queries are written
// against.
const DefaultAPIVersion = "2024-01"

// Config holds the commerce platform connection settings.
type Config struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
}

// Client executes GraphQL operations against the storefront API.
type Client struct {
	http     *httpclient.Client
	endpoint string
	token    string
	logger   *slog.Logger
}

// NewClient creates a commerce client. StoreDomain and AccessToken must be
// set; that is validated at config load time.
func NewClient(cfg Config, hc *httpclient.Client, logger *slog.Logger) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	return &Client{
		http:     hc,
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", cfg.StoreDomain, version),
		token:    cfg.AccessToken,
		logger:   logger,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// execute posts a GraphQL operation and unmarshals the data field into
// target. Transport failures, non-2xx statuses, and GraphQL-level errors
// all surface as errors.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, target any) error {
	if variables == nil {
		variables = map[string]any{}
	}
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("storefront api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "storefront api")
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read storefront api response: %w", err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode storefront api response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		c.logger.ErrorContext(ctx, "storefront api returned graphql errors",
			slog.String("errors", strings.Join(msgs, ", ")),
		)
		return fmt.Errorf("storefront api graphql errors: %s", strings.Join(msgs, ", "))
	}

	if target != nil {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("decode storefront api data: %w", err)
		}
	}
	return nil
}
