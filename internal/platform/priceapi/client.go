package priceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dishswipe/internal/platform/pricing"
)

// Client fetches ingredient prices from a remote price comparison API.
type Client struct {
	httpClient *http.Client
	apiURL     string
}

// NewClient creates a new client for the price API at apiURL.
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
	}
}

// Response represents the response body of the price API.
type Response struct {
	Ingredient string             `json:"ingredient"`
	Prices     map[string]float64 `json:"prices"`
}

// FetchPrices sends a single request for the ingredient and returns the store→price mapping.
func (c *Client) FetchPrices(ctx context.Context, ingredient string) (map[string]float64, error) {
	if pricing.NormalizeIngredient(ingredient) == "" {
		return nil, pricing.ErrEmptyIngredient
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid price api url: %w", err)
	}
	q := u.Query()
	q.Set("ingredient", ingredient)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	var priceResp Response
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if err := pricing.Validate(priceResp.Prices); err != nil {
		return nil, err
	}
	return priceResp.Prices, nil
}
