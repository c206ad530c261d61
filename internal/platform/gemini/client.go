package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"dishswipe/internal/platform/pricing"
)

// Client estimates ingredient prices with the Gemini API.
type Client struct {
	model  *genai.GenerativeModel
	stores []string
}

// NewClient creates a new Gemini client that quotes the given stores.
func NewClient(ctx context.Context, apiKey string, stores []string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		stores = pricing.DefaultStores
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	model.ResponseMIMEType = "application/json"
	return &Client{model: model, stores: append([]string(nil), stores...)}, nil
}

// FetchPrices asks Gemini for a current price estimate of the ingredient at each store.
func (c *Client) FetchPrices(ctx context.Context, ingredient string) (map[string]float64, error) {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return nil, pricing.ErrEmptyIngredient
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(ingredient, c.stores)))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	return parsePrices(string(text), c.stores)
}

func buildPrompt(ingredient string, stores []string) string {
	return fmt.Sprintf("Estimate the typical retail price in Swedish kronor of one standard package of %q at each of these grocery stores: %s. "+
		"Return a single, clean JSON object mapping each store name exactly as given to a number. "+
		"The JSON response should be clean and not contain any markdown formatting (e.g., ```json).",
		ingredient, strings.Join(stores, ", "))
}

// parsePrices extracts the store→price object from a model response,
// keeping only the requested stores.
func parsePrices(text string, stores []string) (map[string]float64, error) {
	// Extract the JSON from the response, which might be wrapped in markdown
	startIndex := strings.Index(text, "{")
	endIndex := strings.LastIndex(text, "}")
	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return nil, fmt.Errorf("could not find JSON object in response: %s", text)
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(text[startIndex:endIndex+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prices JSON: %w", err)
	}

	prices := make(map[string]float64, len(stores))
	for _, store := range stores {
		if price, ok := raw[store]; ok {
			prices[store] = price
		}
	}
	if err := pricing.Validate(prices); err != nil {
		return nil, err
	}
	return prices, nil
}
