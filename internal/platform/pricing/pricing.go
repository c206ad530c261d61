// Package pricing holds the price quote types shared by every price lookup
// backend, plus a deterministic stub backend.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyIngredient is returned when a lookup is requested without an ingredient name.
var ErrEmptyIngredient = errors.New("ingredient name is empty")

// Currency is the suffix used when rendering prices.
const Currency = "kr"

// DefaultStores is the store list used by the stub and Gemini backends
// when no stores are configured.
var DefaultStores = []string{"ICA", "Coop", "Willys", "Hemköp", "Lidl"}

// Quote is one store's price for an ingredient.
type Quote struct {
	Store   string  `json:"store"`
	Price   float64 `json:"price"`
	Display string  `json:"display"`
}

// FormatPrice renders a price with two decimals and the currency suffix.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f %s", price, Currency)
}

// Quotes flattens a store→price mapping into quotes ordered cheapest first.
// Stores with equal prices are ordered by name.
func Quotes(prices map[string]float64) []Quote {
	quotes := make([]Quote, 0, len(prices))
	for store, price := range prices {
		quotes = append(quotes, Quote{Store: store, Price: price, Display: FormatPrice(price)})
	}
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Price != quotes[j].Price {
			return quotes[i].Price < quotes[j].Price
		}
		return quotes[i].Store < quotes[j].Store
	})
	return quotes
}

// Validate checks that every store name is set and every price is a
// non-negative finite number.
func Validate(prices map[string]float64) error {
	for store, price := range prices {
		if store == "" {
			return fmt.Errorf("price with empty store name")
		}
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return fmt.Errorf("invalid price %v for store %q", price, store)
		}
	}
	return nil
}
