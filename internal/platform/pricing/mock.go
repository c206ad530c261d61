package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Mock is a stub price lookup. Prices are derived from a hash of the
// ingredient and store names, so the same ingredient always yields the
// same quotes.
type Mock struct {
	stores []string
	delay  time.Duration
}

// NewMock creates a stub lookup over the given stores. An empty list falls
// back to DefaultStores. Each lookup waits for delay before answering.
func NewMock(stores []string, delay time.Duration) *Mock {
	if len(stores) == 0 {
		stores = DefaultStores
	}
	return &Mock{stores: append([]string(nil), stores...), delay: delay}
}

// FetchPrices returns a price per store for the ingredient.
func (m *Mock) FetchPrices(ctx context.Context, ingredient string) (map[string]float64, error) {
	key := NormalizeIngredient(ingredient)
	if key == "" {
		return nil, ErrEmptyIngredient
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	prices := make(map[string]float64, len(m.stores))
	for _, store := range m.stores {
		prices[store] = stubPrice(key, store)
	}
	return prices, nil
}

// NormalizeIngredient trims, lower-cases and NFC-normalises an ingredient
// name so that visually identical names map to the same key.
func NormalizeIngredient(ingredient string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(ingredient)))
}

// stubPrice maps (ingredient, store) to a price between 5.00 and 99.99.
func stubPrice(ingredient, store string) float64 {
	hash := sha256.Sum256([]byte(ingredient + "|" + store))
	cents := 500 + binary.BigEndian.Uint32(hash[:4])%9500
	return float64(cents) / 100
}
