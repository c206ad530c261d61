package session

import (
	"errors"
	"fmt"
	"strings"

	"dishswipe/internal/dish"
	"dishswipe/internal/platform/pricing"
)

var (
	// ErrOverlayOpen is returned when a swipe arrives while a detail or price view covers the deck.
	ErrOverlayOpen = errors.New("a dish detail is open")
	// ErrNoDetail is returned when an ingredient is selected without an open dish detail.
	ErrNoDetail = errors.New("no dish detail is open")
	// ErrUnknownIngredient is returned when the selected ingredient is not part of the open dish.
	ErrUnknownIngredient = errors.New("ingredient is not part of the open dish")
	// ErrSessionNotFound is returned by the Manager for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
)

// State is the overlay state of a browsing session.
type State string

const (
	StateBrowsing         State = "browsing"
	StateDetailOpen       State = "detail_open"
	StatePriceCompareOpen State = "price_compare_open"
)

// Direction is the direction of a swipe gesture.
type Direction string

const (
	// DirectionLeft skips the card.
	DirectionLeft Direction = "left"
	// DirectionRight accepts the card and opens its detail.
	DirectionRight Direction = "right"
)

// ParseDirection converts a gesture name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionRight:
		return DirectionRight, nil
	}
	return "", fmt.Errorf("unknown swipe direction %q", s)
}

// PriceStatus is the progress of the price lookup behind a price view.
type PriceStatus string

const (
	PriceLoading     PriceStatus = "loading"
	PriceReady       PriceStatus = "ready"
	PriceUnavailable PriceStatus = "unavailable"
)

// UnavailableNotice is shown in place of quotes when a lookup fails or returns nothing.
const UnavailableNotice = "Prices are unavailable right now"

// PriceView is the price comparison for one ingredient.
type PriceView struct {
	Ingredient string          `json:"ingredient"`
	Status     PriceStatus     `json:"status"`
	Quotes     []pricing.Quote `json:"quotes"`
	Notice     string          `json:"notice,omitempty"`
}

// SwipeResult describes what a swipe did.
type SwipeResult struct {
	// Swiped is the card that was swiped away; nil when the deck was exhausted.
	Swiped *dish.Dish `json:"swiped,omitempty"`
	// Opened is set when the swipe opened the dish detail.
	Opened bool `json:"opened"`
}

// Snapshot is a point-in-time copy of a session, safe to render.
type Snapshot struct {
	ID           string     `json:"id"`
	State        State      `json:"state"`
	Cuisine      string     `json:"cuisine,omitempty"`
	Subcategory  string     `json:"subcategory,omitempty"`
	Cursor       int        `json:"cursor"`
	VisibleCount int        `json:"visible_count"`
	Current      *dish.Dish `json:"current,omitempty"`
	Detail       *dish.Dish `json:"detail,omitempty"`
	Prices       *PriceView `json:"prices,omitempty"`
}
