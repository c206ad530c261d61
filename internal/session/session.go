// Package session implements the card browsing session: facet toggles, the
// browsing cursor, the dish detail overlay and the asynchronous price
// comparison overlay.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"dishswipe/internal/dish"
	"dishswipe/internal/platform/pricing"
)

// DefaultLookupTimeout bounds a single price lookup when Options leaves it unset.
const DefaultLookupTimeout = 10 * time.Second

// PriceLookup returns a store→price mapping for an ingredient.
type PriceLookup interface {
	FetchPrices(ctx context.Context, ingredient string) (map[string]float64, error)
}

// Options configures new sessions.
type Options struct {
	LookupTimeout time.Duration
}

// Session holds one user's browsing state. All methods are safe for
// concurrent use; mutations are applied one at a time.
type Session struct {
	id            string
	catalog       *dish.Catalog
	lookup        PriceLookup
	lookupTimeout time.Duration

	mu          sync.Mutex
	cuisine     string
	subcategory string
	visible     []dish.Dish
	cursor      int
	state       State
	detail      *dish.Dish
	prices      *PriceView
	// query identifies the price lookup whose result may still be applied.
	query       uint64
	cancelQuery context.CancelFunc

	inflight sync.WaitGroup
}

// New creates a session over the full catalog in the Browsing state.
func New(id string, catalog *dish.Catalog, lookup PriceLookup, opts Options) *Session {
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Session{
		id:            id,
		catalog:       catalog,
		lookup:        lookup,
		lookupTimeout: timeout,
		visible:       catalog.Visible("", ""),
		state:         StateBrowsing,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SelectCuisine toggles the cuisine facet and resets the cursor.
func (s *Session) SelectCuisine(cuisine string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cuisine = toggle(s.cuisine, cuisine)
	s.refilter()
}

// SelectSubcategory toggles the subcategory facet and resets the cursor.
func (s *Session) SelectSubcategory(subcategory string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subcategory = toggle(s.subcategory, subcategory)
	s.refilter()
}

func toggle(current, selected string) string {
	if current == selected {
		return ""
	}
	return selected
}

func (s *Session) refilter() {
	s.visible = s.catalog.Visible(s.cuisine, s.subcategory)
	s.cursor = 0
}

// Visible returns the dishes passing the active facets.
func (s *Session) Visible() []dish.Dish {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dish.Dish(nil), s.visible...)
}

// Cursor returns the index of the card currently presented.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// State returns the current overlay state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the card under the cursor. It reports false once the
// cursor has moved past the visible set, which is the "no results" state.
func (s *Session) Current() (dish.Dish, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *Session) current() (dish.Dish, bool) {
	if s.cursor < 0 || s.cursor >= len(s.visible) {
		return dish.Dish{}, false
	}
	return s.visible[s.cursor], true
}

// Advance moves the cursor forward by one card.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor++
}

// OnAccept opens the detail of the visible dish at index. Out-of-range
// indexes, which occur when the filter changed mid-swipe, open nothing.
func (s *Session) OnAccept(index int) (dish.Dish, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accept(index)
}

func (s *Session) accept(index int) (dish.Dish, bool) {
	if s.state != StateBrowsing || index < 0 || index >= len(s.visible) {
		return dish.Dish{}, false
	}
	d := s.visible[index]
	s.detail = &d
	s.state = StateDetailOpen
	return d, true
}

// Swipe applies one swipe gesture to the card under the cursor. Swiping an
// exhausted deck does nothing.
func (s *Session) Swipe(dir Direction) (SwipeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBrowsing {
		return SwipeResult{}, ErrOverlayOpen
	}

	index := s.cursor
	card, ok := s.current()
	if !ok {
		return SwipeResult{}, nil
	}
	s.cursor++

	result := SwipeResult{Swiped: &card}
	if dir == DirectionRight {
		_, result.Opened = s.accept(index)
	}
	return result, nil
}

// SelectIngredient opens the price comparison for an ingredient of the open
// dish and starts the lookup in the background. A newer selection or a
// dismissal makes the result of this lookup stale.
func (s *Session) SelectIngredient(ctx context.Context, ingredient string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detail == nil {
		return ErrNoDetail
	}
	if !s.detail.HasIngredient(ingredient) {
		return ErrUnknownIngredient
	}

	s.invalidateQuery()
	query := s.query
	s.prices = &PriceView{Ingredient: ingredient, Status: PriceLoading, Quotes: []pricing.Quote{}}
	s.state = StatePriceCompareOpen

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
	s.cancelQuery = cancel

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		prices, err := s.lookup.FetchPrices(lookupCtx, ingredient)
		s.resolve(query, ingredient, prices, err)
	}()
	return nil
}

// resolve applies a finished lookup if it is still the current query.
func (s *Session) resolve(query uint64, ingredient string, prices map[string]float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if query != s.query || s.state != StatePriceCompareOpen || s.prices == nil || s.prices.Ingredient != ingredient {
		log.Printf("session %s: discarding stale prices for %q", s.id, ingredient)
		return
	}

	if err == nil {
		err = pricing.Validate(prices)
	}
	if err != nil || len(prices) == 0 {
		if err != nil {
			log.Printf("session %s: price lookup for %q failed: %v", s.id, ingredient, err)
		} else {
			log.Printf("session %s: price lookup for %q returned no stores", s.id, ingredient)
		}
		s.prices = &PriceView{Ingredient: ingredient, Status: PriceUnavailable, Quotes: []pricing.Quote{}, Notice: UnavailableNotice}
		return
	}

	s.prices = &PriceView{Ingredient: ingredient, Status: PriceReady, Quotes: pricing.Quotes(prices)}
}

// invalidateQuery makes any in-flight lookup stale. Callers hold s.mu.
func (s *Session) invalidateQuery() {
	s.query++
	if s.cancelQuery != nil {
		s.cancelQuery()
		s.cancelQuery = nil
	}
}

// DismissPrices closes the price comparison and returns to the dish detail.
func (s *Session) DismissPrices() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePriceCompareOpen {
		return
	}
	s.invalidateQuery()
	s.prices = nil
	if s.detail != nil {
		s.state = StateDetailOpen
	} else {
		s.state = StateBrowsing
	}
}

// DismissDetail closes the dish detail and any price comparison above it.
func (s *Session) DismissDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateQuery()
	s.prices = nil
	s.detail = nil
	s.state = StateBrowsing
}

// Snapshot returns a copy of the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:           s.id,
		State:        s.state,
		Cuisine:      s.cuisine,
		Subcategory:  s.subcategory,
		Cursor:       s.cursor,
		VisibleCount: len(s.visible),
	}
	if d, ok := s.current(); ok {
		snap.Current = &d
	}
	if s.detail != nil {
		d := *s.detail
		snap.Detail = &d
	}
	if s.prices != nil {
		p := *s.prices
		p.Quotes = append([]pricing.Quote{}, s.prices.Quotes...)
		snap.Prices = &p
	}
	return snap
}

// Wait blocks until every price lookup started by the session has returned.
func (s *Session) Wait() {
	s.inflight.Wait()
}
