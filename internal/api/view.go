package api

import (
	"dishswipe/internal/dish"
	"dishswipe/internal/session"
)

// NoResultsMessage is shown when no card is left under the cursor.
const NoResultsMessage = "No dishes match the selected filters"

// SessionView is the JSON rendering of a browsing session.
type SessionView struct {
	session.Snapshot
	Facets    dish.Facets `json:"facets"`
	NoResults bool        `json:"no_results"`
	Message   string      `json:"message,omitempty"`
}

func newSessionView(snap session.Snapshot, facets dish.Facets) SessionView {
	v := SessionView{Snapshot: snap, Facets: facets}
	if snap.Current == nil {
		v.NoResults = true
		v.Message = NoResultsMessage
	}
	return v
}

// SwipeView is the response to a swipe gesture.
type SwipeView struct {
	session.SwipeResult
	Session SessionView `json:"session"`
}

// DishesView is the response of the stateless dish listing.
type DishesView struct {
	Cuisine     string      `json:"cuisine,omitempty"`
	Subcategory string      `json:"subcategory,omitempty"`
	Count       int         `json:"count"`
	Dishes      []dish.Dish `json:"dishes"`
}
