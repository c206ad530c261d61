package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dishswipe/internal/dish"
	"dishswipe/internal/session"
)

// SessionStore defines the session registry operations used by the handlers.
type SessionStore interface {
	Catalog() *dish.Catalog
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
}

// Handler handles HTTP requests.
type Handler struct {
	Sessions SessionStore
}

// NewHandler creates a new Handler.
func NewHandler(sessions SessionStore) *Handler {
	return &Handler{Sessions: sessions}
}

type facetRequest struct {
	Value string `json:"value" binding:"required"`
}

type swipeRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type ingredientRequest struct {
	Ingredient string `json:"ingredient" binding:"required"`
}

// Health reports that the server is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetDishes lists the catalog filtered by the optional cuisine and subcategory query parameters.
func (h *Handler) GetDishes(c *gin.Context) {
	cuisine := c.Query("cuisine")
	subcategory := c.Query("subcategory")

	dishes := h.Sessions.Catalog().Visible(cuisine, subcategory)
	c.JSON(http.StatusOK, DishesView{
		Cuisine:     cuisine,
		Subcategory: subcategory,
		Count:       len(dishes),
		Dishes:      dishes,
	})
}

// GetFacets lists the cuisines and subcategories offered as filters.
func (h *Handler) GetFacets(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.Catalog().Facets())
}

// CreateSession starts a new browsing session.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.Sessions.Create()
	c.JSON(http.StatusCreated, h.view(s))
}

// GetSession renders the current state of a session.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(s))
}

// DeleteSession ends a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectCuisine toggles the cuisine facet of a session.
func (h *Handler) SelectCuisine(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req facetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	s.SelectCuisine(req.Value)
	c.JSON(http.StatusOK, h.view(s))
}

// SelectSubcategory toggles the subcategory facet of a session.
func (h *Handler) SelectSubcategory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req facetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	s.SelectSubcategory(req.Value)
	c.JSON(http.StatusOK, h.view(s))
}

// Swipe applies a left or right swipe to the card under the cursor.
func (h *Handler) Swipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	dir, err := session.ParseDirection(req.Direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.Swipe(dir)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwipeView{SwipeResult: result, Session: h.view(s)})
}

// Accept opens the detail of the visible dish at the given index.
func (h *Handler) Accept(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	_, opened := s.OnAccept(index)
	c.JSON(http.StatusOK, gin.H{"opened": opened, "session": h.view(s)})
}

// ComparePrices opens the price comparison for an ingredient of the open dish.
// The lookup runs in the background; poll the session for the result.
func (h *Handler) ComparePrices(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	if err := s.SelectIngredient(c.Request.Context(), req.Ingredient); err != nil {
		writeError(c, err)
		return
	}
	log.Printf("session %s: price lookup started for %q", s.ID(), req.Ingredient)
	c.JSON(http.StatusAccepted, h.view(s))
}

// DismissPrices closes the price comparison of a session.
func (h *Handler) DismissPrices(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.DismissPrices()
	c.JSON(http.StatusOK, h.view(s))
}

// DismissDetail closes the dish detail of a session.
func (h *Handler) DismissDetail(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.DismissDetail()
	c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) view(s *session.Session) SessionView {
	return newSessionView(s.Snapshot(), h.Sessions.Catalog().Facets())
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrOverlayOpen), errors.Is(err, session.ErrNoDetail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnknownIngredient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
