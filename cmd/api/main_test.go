package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dishswipe/internal/api"
	"dishswipe/internal/dish"
	"dishswipe/internal/platform/pricing"
	"dishswipe/internal/session"
)

// mockPriceLookup is a mock of a price backend.
type mockPriceLookup struct {
	prices map[string]map[string]float64
	err    error
}

// FetchPrices mocks the FetchPrices method.
func (m *mockPriceLookup) FetchPrices(ctx context.Context, ingredient string) (map[string]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.prices[ingredient], nil
}

func newTestRouter(lookup session.PriceLookup) (*gin.Engine, *session.Manager) {
	gin.SetMode(gin.TestMode)

	catalog := dish.NewCatalog([]dish.Dish{
		{Name: "Tacos", Cuisine: "Mexican", Subcategories: []string{"Spicy"}, Ingredients: []string{"Cheese", "Tortilla"}, Protein: 30, Calories: 650, RecipeURL: "https://example.com/tacos"},
		{Name: "Pasta", Cuisine: "Italian", Subcategories: []string{"Comfort"}, Ingredients: []string{"Spaghetti"}, Protein: 20, Calories: 700, RecipeURL: "https://example.com/pasta"},
	})
	manager := session.NewManager(catalog, lookup, session.Options{LookupTimeout: time.Second})
	return setupRouter(api.NewHandler(manager), []string{"http://localhost:8081"}), manager
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) api.SessionView {
	t.Helper()
	var v api.SessionView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rr := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	return decodeView(t, rr).ID
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})

	rr := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestGetDishes(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})

	rr := doJSON(t, r, http.MethodGet, "/dishes", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var all api.DishesView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Equal(t, 2, all.Count)

	rr = doJSON(t, r, http.MethodGet, "/dishes?cuisine=Mexican", nil)
	var mexican api.DishesView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &mexican))
	require.Len(t, mexican.Dishes, 1)
	assert.Equal(t, "Tacos", mexican.Dishes[0].Name)

	rr = doJSON(t, r, http.MethodGet, "/dishes?cuisine=Mexican&subcategory=Comfort", nil)
	var none api.DishesView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &none))
	assert.Equal(t, 0, none.Count)
	assert.NotNil(t, none.Dishes)
}

func TestGetFacets(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})

	rr := doJSON(t, r, http.MethodGet, "/facets", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cuisines":["Mexican","Italian"],"subcategories":["Spicy","Comfort"]}`, rr.Body.String())
}

func TestSession_CuisineToggle(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/cuisine", gin.H{"value": "Mexican"})
	assert.Equal(t, http.StatusOK, rr.Code)
	v := decodeView(t, rr)
	assert.Equal(t, "Mexican", v.Cuisine)
	assert.Equal(t, 1, v.VisibleCount)
	assert.Equal(t, "Tacos", v.Current.Name)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/cuisine", gin.H{"value": "Mexican"})
	v = decodeView(t, rr)
	assert.Empty(t, v.Cuisine)
	assert.Equal(t, 2, v.VisibleCount)
}

func TestSession_SubcategoryResetsCursor(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "left"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/subcategory", gin.H{"value": "Comfort"})
	v := decodeView(t, rr)
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, "Pasta", v.Current.Name)
}

func TestSession_SwipeToNoResults(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)
	doJSON(t, r, http.MethodPost, "/sessions/"+id+"/cuisine", gin.H{"value": "Italian"})

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "left"})
	require.Equal(t, http.StatusOK, rr.Code)
	var sv api.SwipeView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sv))
	assert.Equal(t, "Pasta", sv.Swiped.Name)
	assert.True(t, sv.Session.NoResults)
	assert.Equal(t, api.NoResultsMessage, sv.Session.Message)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "right"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSession_InvalidRequests(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "up"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/cuisine", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/accept/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodGet, "/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/prices", gin.H{"ingredient": "Cheese"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSession_AcceptIndex(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)
	doJSON(t, r, http.MethodPost, "/sessions/"+id+"/cuisine", gin.H{"value": "Mexican"})

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/accept/5", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Opened  bool            `json:"opened"`
		Session api.SessionView `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.False(t, out.Opened)
	assert.Nil(t, out.Session.Detail)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/accept/0", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.True(t, out.Opened)
	assert.Equal(t, "Tacos", out.Session.Detail.Name)
	assert.Equal(t, session.StateDetailOpen, out.Session.State)
}

func TestSession_PriceComparison(t *testing.T) {
	lookup := &mockPriceLookup{prices: map[string]map[string]float64{
		"Cheese":   {"StoreA": 12.5, "StoreB": 11.0},
		"Tortilla": {"StoreC": 19.9},
	}}
	r, manager := newTestRouter(lookup)
	id := createSession(t, r)

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "right"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/swipe", gin.H{"direction": "left"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/prices", gin.H{"ingredient": "Bacon"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/prices", gin.H{"ingredient": "Cheese"})
	require.Equal(t, http.StatusAccepted, rr.Code)

	s, err := manager.Get(id)
	require.NoError(t, err)
	s.Wait()

	v := decodeView(t, doJSON(t, r, http.MethodGet, "/sessions/"+id, nil))
	assert.Equal(t, session.StatePriceCompareOpen, v.State)
	require.NotNil(t, v.Prices)
	assert.Equal(t, session.PriceReady, v.Prices.Status)
	assert.Equal(t, []pricing.Quote{
		{Store: "StoreB", Price: 11.0, Display: "11.00 kr"},
		{Store: "StoreA", Price: 12.5, Display: "12.50 kr"},
	}, v.Prices.Quotes)

	v = decodeView(t, doJSON(t, r, http.MethodDelete, "/sessions/"+id+"/prices", nil))
	assert.Nil(t, v.Prices)
	assert.Equal(t, session.StateDetailOpen, v.State)

	rr = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/prices", gin.H{"ingredient": "Tortilla"})
	v = decodeView(t, rr)
	assert.Equal(t, "Tortilla", v.Prices.Ingredient)
	for _, q := range v.Prices.Quotes {
		assert.Equal(t, "StoreC", q.Store)
	}
	s.Wait()

	v = decodeView(t, doJSON(t, r, http.MethodDelete, "/sessions/"+id+"/detail", nil))
	assert.Equal(t, session.StateBrowsing, v.State)
	assert.Nil(t, v.Detail)
	assert.Nil(t, v.Prices)
}

func TestSession_PriceLookupFailure(t *testing.T) {
	r, manager := newTestRouter(&mockPriceLookup{err: errors.New("timeout")})
	id := createSession(t, r)
	doJSON(t, r, http.MethodPost, "/sessions/"+id+"/accept/0", nil)

	rr := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/prices", gin.H{"ingredient": "Cheese"})
	require.Equal(t, http.StatusAccepted, rr.Code)

	s, err := manager.Get(id)
	require.NoError(t, err)
	s.Wait()

	v := decodeView(t, doJSON(t, r, http.MethodGet, "/sessions/"+id, nil))
	assert.Equal(t, session.PriceUnavailable, v.Prices.Status)
	assert.Equal(t, session.UnavailableNotice, v.Prices.Notice)
}

func TestDeleteSession(t *testing.T) {
	r, _ := newTestRouter(&mockPriceLookup{})
	id := createSession(t, r)

	rr := doJSON(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":"9000","price_provider":"HTTP","price_api_url":"http://prices.local","stores":["A","B"]}`), 0o644))

	t.Setenv("PORT", "")
	t.Setenv("PRICE_PROVIDER", "")
	t.Setenv("PRICE_API_URL", "")
	t.Setenv("PRICE_STORES", "")
	t.Setenv("LOOKUP_TIMEOUT_SECONDS", "")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http", cfg.PriceProvider)
	assert.Equal(t, []string{"A", "B"}, cfg.Stores)
	assert.Equal(t, 10, cfg.LookupTimeoutSecond)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("PRICE_PROVIDER", "mock")
	t.Setenv("PRICE_STORES", "ICA, Coop ,")
	t.Setenv("LOOKUP_TIMEOUT_SECONDS", "3")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, []string{"ICA", "Coop"}, cfg.Stores)
	assert.Equal(t, 3, cfg.LookupTimeoutSecond)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestNewPriceLookup(t *testing.T) {
	lookup, err := newPriceLookup(context.Background(), Config{PriceProvider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &pricing.Mock{}, lookup)

	_, err = newPriceLookup(context.Background(), Config{PriceProvider: "http"})
	assert.Error(t, err)

	_, err = newPriceLookup(context.Background(), Config{PriceProvider: "gemini"})
	assert.Error(t, err)

	_, err = newPriceLookup(context.Background(), Config{PriceProvider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestLoadCatalog_BuiltIn(t *testing.T) {
	catalog, err := loadCatalog(context.Background(), Config{})
	require.NoError(t, err)
	assert.NotZero(t, catalog.Len())
}
