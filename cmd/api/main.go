package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dishswipe/internal/api"
	"dishswipe/internal/dish"
	"dishswipe/internal/platform/gemini"
	"dishswipe/internal/platform/priceapi"
	"dishswipe/internal/platform/pricing"
	"dishswipe/internal/session"
)

// Config represents the application configuration.
type Config struct {
	Port                string   `json:"port"`
	DatabaseURL         string   `json:"DATABASE_URL"`
	PriceProvider       string   `json:"price_provider"`
	PriceAPIURL         string   `json:"price_api_url"`
	GeminiAPIKey        string   `json:"gemini_api_key"`
	Stores              []string `json:"stores"`
	LookupTimeoutSecond int      `json:"lookup_timeout_seconds"`
	MockDelayMillis     int      `json:"mock_delay_ms"`
	AllowOrigins        []string `json:"allow_origins"`
}

func defaultConfig() Config {
	return Config{
		Port:                "8080",
		PriceProvider:       "mock",
		LookupTimeoutSecond: 10,
		AllowOrigins:        []string{"http://localhost:8081"},
	}
}

// loadConfig reads config.json when present and applies environment
// overrides, including those from a .env file.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	configData, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(configData, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("%s not found, using defaults and environment", path)
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	_ = godotenv.Load()

	overrides := map[string]*string{
		"PORT":           &cfg.Port,
		"DATABASE_URL":   &cfg.DatabaseURL,
		"PRICE_PROVIDER": &cfg.PriceProvider,
		"PRICE_API_URL":  &cfg.PriceAPIURL,
		"GEMINI_API_KEY": &cfg.GeminiAPIKey,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
	if v := os.Getenv("PRICE_STORES"); v != "" {
		cfg.Stores = splitList(v)
	}
	if v := os.Getenv("LOOKUP_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOOKUP_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.LookupTimeoutSecond = n
	}

	cfg.PriceProvider = strings.ToLower(cfg.PriceProvider)
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// newPriceLookup builds the price backend named by the configuration.
func newPriceLookup(ctx context.Context, cfg Config) (session.PriceLookup, error) {
	timeout := time.Duration(cfg.LookupTimeoutSecond) * time.Second
	switch cfg.PriceProvider {
	case "", "mock":
		return pricing.NewMock(cfg.Stores, time.Duration(cfg.MockDelayMillis)*time.Millisecond), nil
	case "http":
		if cfg.PriceAPIURL == "" {
			return nil, fmt.Errorf("price provider http requires price_api_url")
		}
		return priceapi.NewClient(cfg.PriceAPIURL, timeout), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("price provider gemini requires gemini_api_key")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Stores)
	}
	return nil, fmt.Errorf("unknown price provider %q", cfg.PriceProvider)
}

// loadCatalog loads the dish table from PostgreSQL when configured, seeding
// an empty table with the built-in dishes, and from the built-in table otherwise.
func loadCatalog(ctx context.Context, cfg Config) (*dish.Catalog, error) {
	if cfg.DatabaseURL == "" {
		return dish.LoadCatalog(ctx, dish.StaticSource{})
	}

	dbStore, err := dish.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating postgresstore: %w", err)
	}
	defer dbStore.Close()

	builtin, _ := dish.StaticSource{}.LoadDishes(ctx)
	seeded, err := dbStore.Seed(ctx, builtin)
	if err != nil {
		return nil, err
	}
	if seeded > 0 {
		log.Printf("Seeded dishes table with %d built-in dishes", seeded)
	}
	return dish.LoadCatalog(ctx, dbStore)
}

func setupRouter(handler *api.Handler, allowOrigins []string) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handler.Health)
	r.GET("/dishes", handler.GetDishes)
	r.GET("/facets", handler.GetFacets)

	sessions := r.Group("/sessions")
	{
		sessions.POST("", handler.CreateSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.DELETE("/:id", handler.DeleteSession)
		sessions.POST("/:id/cuisine", handler.SelectCuisine)
		sessions.POST("/:id/subcategory", handler.SelectSubcategory)
		sessions.POST("/:id/swipe", handler.Swipe)
		sessions.POST("/:id/accept/:index", handler.Accept)
		sessions.POST("/:id/prices", handler.ComparePrices)
		sessions.DELETE("/:id/prices", handler.DismissPrices)
		sessions.DELETE("/:id/detail", handler.DismissDetail)
	}
	return r
}

func main() {
	ctx := context.Background()

	config, err := loadConfig("config.json")
	if err != nil {
		panic(err)
	}

	catalog, err := loadCatalog(ctx, config)
	if err != nil {
		panic(fmt.Errorf("error loading catalog: %w", err))
	}
	log.Printf("Loaded %d dishes", catalog.Len())

	lookup, err := newPriceLookup(ctx, config)
	if err != nil {
		panic(fmt.Errorf("error creating price lookup: %w", err))
	}

	manager := session.NewManager(catalog, lookup, session.Options{
		LookupTimeout: time.Duration(config.LookupTimeoutSecond) * time.Second,
	})
	handler := api.NewHandler(manager)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: setupRouter(handler, config.AllowOrigins),
	}

	go func() {
		log.Printf("Listening on %s (price provider: %s)", srv.Addr, config.PriceProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	manager.Shutdown()
	log.Println("Server stopped")
}
