package router

import (
	"net/http"
	"strings"

	"mini-shop/internal/handler"
	"mini-shop/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	chatHandler *handler.ChatHandler,
	onboardingHandler *handler.OnboardingHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Storefront product routes
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.GetByID(w, r)
			return
		}
		productHandler.List(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Shopper cart
	cartRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/cart/items/") && r.URL.Path != "/api/cart/items/":
			cartHandler.Item(w, r)
		case r.URL.Path == "/api/cart/items" || r.URL.Path == "/api/cart/items/":
			cartHandler.AddItem(w, r)
		default:
			cartHandler.Root(w, r)
		}
	}
	mux.HandleFunc("/api/cart", cartRouteHandler)
	mux.HandleFunc("/api/cart/", cartRouteHandler)

	// Checkout and order lookup
	mux.HandleFunc("/api/checkout", orderHandler.Checkout)
	mux.HandleFunc("/api/orders/", orderHandler.GetByID)

	// Scripted assistant
	mux.HandleFunc("/api/chat/messages", chatHandler.Messages)
	mux.HandleFunc("/api/chat/reset", chatHandler.Reset)

	// Admin catalogue management
	adminProductHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost &&
			(r.URL.Path == "/api/admin/products" || r.URL.Path == "/api/admin/products/"):
			productHandler.Create(w, r)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/admin/products/"):
			productHandler.Update(w, r)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/admin/products/"):
			productHandler.Delete(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/admin/products", adminProductHandler)
	mux.HandleFunc("/api/admin/products/", adminProductHandler)

	// Admin order management
	adminOrderHandler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet &&
			(r.URL.Path == "/api/admin/orders" || r.URL.Path == "/api/admin/orders/"):
			orderHandler.List(w, r)
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/status"):
			orderHandler.UpdateStatus(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}
	mux.HandleFunc("/api/admin/orders", adminOrderHandler)
	mux.HandleFunc("/api/admin/orders/", adminOrderHandler)

	// Admin onboarding: import preview/apply, survey, analysis pipeline
	mux.HandleFunc("/api/admin/import", onboardingHandler.Import)
	mux.HandleFunc("/api/admin/import/apply", onboardingHandler.ImportApply)
	mux.HandleFunc("/api/admin/survey", onboardingHandler.Survey)
	mux.HandleFunc("/api/admin/analyze", onboardingHandler.Analyze)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
