package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"mini-shop/internal/cart"
	"mini-shop/internal/catalog"
	"mini-shop/internal/chat"
	"mini-shop/internal/handler"
	"mini-shop/internal/model"
	"mini-shop/internal/onboarding"
	"mini-shop/internal/repository"
	"mini-shop/internal/router"
	"mini-shop/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inertClock never fires scheduled callbacks, keeping the chat and
// onboarding pipelines idle during API tests.
type inertClock struct{}

func (inertClock) Now() time.Time { return time.Now() }

func (inertClock) AfterFunc(d time.Duration, f func()) func() {
	return func() {}
}

func setupTestServer(t *testing.T, testDB *TestDB) (http.Handler, *cart.Cart) {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	// Initialize the shopper cart with an in-memory snapshot
	shopperCart := cart.New(cart.NewMemorySnapshotter(), logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, shopperCart, logger)

	// Initialize the chat engine and onboarding pipeline with inert clocks
	chatEngine := chat.NewEngine(chat.DefaultConfig(), inertClock{}, nil, logger)
	onboardingService := onboarding.NewService(
		catalog.NewImporter(logger),
		func(ctx context.Context, products []model.Product) error {
			return productService.ReplaceAll(ctx, products)
		},
		inertClock{},
		logger,
	)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(shopperCart, productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	chatHandler := handler.NewChatHandler(chatEngine, logger)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService, productService, logger)

	// Create router
	return router.New(productHandler, cartHandler, orderHandler, chatHandler, onboardingHandler, "test-api-key", logger), shopperCart
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	t.Run("GET /api/products returns all products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		err := json.NewDecoder(w.Body).Decode(&products)
		require.NoError(t, err)
		assert.Len(t, products, 5)
	})

	t.Run("GET /api/products with in-stock filter", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products?in_stock=true", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 4)
	})

	t.Run("GET /api/products with storefront filter", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet,
			"/api/products?filter=S%E1%BA%A3n%20ph%E1%BA%A9m%20khuy%E1%BA%BFn%20m%C3%A3i", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		require.Len(t, products, 1, "only P001 has a listed price above its price")
		assert.Equal(t, "P001", products[0].ID)
	})

	t.Run("GET /api/products/{id} returns specific product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P001", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Giày Sneaker Thời Trang", product.Name)
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P999", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Admin product create requires API key", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body := `{"id":"N001","name":"Sản phẩm mới","price":150000,"stock":5}`

		req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body))
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body))
		req.Header.Set("X-API-Key", "test-api-key")
		w = httptest.NewRecorder()

		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/products/N001", nil)
		w = httptest.NewRecorder()

		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// addToCart drives the cart through its HTTP surface.
func addToCart(t *testing.T, server http.Handler, productID string, qty int) {
	t.Helper()

	body := `{"productId":"` + productID + `","quantity":` + strconv.Itoa(qty) + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCartAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	type cartState struct {
		Lines []cart.Line `json:"lines"`
		Total int64       `json:"total"`
		Count int         `json:"count"`
	}

	getCart := func(t *testing.T) cartState {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var state cartState
		require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
		return state
	}

	t.Run("Add, update and remove lines", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		assert.Empty(t, getCart(t).Lines)

		addToCart(t, server, "P001", 1)
		addToCart(t, server, "P002", 2)

		state := getCart(t)
		require.Len(t, state.Lines, 2)
		assert.Equal(t, 3, state.Count)
		assert.Equal(t, int64(2_490_000+2*850_000), state.Total)

		// Adding the same product merges into the existing line.
		addToCart(t, server, "P001", 1)
		state = getCart(t)
		require.Len(t, state.Lines, 2)
		assert.Equal(t, 4, state.Count)

		req := httptest.NewRequest(http.MethodPatch, "/api/cart/items/P002",
			strings.NewReader(`{"quantity":0}`))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		state = getCart(t)
		require.Len(t, state.Lines, 1)
		assert.Equal(t, "P001", state.Lines[0].Product.ID)

		req = httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)

		assert.Empty(t, getCart(t).Lines)
	})

	t.Run("Unknown product is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId":"P999"}`))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, getCart(t).Lines)
	})
}

func TestCheckoutAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, shopperCart := setupTestServer(t, testDB)

	checkoutBody := `{"customerName":"Nguyễn Văn A","customerPhone":"0901234567","customerAddress":"123 Lê Lợi, Quận 1"}`

	t.Run("Checkout persists order and decrements stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		// The whole flow runs over HTTP: fill the cart, then check out.
		addToCart(t, server, "P001", 1)
		addToCart(t, server, "P002", 2)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody))
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(4_190_000), resp.Order.TotalAmount)
		assert.Equal(t, model.StatusNew, resp.Order.Status)
		assert.Len(t, resp.Items, 2)

		// Cart emptied, stock decremented.
		assert.Empty(t, shopperCart.Lines())

		req = httptest.NewRequest(http.MethodGet, "/api/products/P002", nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		var product model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&product))
		assert.Equal(t, 23, product.Stock)

		// The order is readable back through the public endpoint.
		req = httptest.NewRequest(http.MethodGet, "/api/orders/"+resp.Order.ID.String(), nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Checkout with empty cart is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody))
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "EMPTY_CART")
	})

	t.Run("Checkout exceeding stock rolls back and keeps the cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		// P005 carries only 5 units.
		addToCart(t, server, "P005", 6)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody))
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Len(t, shopperCart.Lines(), 1)

		// No order row survived the rollback.
		req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
		req.Header.Set("X-API-Key", "test-api-key")
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		var orders []model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
		assert.Empty(t, orders)
	})
}

func TestOrderAdminAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, shopperCart := setupTestServer(t, testDB)

	placeOrder := func(t *testing.T) model.OrderResponse {
		t.Helper()
		addToCart(t, server, "P001", 1)

		body := `{"customerName":"Trần Thị B","customerPhone":"0987654321","customerAddress":"456 Hai Bà Trưng"}`
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		return resp
	}

	t.Run("List and filter orders", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		placeOrder(t)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=New&q=tr%E1%BA%A7n", nil)
		req.Header.Set("X-API-Key", "test-api-key")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var orders []model.Order
		require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "Trần Thị B", orders[0].CustomerName)
	})

	t.Run("Update order status", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		resp := placeOrder(t)

		req := httptest.NewRequest(http.MethodPatch,
			"/api/admin/orders/"+resp.Order.ID.String()+"/status",
			strings.NewReader(`{"status":"Confirmed"}`))
		req.Header.Set("X-API-Key", "test-api-key")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/orders/"+resp.Order.ID.String(), nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		var got model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, model.StatusConfirmed, got.Order.Status)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		require.NoError(t, shopperCart.Clear())

		resp := placeOrder(t)

		req := httptest.NewRequest(http.MethodPatch,
			"/api/admin/orders/"+resp.Order.ID.String()+"/status",
			strings.NewReader(`{"status":"Delivered"}`))
		req.Header.Set("X-API-Key", "test-api-key")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	t.Run("Greeting transcript and scripted send", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var messages []chat.Message
		require.NoError(t, json.NewDecoder(w.Body).Decode(&messages))
		assert.Len(t, messages, 3)

		req = httptest.NewRequest(http.MethodPost, "/api/chat/messages",
			strings.NewReader(`{"text":"cho mình xem sản phẩm best seller"}`))
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), "Sản phẩm best seller")

		req = httptest.NewRequest(http.MethodPost, "/api/chat/reset", nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
