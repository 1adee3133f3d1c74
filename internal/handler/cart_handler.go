package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"mini-shop/internal/cart"
	"mini-shop/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler exposes the shopper cart over HTTP. Items are added by product
// ID and resolved against the catalogue, so the cart always carries current
// product data.
type CartHandler struct {
	cart     *cart.Cart
	products service.ProductService
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(shopperCart *cart.Cart, products service.ProductService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:     shopperCart,
		products: products,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

// cartResponse is the cart state returned from every read and mutation.
type cartResponse struct {
	Lines []cart.Line `json:"lines"`
	Total int64       `json:"total"`
	Count int         `json:"count"`
}

// addItemRequest is the body of an add-to-cart request. A zero quantity
// defaults to one.
type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// setQuantityRequest is the body of a line quantity update.
type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) writeCart(w http.ResponseWriter, status int) {
	lines := h.cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	writeJSON(w, status, cartResponse{
		Lines: lines,
		Total: h.cart.Total(),
		Count: h.cart.Count(),
	})
}

// Root routes GET and DELETE /api/cart.
func (h *CartHandler) Root(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeCart(w, http.StatusOK)
	case http.MethodDelete:
		if err := h.cart.Clear(); err != nil {
			h.logger.Error().Err(err).Msg("failed to clear cart")
			writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product id is required", h.logger)
		return
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to retrieve product", h.logger)
		return
	}

	if err := h.cart.Add(*product, qty); err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add to cart", h.logger)
		return
	}

	h.writeCart(w, http.StatusOK)
}

// Item routes PATCH and DELETE /api/cart/items/{id}.
func (h *CartHandler) Item(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req setQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
			return
		}

		// A quantity of zero or less removes the line.
		if err := h.cart.SetQuantity(productID, req.Quantity); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update cart", h.logger)
			return
		}
		h.writeCart(w, http.StatusOK)
	case http.MethodDelete:
		if err := h.cart.Remove(productID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to update cart", h.logger)
			return
		}
		h.writeCart(w, http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}
