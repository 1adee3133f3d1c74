package service

import (
	"context"

	"mini-shop/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products with pagination, newest first. When
	// inStockOnly is set, sold-out products are excluded.
	List(ctx context.Context, limit, offset int, inStockOnly bool) ([]model.Product, error)

	// Search retrieves products matching a storefront filter value: the
	// known chat filters ("Sản phẩm hot", "Sản phẩm khuyến mãi",
	// "Sản phẩm best seller") or a free-text substring matched against
	// name and category.
	Search(ctx context.Context, filter string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create validates and inserts a new product. A missing ID is
	// generated.
	Create(ctx context.Context, p *model.Product) error

	// Update validates and replaces an existing product.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// ReplaceAll validates and swaps the whole catalogue. Used by the
	// onboarding import pipeline.
	ReplaceAll(ctx context.Context, products []model.Product) error
}

// OrderService defines operations for checkout and order management.
type OrderService interface {
	// Checkout converts the cart into a persisted order: one order row,
	// one item per cart line capturing the current unit price, and a
	// guarded stock decrement per product — all in one transaction. On
	// success the cart is cleared; on failure it is left untouched.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves orders for the admin screen, applying the status and
	// substring filters.
	List(ctx context.Context, filter model.OrderListFilter, limit, offset int) ([]model.Order, error)

	// UpdateStatus transitions an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}
