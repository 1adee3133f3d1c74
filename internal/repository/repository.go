package repository

import (
	"context"

	"mini-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves products with pagination support, newest first.
	// When inStockOnly is set, rows with zero stock are excluded.
	GetAll(ctx context.Context, limit, offset int, inStockOnly bool) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product row.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces all mutable columns of an existing product.
	// Returns model.ErrProductNotFound when no row matched.
	Update(ctx context.Context, p *model.Product) error

	// Delete removes a product. Returns model.ErrProductNotFound when no
	// row matched.
	Delete(ctx context.Context, id string) error

	// DecrementStock subtracts qty from a product's stock within the given
	// transaction. The decrement is guarded so stock never drops below
	// zero; a failed guard returns model.ErrInsufficientStock.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, qty int) error

	// ReplaceAll swaps the whole catalogue for the given products in one
	// transaction. Used by the import pipeline.
	ReplaceAll(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items. Returns
	// (nil, nil, nil) when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// List retrieves orders newest first, optionally filtered by status.
	// Substring filtering on customer fields happens at the service layer.
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error)

	// UpdateStatus transitions an order to the given status. Returns
	// model.ErrOrderNotFound when no row matched.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
}
