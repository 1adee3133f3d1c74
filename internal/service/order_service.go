package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mini-shop/internal/cart"
	"mini-shop/internal/model"
	"mini-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cart        *cart.Cart
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	shopperCart *cart.Cart,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cart:        shopperCart,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout converts the cart into a persisted order. The order row, its
// items and the stock decrements commit in one transaction; a failure
// anywhere rolls everything back and leaves the cart untouched.
func (s *orderService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	if req == nil {
		return nil, model.ErrMissingCustomerField
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Reject before any remote call is made.
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.logger.Warn().Msg("checkout attempted with empty cart")
		return nil, model.ErrEmptyCart
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Total the captured snapshot, not the live cart: a concurrent cart
	// mutation must not desync the order total from its line items.
	var total int64
	for _, line := range lines {
		total += line.Product.Price * int64(line.Quantity)
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		OrderNotes:      req.OrderNotes,
		TotalAmount:     total,
		Status:          model.StatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// One item per cart line, unit price captured at purchase time.
	orderItems := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			CreatedAt: now,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, line := range lines {
		if err = s.productRepo.DecrementStock(ctx, tx, line.Product.ID, line.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", line.Product.ID).
				Int("quantity", line.Quantity).
				Msg("failed to decrement stock")
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order is durable; clear the cart. A snapshot write failure here
	// is logged but does not fail the checkout.
	if clearErr := s.cart.Clear(); clearErr != nil {
		s.logger.Error().Err(clearErr).Str("order_id", order.ID.String()).Msg("failed to clear cart after checkout")
	}

	products := make([]model.Product, len(lines))
	for i, line := range lines {
		products[i] = line.Product
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Int64("total_amount", order.TotalAmount).
		Msg("order created successfully")

	return &model.OrderResponse{
		Order:    *order,
		Items:    orderItems,
		Products: products,
	}, nil
}

// GetByID retrieves an order by its ID with all items and product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return &model.OrderResponse{
		Order:    *order,
		Items:    items,
		Products: products,
	}, nil
}

// List retrieves orders for the admin screen. The status filter is applied
// in the query; the substring search runs over the fetched page, matching
// the admin screen's client-side filtering.
func (s *orderService) List(ctx context.Context, filter model.OrderListFilter, limit, offset int) ([]model.Order, error) {
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		return nil, model.ErrInvalidStatus
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	orders, err := s.orderRepo.List(ctx, filter.Status, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	if filter.Query == "" {
		return orders, nil
	}

	q := strings.ToLower(filter.Query)
	matched := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.ID.String()), q) ||
			strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.CustomerPhone), q) {
			matched = append(matched, o)
		}
	}

	s.logger.Debug().
		Str("query", filter.Query).
		Int("matched", len(matched)).
		Msg("filtered orders")

	return matched, nil
}

// UpdateStatus transitions an order to a new status.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	if !model.ValidStatus(status) {
		s.logger.Warn().Str("status", string(status)).Msg("invalid order status")
		return model.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if err == model.ErrOrderNotFound {
			return err
		}
		s.logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return nil
}
