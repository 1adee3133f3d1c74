package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mini-shop/internal/model"
	"mini-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// searchFetchLimit caps how many products the storefront filter scans.
const searchFetchLimit = 500

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products with pagination, newest first.
func (s *productService) List(ctx context.Context, limit, offset int, inStockOnly bool) ([]model.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset, inStockOnly)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// Search retrieves products matching a storefront filter value.
func (s *productService) Search(ctx context.Context, filter string) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx, searchFetchLimit, 0, false)
	if err != nil {
		s.logger.Error().Err(err).Str("filter", filter).Msg("failed to search products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if filter == "" {
		return products, nil
	}

	matched := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(&p, filter) {
			matched = append(matched, p)
		}
	}

	s.logger.Debug().
		Str("filter", filter).
		Int("matched", len(matched)).
		Msg("filtered products")

	return matched, nil
}

// matchesFilter applies the storefront filter rules: the three chat filter
// values have dedicated semantics, anything else is a substring match on
// name or category.
func matchesFilter(p *model.Product, filter string) bool {
	switch strings.ToLower(filter) {
	case "sản phẩm khuyến mãi":
		return p.OnSale()
	case "sản phẩm hot":
		return p.HasBadge("Hot")
	case "sản phẩm best seller":
		return p.HasBadge("Best Seller")
	}

	lower := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(p.Name), lower) ||
		strings.Contains(strings.ToLower(p.Category), lower)
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (s *productService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to get products by IDs")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// Create validates and inserts a new product.
func (s *productService) Create(ctx context.Context, p *model.Product) error {
	s.applyDefaults(p)

	if err := p.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("product validation failed")
		return err
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.productRepo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Msg("product created")
	return nil
}

// Update validates and replaces an existing product.
func (s *productService) Update(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		return model.ErrProductNotFound
	}

	s.applyDefaults(p)

	if err := p.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("product validation failed")
		return err
	}

	p.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, p); err != nil {
		if err == model.ErrProductNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Msg("product updated")
	return nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == model.ErrProductNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// ReplaceAll validates and swaps the whole catalogue.
func (s *productService) ReplaceAll(ctx context.Context, products []model.Product) error {
	for i := range products {
		s.applyDefaults(&products[i])
		if err := products[i].Validate(); err != nil {
			s.logger.Warn().Err(err).
				Str("product_id", products[i].ID).
				Msg("product validation failed during catalogue replace")
			return err
		}
	}

	if err := s.productRepo.ReplaceAll(ctx, products); err != nil {
		s.logger.Error().Err(err).Int("count", len(products)).Msg("failed to replace catalogue")
		return fmt.Errorf("failed to replace catalogue: %w", err)
	}

	s.logger.Info().Int("count", len(products)).Msg("catalogue replaced")
	return nil
}

// applyDefaults fills generated and fallback fields.
func (s *productService) applyDefaults(p *model.Product) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Currency == "" {
		p.Currency = model.DefaultCurrency
	}
	if p.Thumbnail == "" {
		p.Thumbnail = model.FallbackThumbnail
	}
}
