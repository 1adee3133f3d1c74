package model

import (
	"strings"
	"time"
)

// DefaultCurrency is the only currency the storefront trades in.
const DefaultCurrency = "VND"

// FallbackThumbnail is used when a product carries no image URL.
const FallbackThumbnail = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=400&fit=crop"

// Product represents an item in the shop catalogue. Prices are integer VND.
type Product struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Price            int64     `json:"price" db:"price"`
	ListedPrice      *int64    `json:"listedPrice,omitempty" db:"listed_price"`
	Currency         string    `json:"currency" db:"currency"`
	Category         string    `json:"category" db:"category"`
	Badges           []string  `json:"badges,omitempty" db:"badges"`
	Thumbnail        string    `json:"thumbnail" db:"thumbnail"`
	Images           []string  `json:"images,omitempty" db:"images"`
	ShortDescription string    `json:"shortDescription,omitempty" db:"short_description"`
	Description      string    `json:"description,omitempty" db:"description"`
	Stock            int       `json:"stock" db:"stock"`
	Related          []string  `json:"related,omitempty" db:"related"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// OnSale reports whether the product carries a struck-through listed price
// above its current price.
func (p *Product) OnSale() bool {
	return p.ListedPrice != nil && *p.ListedPrice > p.Price && p.Price > 0
}

// HasBadge reports whether the product carries the given badge, ignoring case.
func (p *Product) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if strings.EqualFold(b, badge) {
			return true
		}
	}
	return false
}

// Validate checks the catalogue invariants: name present, price positive,
// stock non-negative.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingProductName
	}
	if p.Price <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
