package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	StatusNew       OrderStatus = "New"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusCancelled OrderStatus = "Cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusShipped, StatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order. Orders are never deleted; only their
// status changes after creation.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	CustomerName    string      `json:"customerName" db:"customer_name"`
	CustomerPhone   string      `json:"customerPhone" db:"customer_phone"`
	CustomerAddress string      `json:"customerAddress" db:"customer_address"`
	OrderNotes      string      `json:"orderNotes,omitempty" db:"order_notes"`
	TotalAmount     int64       `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line of an order. The unit price is captured at purchase
// time and never follows later catalogue price changes.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CheckoutRequest carries the delivery details entered at checkout.
type CheckoutRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	OrderNotes      string `json:"orderNotes,omitempty"`
}

// Validate checks that the required delivery fields are present.
func (r *CheckoutRequest) Validate() error {
	if r.CustomerName == "" || r.CustomerPhone == "" || r.CustomerAddress == "" {
		return ErrMissingCustomerField
	}
	return nil
}

// OrderResponse is the payload returned for a single order, including its
// line items and the referenced products.
type OrderResponse struct {
	Order    Order       `json:"order"`
	Items    []OrderItem `json:"items"`
	Products []Product   `json:"products"`
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	// Status filters by exact status when non-empty.
	Status OrderStatus
	// Query is matched as a case-insensitive substring against the order
	// id, customer name and customer phone.
	Query string
}
