package cart

import (
	"sync"

	"mini-shop/internal/model"

	"github.com/rs/zerolog"
)

// Line pairs a product with the quantity the shopper wants. A cart holds at
// most one line per product ID.
type Line struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Snapshotter is the persistence boundary for the cart. Save is called
// synchronously after every mutation with the full line set; Load hydrates
// the cart on construction.
type Snapshotter interface {
	Save(lines []Line) error
	Load() ([]Line, error)
}

// Cart is the shopper's in-progress order. It is a single-writer state
// container: all mutations go through its methods and each one persists the
// full snapshot before returning.
type Cart struct {
	mu     sync.Mutex
	lines  []Line
	snap   Snapshotter
	logger zerolog.Logger
}

// New creates a cart hydrated from the snapshotter's last saved state.
// An unreadable or missing snapshot yields an empty cart.
func New(snap Snapshotter, logger zerolog.Logger) *Cart {
	c := &Cart{
		snap:   snap,
		logger: logger.With().Str("component", "cart").Logger(),
	}

	lines, err := snap.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load cart snapshot, starting empty")
		return c
	}
	c.lines = lines

	if len(lines) > 0 {
		c.logger.Debug().Int("lines", len(lines)).Msg("cart hydrated from snapshot")
	}

	return c
}

// Add merges qty into an existing line for the product or appends a new
// line. A non-positive qty is rejected.
func (c *Cart) Add(product model.Product, qty int) error {
	if qty <= 0 {
		return model.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity += qty
			return c.persist()
		}
	}

	c.lines = append(c.lines, Line{Product: product, Quantity: qty})
	return c.persist()
}

// SetQuantity replaces a line's quantity. A qty of zero or less removes the
// line, making SetQuantity(id, 0) equivalent to Remove(id).
func (c *Cart) SetQuantity(productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		return c.removeLocked(productID)
	}

	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = qty
			return c.persist()
		}
	}

	return nil
}

// Remove deletes a line unconditionally. Removing an absent product is a
// no-op.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(productID)
}

func (c *Cart) removeLocked(productID string) error {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.persist()
}

// Total returns the sum of price × quantity across all lines.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, line := range c.lines {
		total += line.Product.Price * int64(line.Quantity)
	}
	return total
}

// Count returns the sum of quantities across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// persist writes the full snapshot. Callers must hold the mutex.
func (c *Cart) persist() error {
	if err := c.snap.Save(c.lines); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart snapshot")
		return err
	}
	return nil
}
