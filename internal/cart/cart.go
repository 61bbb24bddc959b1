// Package cart holds the in-memory shopping carts orders are checked out
// from. A cart keeps at most one line per product id; adding a product that
// is already present merges quantities in place, adding a new product puts
// it at the front. Consumers rely on that ordering: the most recently added
// distinct product enumerates first.
package cart

import (
	"iter"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/abenova/shopcore/internal/models"
)

type line struct {
	product  models.Product
	quantity int
}

// Cart is not safe for concurrent use; Registry serializes access.
type Cart struct {
	lines []line
}

func New() *Cart { return &Cart{} }

// AddItem merges quantity into an existing line for the same product id, or
// inserts a new line at the front. quantity must be positive; the caller
// enforces that.
func (c *Cart) AddItem(p models.Product, quantity int) {
	for i := range c.lines {
		if c.lines[i].product.ID == p.ID {
			c.lines[i].quantity += quantity
			return
		}
	}
	c.lines = slices.Insert(c.lines, 0, line{product: p, quantity: quantity})
}

// RemoveItem drops the line for productID. Removing an absent product is a
// no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].product.ID == productID {
			c.lines = slices.Delete(c.lines, i, i+1)
			return
		}
	}
}

// Quantity reports the quantity carried for productID, zero if absent.
func (c *Cart) Quantity(productID string) int {
	for i := range c.lines {
		if c.lines[i].product.ID == productID {
			return c.lines[i].quantity
		}
	}
	return 0
}

func (c *Cart) Len() int      { return len(c.lines) }
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Total sums price times quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ln := range c.lines {
		total = total.Add(ln.product.Price.Mul(decimal.NewFromInt(int64(ln.quantity))))
	}
	return total
}

// All enumerates (product, quantity) pairs in cart order. The sequence is
// restartable: ranging over it again starts from the front.
func (c *Cart) All() iter.Seq2[models.Product, int] {
	return func(yield func(models.Product, int) bool) {
		for _, ln := range c.lines {
			if !yield(ln.product, ln.quantity) {
				return
			}
		}
	}
}

// Snapshot freezes the cart into order items, preserving cart order.
func (c *Cart) Snapshot() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.lines))
	for _, ln := range c.lines {
		items = append(items, models.OrderItem{
			ProductID: ln.product.ID,
			Name:      ln.product.Name,
			Quantity:  ln.quantity,
			Price:     ln.product.Price,
		})
	}
	return items
}
