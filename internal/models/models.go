package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderIDPrefix starts every generated order id; the rest of the id is the
// creation instant in unix milliseconds.
const OrderIDPrefix = "ORD"

// Product is a catalog entry. Everything except Stock is immutable.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// OrderItem is one line of an order: the product as it was priced at
// checkout time.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal is price times quantity.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Order is an immutable snapshot of a cart at checkout, plus metadata.
// Total is carried as recorded, not derived from Items: a reloaded order
// keeps whatever total its record stated.
type Order struct {
	OrderID   string          `json:"order_id"`
	Username  string          `json:"username"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewOrder builds an order for username from an item snapshot. The id and
// timestamp come from the same instant, truncated to millisecond precision
// so that a round trip through the log reproduces them exactly.
func NewOrder(username string, items []OrderItem, total decimal.Decimal) Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return Order{
		OrderID:   OrderIDPrefix + strconv.FormatInt(now.UnixMilli(), 10),
		Username:  username,
		Items:     items,
		Total:     total,
		Timestamp: now,
	}
}

// IDMillis extracts the unix-millisecond instant embedded in a generated
// order id. Hand-written ids without the ORD<digits> shape report false.
func IDMillis(orderID string) (int64, bool) {
	rest, ok := strings.CutPrefix(orderID, OrderIDPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
