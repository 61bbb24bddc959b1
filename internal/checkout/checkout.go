// Package checkout ties the pieces of an order's life together: cart edits
// against the catalog, and the purchase itself, which snapshots the cart
// into an order, queues it for processing and appends it to the durable
// store before handing the user a fresh cart.
package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/cart"
	"github.com/abenova/shopcore/internal/catalog"
	"github.com/abenova/shopcore/internal/models"
	"github.com/abenova/shopcore/internal/queue"
	"github.com/abenova/shopcore/internal/storage"
)

var (
	ErrEmptyCart         = errors.New("checkout: cart is empty")
	ErrUnknownProduct    = errors.New("checkout: unknown product")
	ErrBadQuantity       = errors.New("checkout: quantity must be positive")
	ErrInsufficientStock = errors.New("checkout: quantity exceeds stock")
)

// CartLine is one cart row as shown to the user.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Service struct {
	carts   *cart.Registry
	catalog *catalog.Catalog
	store   *storage.Store
	queue   *queue.Queue
	log     *zap.Logger
}

func NewService(carts *cart.Registry, cat *catalog.Catalog, store *storage.Store, q *queue.Queue, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{carts: carts, catalog: cat, store: store, queue: q, log: log}
}

// AddItem puts quantity of productID into username's cart. The quantity
// must be positive and the cart's resulting quantity may not exceed the
// product's stock.
func (s *Service) AddItem(username, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrBadQuantity, quantity)
	}
	p, ok := s.catalog.Get(productID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	var err error
	s.carts.Do(username, func(c *cart.Cart) {
		if c.Quantity(productID)+quantity > p.Stock {
			err = fmt.Errorf("%w: %s has %d in stock", ErrInsufficientStock, productID, p.Stock)
			return
		}
		c.AddItem(p, quantity)
	})
	return err
}

// RemoveItem drops productID from username's cart; absent products are a
// no-op.
func (s *Service) RemoveItem(username, productID string) {
	s.carts.Do(username, func(c *cart.Cart) {
		c.RemoveItem(productID)
	})
}

// ViewCart returns the cart's lines in cart order plus its total.
func (s *Service) ViewCart(username string) ([]CartLine, decimal.Decimal) {
	var lines []CartLine
	total := decimal.Zero
	s.carts.Do(username, func(c *cart.Cart) {
		for p, qty := range c.All() {
			lines = append(lines, CartLine{ProductID: p.ID, Name: p.Name, Quantity: qty, Price: p.Price})
		}
		total = c.Total()
	})
	return lines, total
}

// Checkout turns username's cart into an order: the order is queued for
// processing, appended to the store, and the cart replaced with an empty
// one. A failed append is returned along with the order, which is already
// queued and held in the store's memory; the log catches up on the next
// rebuild.
func (s *Service) Checkout(username string) (models.Order, error) {
	var items []models.OrderItem
	var total decimal.Decimal
	s.carts.Do(username, func(c *cart.Cart) {
		items = c.Snapshot()
		total = c.Total()
	})
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	o := models.NewOrder(username, items, total)
	s.queue.Enqueue(o)
	err := s.store.Append(o)
	s.carts.Reset(username)
	if err != nil {
		s.log.Error("order placed but not written to log", zap.String("order_id", o.OrderID), zap.Error(err))
		return o, err
	}
	s.log.Info("order placed",
		zap.String("order_id", o.OrderID),
		zap.String("user", username),
		zap.String("total", total.StringFixed(2)),
		zap.Int("items", len(items)))
	return o, nil
}
