// Package catalog is the product lookup the checkout surface consumes.
// Products come from a comma-delimited text file, one product per line:
// id,name,price,stock. Lines that do not parse are skipped.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/models"
)

type Catalog struct {
	mu   sync.RWMutex
	byID map[string]models.Product
	ids  []string // file order, for listing
}

// Load reads the products file at path. A missing file yields an empty
// catalog, matching the store's tolerance for a fresh installation.
func Load(path string, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{byID: make(map[string]models.Product)}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("products file not found, catalog is empty", zap.String("path", path))
			return c, nil
		}
		return nil, fmt.Errorf("open products file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		p, err := ParseProduct(line)
		if err != nil {
			log.Warn("skipping bad product line", zap.String("line", line), zap.Error(err))
			continue
		}
		if _, dup := c.byID[p.ID]; !dup {
			c.ids = append(c.ids, p.ID)
		}
		c.byID[p.ID] = p
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}
	log.Info("catalog loaded", zap.String("path", path), zap.Int("products", len(c.ids)))
	return c, nil
}

// ParseProduct parses one id,name,price,stock line.
func ParseProduct(line string) (models.Product, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return models.Product{}, fmt.Errorf("product line does not have 4 fields: %q", line)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return models.Product{}, fmt.Errorf("bad price in %q: %w", line, err)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return models.Product{}, fmt.Errorf("bad stock in %q: %w", line, err)
	}
	if price.IsNegative() || stock < 0 {
		return models.Product{}, fmt.Errorf("negative price or stock in %q", line)
	}
	return models.Product{
		ID:    strings.TrimSpace(parts[0]),
		Name:  strings.TrimSpace(parts[1]),
		Price: price,
		Stock: stock,
	}, nil
}

// Get looks up a product by id.
func (c *Catalog) Get(id string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// List returns all products in file order.
func (c *Catalog) List() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]models.Product, 0, len(c.ids))
	for _, id := range c.ids {
		res = append(res, c.byID[id])
	}
	return res
}

// Put inserts or replaces a product. Mostly for tests and seeding.
func (c *Catalog) Put(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.byID[p.ID]; !dup {
		c.ids = append(c.ids, p.ID)
	}
	c.byID[p.ID] = p
}
