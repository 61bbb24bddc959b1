// Package storage owns the durable order log: a UTF-8 text file of
// display-form records separated by blank lines. The store holds the full
// decoded history in memory; the file is reopened per write and no handle
// is held between operations, so a single process owns the file for its
// lifetime but nothing needs closing.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/models"
	"github.com/abenova/shopcore/internal/orderfile"
)

type Store struct {
	mu     sync.RWMutex
	path   string
	orders []models.Order // file order, oldest first, no dedup
	log    *zap.Logger
}

// Open loads the order log at path into memory. A missing file is not an
// error: the store starts empty and the file appears on first append.
// Malformed records are dropped with a diagnostic; they never abort the
// load.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("order log not found, starting empty", zap.String("path", path))
			return s, nil
		}
		return nil, fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	orders, dropped, err := orderfile.Scan(f, log)
	if err != nil {
		return nil, fmt.Errorf("read order log: %w", err)
	}
	s.orders = orders
	log.Info("order log loaded",
		zap.String("path", path),
		zap.Int("orders", len(orders)),
		zap.Int("dropped", dropped))
	return s, nil
}

// Append records o in memory, then appends its record and a blank
// separator line to the log. The in-memory list keeps the order even when
// the write fails; memory and disk then disagree until the next successful
// Rebuild, and the caller gets the error.
func (s *Store) Append(o models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append order %s: %w", o.OrderID, err)
	}
	_, werr := f.WriteString(orderfile.EncodeRecord(o) + "\n")
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("append order %s: %w", o.OrderID, werr)
	}
	if cerr != nil {
		return fmt.Errorf("append order %s: %w", o.OrderID, cerr)
	}
	s.log.Info("order saved", zap.String("order_id", o.OrderID), zap.String("user", o.Username))
	return nil
}

// Rebuild rewrites the whole file from the in-memory list, in list order.
// Maintenance path only; normal operation appends.
func (s *Store) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewrite()
}

// Clear empties the store and truncates the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	return s.rewrite()
}

func (s *Store) rewrite() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewrite order log: %w", err)
	}
	for _, o := range s.orders {
		if _, err := f.WriteString(orderfile.EncodeRecord(o) + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("rewrite order log: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("rewrite order log: %w", err)
	}
	return nil
}

// ByUser returns username's orders, most recent first. Orders with equal
// timestamps keep their insertion order.
func (s *Store) ByUser(username string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []models.Order
	for _, o := range s.orders {
		if o.Username == username {
			res = append(res, o)
		}
	}
	slices.SortStableFunc(res, func(a, b models.Order) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return res
}

// All returns a copy of the full history in file order.
func (s *Store) All() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}

// Len reports the number of orders held in memory.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
