// cmd/app/importer reads compact-form order records (pipe-delimited header,
// comma-delimited item lines, --- terminator) from a file and appends them
// to the order log through the store, so imported history is re-serialized
// in display form like everything else.
//
// Usage: importer <records-file> [orders-file]
package main

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/orderfile"
	"github.com/abenova/shopcore/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <records-file> [orders-file]")
	}
	ordersFile := "data/orders.txt"
	if len(os.Args) > 2 {
		ordersFile = os.Args[2]
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Fatal("read records file", zap.Error(err))
	}

	store, err := storage.Open(ordersFile, logger)
	if err != nil {
		logger.Fatal("open order store", zap.Error(err))
	}

	imported, failed := 0, 0
	for _, rec := range strings.Split(string(data), orderfile.Terminator+"\n") {
		if strings.TrimSpace(rec) == "" {
			continue
		}
		o, skipped, err := orderfile.DecodeCompact(rec + orderfile.Terminator + "\n")
		if err != nil {
			failed++
			logger.Warn("skipping bad record", zap.Error(err))
			continue
		}
		if skipped > 0 {
			logger.Warn("skipped malformed item lines", zap.String("order_id", o.OrderID), zap.Int("skipped", skipped))
		}
		if err := store.Append(o); err != nil {
			logger.Fatal("append imported order", zap.Error(err))
		}
		imported++
	}
	logger.Info("import finished", zap.Int("imported", imported), zap.Int("failed", failed))
}
