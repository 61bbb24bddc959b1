package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/cart"
	"github.com/abenova/shopcore/internal/catalog"
	"github.com/abenova/shopcore/internal/checkout"
	"github.com/abenova/shopcore/internal/config"
	"github.com/abenova/shopcore/internal/events"
	"github.com/abenova/shopcore/internal/httpapi"
	"github.com/abenova/shopcore/internal/queue"
	"github.com/abenova/shopcore/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Catalog
	cat, err := catalog.Load(cfg.ProductsFile, logger)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	// Durable order log
	store, err := storage.Open(cfg.OrdersFile, logger)
	if err != nil {
		logger.Fatal("open order store", zap.Error(err))
	}

	// In-process worklist and its processor
	q := queue.New()
	var sink queue.Sink
	if cfg.KafkaBroker != "" {
		logger.Info("connecting order event producer", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
		p := events.NewProducer([]string{cfg.KafkaBroker}, cfg.KafkaTopic, logger)
		defer p.Close()
		sink = p
	}
	proc := queue.NewProcessor(q, sink, cfg.ProcessInterval, logger)

	// Checkout + HTTP
	svc := checkout.NewService(cart.NewRegistry(), cat, store, q, logger)
	api := httpapi.New(cfg.HTTPAddr, cat, svc, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := proc.Run(ctx); err != nil {
			logger.Error("processor stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := api.Start(); err != nil {
			logger.Info("http server stopped", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 3*time.Second)
	defer stop()
	_ = api.Shutdown(shutdownCtx)
}
