package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment; main loads .env first. An empty
// KafkaBroker disables event publishing entirely.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	OrdersFile      string        `envconfig:"ORDERS_FILE" default:"data/orders.txt"`
	ProductsFile    string        `envconfig:"PRODUCTS_FILE" default:"data/products.txt"`
	KafkaBroker     string        `envconfig:"KAFKA_BROKER" default:""`
	KafkaTopic      string        `envconfig:"KAFKA_TOPIC" default:"orders"`
	ProcessInterval time.Duration `envconfig:"PROCESS_INTERVAL" default:"500ms"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
