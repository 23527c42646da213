package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server's environment-driven configuration. DatabaseURL
// and KafkaBrokers are optional: without a database the server runs on
// the in-memory store, and without brokers no events are published.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	StartingBalance string        `env:"STARTING_BALANCE" envDefault:"10000.00"`
	FinnhubBaseURL  string        `env:"FINNHUB_BASE_URL" envDefault:"https://finnhub.io/api/v1"`
	FinnhubToken    string        `env:"FINNHUB_TOKEN"`
	OracleTimeout   time.Duration `env:"ORACLE_TIMEOUT" envDefault:"5s"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	KafkaBrokers    []string      `env:"KAFKA_BROKERS"`
}

// Load reads a .env file if present, then parses the environment.
func Load() (Config, error) {
	godotenv.Load()

	var cfg Config
	return cfg, env.Parse(&cfg)
}
