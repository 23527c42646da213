package main

import (
	"database/sql"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/api"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/config"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/funding"
	interfaces "github.com/sheikh-saqib/paper-trading-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/oracle/finnhub"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/storage/postgres"
	"github.com/sheikh-saqib/paper-trading-ledger-system/internal/valuation"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil || startingBalance.Sign() < 0 {
		log.WithField("starting_balance", cfg.StartingBalance).Fatal("invalid STARTING_BALANCE")
	}

	var store interfaces.AccountStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to open database")
		}
		if err := db.Ping(); err != nil {
			log.WithError(err).Fatal("failed to reach database")
		}
		store = postgres.NewAccountStore(db, startingBalance)
		log.Info("using postgres account store")
	} else {
		store = memory.NewAccountStore(startingBalance)
		log.Info("using in-memory account store")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers)
		log.WithField("brokers", cfg.KafkaBrokers).Info("kafka publisher enabled")
	}

	oracle := finnhub.NewClient(cfg.FinnhubBaseURL, cfg.FinnhubToken, cfg.OracleTimeout)

	handlers := api.NewHandlers(
		ledger.NewLedger(store, oracle, publisher),
		funding.NewService(store),
		valuation.NewService(store, oracle),
		oracle,
	)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("starting server")
	log.Fatal(http.ListenAndServe(addr, handlers.Router()))
}
