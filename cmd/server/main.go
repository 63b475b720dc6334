package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danrmzz/cis4004-group14/internal/config"
	"github.com/danrmzz/cis4004-group14/internal/db"
	"github.com/danrmzz/cis4004-group14/internal/handlers"
	"github.com/danrmzz/cis4004-group14/internal/ledger"
	"github.com/danrmzz/cis4004-group14/internal/logging"
	"github.com/danrmzz/cis4004-group14/internal/marketdata"
	"github.com/danrmzz/cis4004-group14/internal/services"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/websocket"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	watchlist := store.NewWatchlistStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	market := marketdata.NewClient(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey, cfg.QuoteCacheTTL, logger)
	ledgerSvc := ledger.NewService(txRunner, accounts, transactions, hub, logger)
	accountSvc := services.NewAccountService(txRunner, accounts, transactions, logger)
	watchlistSvc := services.NewWatchlistService(watchlist, market, logger)

	handler := handlers.New(cfg, users, accounts, transactions, ledgerSvc, accountSvc, watchlistSvc, market, hub, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("finance API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	hub.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}
