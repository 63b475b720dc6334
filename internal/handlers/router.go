package handlers

import (
	"net/http"

	"github.com/danrmzz/cis4004-group14/internal/config"
	appmiddleware "github.com/danrmzz/cis4004-group14/internal/middleware"
	"github.com/danrmzz/cis4004-group14/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	cfg        config.Config
	users      UserStore
	accounts   AccountStore
	txns       TransactionStore
	ledger     LedgerService
	accountSvc AccountService
	watchlist  WatchlistService
	market     MarketData
	hub        *websocket.Hub
	logger     *zap.Logger
}

func New(cfg config.Config, users UserStore, accounts AccountStore, txns TransactionStore, ledgerSvc LedgerService, accountSvc AccountService, watchlist WatchlistService, market MarketData, hub *websocket.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		users:      users,
		accounts:   accounts,
		txns:       txns,
		ledger:     ledgerSvc,
		accountSvc: accountSvc,
		watchlist:  watchlist,
		market:     market,
		hub:        hub,
		logger:     logger,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(metricsMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Post("/users", h.UpsertUser)
		r.Get("/users/{externalID}", h.GetUser)
		r.Get("/users/{externalID}/accounts", h.ListAccounts)
		r.With(appmiddleware.Identity(h.cfg.IdentitySecret)).Post("/auth/session", h.CreateSession)

		r.Post("/accounts", h.CreateAccount)
		r.Post("/transactions", h.CreateTransaction)
		r.Get("/accounts/{id}/transactions", h.ListTransactions)

		r.Get("/stocks/{symbol}", h.GetStock)
		r.Post("/watchlist", h.AddWatchlist)
		r.Delete("/watchlist/{externalID}/{symbol}", h.RemoveWatchlist)
		r.Get("/watchlist/{externalID}", h.ListWatchlist)
	})

	router.With(appmiddleware.Identity(h.cfg.IdentitySecret)).Get("/ws/balances", h.WSBalances)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	return router
}
