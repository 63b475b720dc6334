package handlers

import (
	"context"

	"github.com/danrmzz/cis4004-group14/internal/config"
	"github.com/danrmzz/cis4004-group14/internal/ledger"
	"github.com/danrmzz/cis4004-group14/internal/marketdata"
	"github.com/danrmzz/cis4004-group14/internal/services"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/websocket"

	"go.uber.org/zap"
)

type stubUserStore struct {
	upsertFn          func(ctx context.Context, id, externalID, email, name string) (string, error)
	getByExternalIDFn func(ctx context.Context, externalID string) (store.User, error)
	getByIDFn         func(ctx context.Context, userID string) (store.User, error)
}

func (s stubUserStore) Upsert(ctx context.Context, id, externalID, email, name string) (string, error) {
	if s.upsertFn == nil {
		return "user-1", nil
	}
	return s.upsertFn(ctx, id, externalID, email, name)
}

func (s stubUserStore) GetByExternalID(ctx context.Context, externalID string) (store.User, error) {
	if s.getByExternalIDFn == nil {
		return store.User{ID: "user-1", ExternalID: externalID}, nil
	}
	return s.getByExternalIDFn(ctx, externalID)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAccountStore struct {
	getByIDFn func(ctx context.Context, accountID string) (store.Account, error)
}

func (s stubAccountStore) GetByID(ctx context.Context, accountID string) (store.Account, error) {
	if s.getByIDFn == nil {
		return store.Account{}, nil
	}
	return s.getByIDFn(ctx, accountID)
}

type stubTransactionStore struct {
	listByAccountFn  func(ctx context.Context, accountID string) ([]store.Transaction, error)
	countByAccountFn func(ctx context.Context, accountID string) (int64, error)
}

func (s stubTransactionStore) ListByAccount(ctx context.Context, accountID string) ([]store.Transaction, error) {
	if s.listByAccountFn == nil {
		return nil, nil
	}
	return s.listByAccountFn(ctx, accountID)
}

func (s stubTransactionStore) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if s.countByAccountFn == nil {
		return 0, nil
	}
	return s.countByAccountFn(ctx, accountID)
}

type stubLedgerService struct {
	applyFn func(ctx context.Context, req ledger.ApplyRequest) (ledger.ApplyResult, error)
}

func (s stubLedgerService) Apply(ctx context.Context, req ledger.ApplyRequest) (ledger.ApplyResult, error) {
	if s.applyFn == nil {
		return ledger.ApplyResult{}, nil
	}
	return s.applyFn(ctx, req)
}

type stubAccountService struct {
	createFn     func(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error)
	listByUserFn func(ctx context.Context, userID string) ([]store.Account, error)
}

func (s stubAccountService) Create(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error) {
	if s.createFn == nil {
		return "acct-1", nil
	}
	return s.createFn(ctx, userID, accountType, initialMinor, currency)
}

func (s stubAccountService) ListByUser(ctx context.Context, userID string) ([]store.Account, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubWatchlistService struct {
	addFn    func(ctx context.Context, userID, symbol string) (string, error)
	removeFn func(ctx context.Context, userID, symbol string) error
	listFn   func(ctx context.Context, userID string) ([]services.WatchlistItem, error)
}

func (s stubWatchlistService) Add(ctx context.Context, userID, symbol string) (string, error) {
	if s.addFn == nil {
		return "", nil
	}
	return s.addFn(ctx, userID, symbol)
}

func (s stubWatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	if s.removeFn == nil {
		return nil
	}
	return s.removeFn(ctx, userID, symbol)
}

func (s stubWatchlistService) List(ctx context.Context, userID string) ([]services.WatchlistItem, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, userID)
}

type stubMarketData struct {
	quoteFn  func(ctx context.Context, symbol string) (marketdata.Quote, error)
	seriesFn func(ctx context.Context, symbol string) (map[string]marketdata.DailyBar, error)
}

func (s stubMarketData) Quote(ctx context.Context, symbol string) (marketdata.Quote, error) {
	if s.quoteFn == nil {
		return marketdata.Quote{Symbol: symbol}, nil
	}
	return s.quoteFn(ctx, symbol)
}

func (s stubMarketData) TimeSeriesDaily(ctx context.Context, symbol string) (map[string]marketdata.DailyBar, error) {
	if s.seriesFn == nil {
		return nil, nil
	}
	return s.seriesFn(ctx, symbol)
}

func newTestHandler(users UserStore, accounts AccountStore, txns TransactionStore, ledgerSvc LedgerService, accountSvc AccountService, watchlist WatchlistService, market MarketData) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		IdentitySecret: "secret",
		AllowedOrigins: "*",
	}
	return New(cfg, users, accounts, txns, ledgerSvc, accountSvc, watchlist, market, websocket.NewHub(), zap.NewNop())
}
