package handlers

import (
	"context"

	"github.com/danrmzz/cis4004-group14/internal/ledger"
	"github.com/danrmzz/cis4004-group14/internal/marketdata"
	"github.com/danrmzz/cis4004-group14/internal/services"
	"github.com/danrmzz/cis4004-group14/internal/store"
)

type UserStore interface {
	Upsert(ctx context.Context, id, externalID, email, name string) (string, error)
	GetByExternalID(ctx context.Context, externalID string) (store.User, error)
	GetByID(ctx context.Context, userID string) (store.User, error)
}

type AccountStore interface {
	GetByID(ctx context.Context, accountID string) (store.Account, error)
}

type TransactionStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]store.Transaction, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

type LedgerService interface {
	Apply(ctx context.Context, req ledger.ApplyRequest) (ledger.ApplyResult, error)
}

type AccountService interface {
	Create(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error)
	ListByUser(ctx context.Context, userID string) ([]store.Account, error)
}

type WatchlistService interface {
	Add(ctx context.Context, userID, symbol string) (string, error)
	Remove(ctx context.Context, userID, symbol string) error
	List(ctx context.Context, userID string) ([]services.WatchlistItem, error)
}

type MarketData interface {
	Quote(ctx context.Context, symbol string) (marketdata.Quote, error)
	TimeSeriesDaily(ctx context.Context, symbol string) (map[string]marketdata.DailyBar, error)
}
