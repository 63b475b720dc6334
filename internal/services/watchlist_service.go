package services

import (
	"context"
	"errors"
	"strings"

	"github.com/danrmzz/cis4004-group14/internal/marketdata"
	"github.com/danrmzz/cis4004-group14/internal/store"

	"go.uber.org/zap"
)

var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNotWatched     = errors.New("symbol not in watchlist")
)

type WatchlistStore interface {
	Upsert(ctx context.Context, userID, symbol, companyName string) error
	Remove(ctx context.Context, userID, symbol string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]store.WatchlistEntry, error)
}

type MarketData interface {
	SymbolExists(ctx context.Context, symbol string) (bool, error)
	CompanyName(ctx context.Context, symbol string) (string, error)
	Quote(ctx context.Context, symbol string) (marketdata.Quote, error)
}

// WatchlistItem is a watchlist row enriched with the latest quote. The
// quote fields are empty when the provider could not be reached; the ledger
// and the stored watchlist are never affected by provider health.
type WatchlistItem struct {
	Symbol        string
	CompanyName   string
	AddedAt       any
	CurrentPrice  string
	PriceChange   string
	ChangePercent string
}

type WatchlistService struct {
	watchlist WatchlistStore
	market    MarketData
	logger    *zap.Logger
}

func NewWatchlistService(watchlist WatchlistStore, market MarketData, logger *zap.Logger) *WatchlistService {
	return &WatchlistService{watchlist: watchlist, market: market, logger: logger}
}

// Add verifies the symbol against the provider, resolves its company name
// and upserts the (user, symbol) pair. Re-adding a watched symbol refreshes
// the cached company name.
func (s *WatchlistService) Add(ctx context.Context, userID, symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	exists, err := s.market.SymbolExists(ctx, symbol)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrSymbolNotFound
	}
	companyName, err := s.market.CompanyName(ctx, symbol)
	if err != nil {
		companyName = symbol
	}
	if err := s.watchlist.Upsert(ctx, userID, symbol, companyName); err != nil {
		return "", err
	}
	return companyName, nil
}

func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	removed, err := s.watchlist.Remove(ctx, userID, symbol)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotWatched
	}
	return nil
}

// List returns the user's watchlist, each entry enriched best-effort with
// the current quote. Provider failures leave the quote fields empty.
func (s *WatchlistService) List(ctx context.Context, userID string) ([]WatchlistItem, error) {
	entries, err := s.watchlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]WatchlistItem, 0, len(entries))
	for _, entry := range entries {
		item := WatchlistItem{
			Symbol:      entry.Symbol,
			CompanyName: entry.CompanyName,
			AddedAt:     entry.AddedAt,
		}
		quote, err := s.market.Quote(ctx, entry.Symbol)
		if err != nil {
			s.logger.Debug("quote enrichment skipped",
				zap.String("symbol", entry.Symbol),
				zap.Error(err),
			)
		} else {
			item.CurrentPrice = quote.Price.StringFixed(2)
			item.PriceChange = quote.Change.StringFixed(2)
			item.ChangePercent = quote.ChangePercent
		}
		items = append(items, item)
	}
	return items, nil
}
