package store

import "context"

type WatchlistStore struct {
	db DB
}

type WatchlistEntry struct {
	UserID      string `db:"user_id"`
	Symbol      string `db:"symbol"`
	CompanyName string `db:"company_name"`
	AddedAt     any    `db:"added_at"`
}

func NewWatchlistStore(db DB) *WatchlistStore {
	return &WatchlistStore{db: db}
}

// Upsert adds the symbol to the user's watchlist, refreshing the cached
// company name when the pair already exists.
func (s *WatchlistStore) Upsert(ctx context.Context, userID, symbol, companyName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watchlist (user_id, symbol, company_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol) DO UPDATE
		SET company_name = EXCLUDED.company_name
	`, userID, symbol, companyName)
	return err
}

func (s *WatchlistStore) Remove(ctx context.Context, userID, symbol string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist
		WHERE user_id = $1 AND symbol = $2
	`, userID, symbol)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *WatchlistStore) ListByUser(ctx context.Context, userID string) ([]WatchlistEntry, error) {
	var rows []WatchlistEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT user_id, symbol, company_name, added_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
