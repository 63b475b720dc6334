package store

import "context"

type AccountStore struct {
	db DB
}

type Account struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	AccountType string `db:"account_type"`
	Balance     int64  `db:"balance"`
	Currency    string `db:"currency"`
	CreatedAt   any    `db:"created_at"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, tx Execer, id, userID, accountType string, balance int64, currency string) error {
	query := `
		INSERT INTO accounts (id, user_id, account_type, balance, currency)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, accountType, balance, currency)
	return err
}

func (s *AccountStore) GetByUser(ctx context.Context, userID string) ([]Account, error) {
	var rows []Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, account_type, balance, currency, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, account_type, balance, currency, created_at
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

// GetForUpdate reads the account row under an exclusive row lock. Callers
// must be inside a transaction; the lock is held until that transaction
// commits or rolls back, which is what serializes concurrent mutations of
// one account.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (Account, error) {
	var row Account
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, account_type, balance, currency
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1
		WHERE id = $2
	`, balance, accountID)
	return err
}
