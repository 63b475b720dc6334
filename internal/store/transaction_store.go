package store

import "context"

// TransactionStore is the append-only side of the ledger. Rows are inserted
// inside the balance mutation's transaction and never updated or deleted.
type TransactionStore struct {
	db DB
}

type Transaction struct {
	ID              string  `db:"id"`
	AccountID       string  `db:"account_id"`
	Amount          int64   `db:"amount"`
	TransactionType string  `db:"transaction_type"`
	Description     string  `db:"description"`
	ClientRequestID *string `db:"client_request_id"`
	CreatedAt       any     `db:"created_at"`
}

type TransactionInput struct {
	ID              string
	AccountID       string
	Amount          int64
	TransactionType string
	Description     string
	ClientRequestID *string
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, account_id, amount, transaction_type, description, client_request_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.AccountID, input.Amount, input.TransactionType, input.Description, input.ClientRequestID,
	)
	return err
}

// ListByAccount returns the account's transactions newest first. The id
// tiebreak keeps the order strict when two commits land in the same
// timestamp tick.
func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, amount, transaction_type, description, client_request_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1
	`, accountID)
	return count, err
}
