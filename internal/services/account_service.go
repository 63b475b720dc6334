package services

import (
	"context"
	"errors"

	"github.com/danrmzz/cis4004-group14/internal/db"
	"github.com/danrmzz/cis4004-group14/internal/ledger"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrNegativeOpeningBalance = errors.New("opening balance cannot be negative")
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, userID, accountType string, balance int64, currency string) error
	GetByUser(ctx context.Context, userID string) ([]store.Account, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type AccountService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	logger       *zap.Logger
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, logger *zap.Logger) *AccountService {
	return &AccountService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

// Create opens an account. A positive opening balance is recorded as an
// opening-deposit transaction in the same unit of work, so every account's
// balance reconciles against its transaction history from the first row.
func (s *AccountService) Create(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error) {
	if err := validator.ValidateAccountType(accountType); err != nil {
		return "", err
	}
	if initialMinor < 0 {
		return "", ErrNegativeOpeningBalance
	}
	if currency == "" {
		currency = "USD"
	}

	accountID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.accounts.Create(ctx, tx, accountID, userID, accountType, initialMinor, currency); err != nil {
			return err
		}
		if initialMinor == 0 {
			return nil
		}
		return s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			AccountID:       accountID,
			Amount:          initialMinor,
			TransactionType: ledger.TypeDeposit,
			Description:     "Opening balance",
		})
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	s.logger.Info("account created",
		zap.String("account_id", accountID),
		zap.String("user_id", userID),
		zap.String("account_type", accountType),
		zap.Int64("opening_balance_minor", initialMinor),
	)
	return accountID, nil
}

func (s *AccountService) ListByUser(ctx context.Context, userID string) ([]store.Account, error) {
	return s.accounts.GetByUser(ctx, userID)
}
