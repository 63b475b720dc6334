package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danrmzz/cis4004-group14/internal/db"
	"github.com/danrmzz/cis4004-group14/internal/money"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeTransfer   = "transfer"
	TypeFee        = "fee"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidType       = errors.New("unrecognized transaction type")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateRequest  = errors.New("duplicate client request")
)

// ValidType reports whether t is one of the four recognized transaction
// types. Callers check this at the boundary; Apply checks it again before
// touching storage.
func ValidType(t string) bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeFee:
		return true
	}
	return false
}

// IsDebit reports whether t reduces the account balance. Transfers debit
// the source account only; there is no paired credit leg.
func IsDebit(t string) bool {
	return t == TypeWithdrawal || t == TypeTransfer || t == TypeFee
}

type AccountStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (store.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// Service is the only writer of account balances. Every mutation runs as a
// single unit of work: lock the account row, validate, write the new
// balance, append the transaction record, commit. A transaction row exists
// if and only if its balance effect committed.
type Service struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	hub          BalanceHub
	logger       *zap.Logger
}

func NewService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, hub BalanceHub, logger *zap.Logger) *Service {
	return &Service{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		hub:          hub,
		logger:       logger,
	}
}

type ApplyRequest struct {
	AccountID       string
	AmountMinor     int64
	Type            string
	Description     string
	ClientRequestID *string
}

type ApplyResult struct {
	TransactionID   string
	NewBalanceMinor int64
}

// Apply atomically mutates one account balance and appends the matching
// transaction record. Expected business failures come back as
// ErrAccountNotFound, ErrInsufficientFunds or ErrDuplicateRequest with no
// state change; anything else is a storage fault, also fully rolled back.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	if req.AmountMinor <= 0 {
		return ApplyResult{}, ErrInvalidAmount
	}
	if !ValidType(req.Type) {
		return ApplyResult{}, ErrInvalidType
	}

	var result ApplyResult
	var ownerID string
	var currency string
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, req.AccountID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return err
		}
		ownerID = account.UserID
		currency = account.Currency

		newBalance := account.Balance
		if IsDebit(req.Type) {
			newBalance -= req.AmountMinor
			if newBalance < 0 {
				return ErrInsufficientFunds
			}
		} else {
			newBalance += req.AmountMinor
		}

		if err := s.accounts.UpdateBalance(ctx, tx, req.AccountID, newBalance); err != nil {
			return err
		}
		transactionID := uuid.NewString()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              transactionID,
			AccountID:       req.AccountID,
			Amount:          req.AmountMinor,
			TransactionType: req.Type,
			Description:     req.Description,
			ClientRequestID: req.ClientRequestID,
		}); err != nil {
			return err
		}
		result = ApplyResult{TransactionID: transactionID, NewBalanceMinor: newBalance}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ApplyResult{}, ErrDuplicateRequest
		}
		return ApplyResult{}, err
	}

	s.logger.Info("transaction applied",
		zap.String("account_id", req.AccountID),
		zap.String("transaction_id", result.TransactionID),
		zap.String("type", req.Type),
		zap.Int64("amount_minor", req.AmountMinor),
		zap.Int64("new_balance_minor", result.NewBalanceMinor),
	)
	s.hub.BroadcastBalance(ownerID, websocket.BalanceUpdate{
		AccountID: req.AccountID,
		Balance:   money.FormatMinor(result.NewBalanceMinor),
		Currency:  currency,
	})
	return result, nil
}
