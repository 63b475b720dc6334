package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAccountStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[2] != "savings" || args[3] != int64(0) || args[4] != "USD" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	if err := store.Create(ctx, execer, "acc-1", "user-1", "savings", 0, "USD"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{})
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("read must take a row lock: %s", query)
			}
			if len(args) != 1 || args[0] != "acc-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*Account) = Account{ID: "acc-1", Balance: 10000}
			return nil
		},
	}
	row, err := store.GetForUpdate(ctx, getter, "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Balance != 10000 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestAccountStoreGetForUpdateMissingAccount(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{})
	getter := stubGetter{
		getFn: func(context.Context, any, string, ...any) error {
			return sql.ErrNoRows
		},
	}
	if _, err := store.GetForUpdate(ctx, getter, "missing"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestAccountStoreUpdateBalance(t *testing.T) {
	ctx := context.Background()
	var gotBalance any
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			gotBalance = args[0]
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	if err := store.UpdateBalance(ctx, execer, "acc-1", 15000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBalance != int64(15000) {
		t.Fatalf("unexpected balance arg: %#v", gotBalance)
	}
}

func TestAccountStoreGetByUser(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE user_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*[]Account) = []Account{{ID: "acc-1"}, {ID: "acc-2"}}
			return nil
		},
	})
	rows, err := store.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
