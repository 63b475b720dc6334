package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danrmzz/cis4004-group14/internal/services"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/validator"
)

func TestCreateAccount(t *testing.T) {
	var gotUserID, gotType, gotCurrency string
	var gotInitial int64
	handler := newTestHandler(stubUserStore{
		getByExternalIDFn: func(ctx context.Context, externalID string) (store.User, error) {
			return store.User{ID: "user-1", ExternalID: externalID}, nil
		},
	}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{
		createFn: func(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error) {
			gotUserID, gotType, gotInitial, gotCurrency = userID, accountType, initialMinor, currency
			return "acct-7", nil
		},
	}, stubWatchlistService{}, stubMarketData{})

	body := []byte(`{"externalId":"ext-1","accountType":"savings","initialBalance":"250.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotUserID != "user-1" || gotType != "savings" || gotInitial != 25000 || gotCurrency != "" {
		t.Fatalf("unexpected create args: %q %q %d %q", gotUserID, gotType, gotInitial, gotCurrency)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp["accountId"] != "acct-7" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestCreateAccountMissingFields(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{}, stubWatchlistService{}, stubMarketData{})

	body := []byte(`{"accountType":"savings"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateAccountUserNotFound(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByExternalIDFn: func(ctx context.Context, externalID string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{}, stubWatchlistService{}, stubMarketData{})

	body := []byte(`{"externalId":"missing","accountType":"checking"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateAccountInvalidType(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{
		createFn: func(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error) {
			return "", validator.ErrInvalidAccountType
		},
	}, stubWatchlistService{}, stubMarketData{})

	body := []byte(`{"externalId":"ext-1","accountType":"offshore"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateAccountNegativeOpeningBalance(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{
		createFn: func(ctx context.Context, userID, accountType string, initialMinor int64, currency string) (string, error) {
			return "", services.ErrNegativeOpeningBalance
		},
	}, stubWatchlistService{}, stubMarketData{})

	body := []byte(`{"externalId":"ext-1","accountType":"checking","initialBalance":"-10.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListAccounts(t *testing.T) {
	handler := newTestHandler(stubUserStore{}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{
		listByUserFn: func(ctx context.Context, userID string) ([]store.Account, error) {
			return []store.Account{
				{ID: "acct-1", UserID: userID, AccountType: "checking", Balance: 0, Currency: "USD"},
				{ID: "acct-2", UserID: userID, AccountType: "savings", Balance: 123456, Currency: "USD"},
			}, nil
		},
	}, stubWatchlistService{}, stubMarketData{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/ext-1/accounts", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Success  bool `json:"success"`
		Accounts []struct {
			Balance string `json:"balance"`
		} `json:"accounts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Accounts) != 2 || resp.Accounts[0].Balance != "0.00" || resp.Accounts[1].Balance != "1234.56" {
		t.Fatalf("unexpected accounts: %+v", resp.Accounts)
	}
}

func TestListAccountsUserNotFound(t *testing.T) {
	handler := newTestHandler(stubUserStore{
		getByExternalIDFn: func(ctx context.Context, externalID string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}, stubAccountStore{}, stubTransactionStore{}, stubLedgerService{}, stubAccountService{}, stubWatchlistService{}, stubMarketData{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/missing/accounts", nil)
	rr := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
