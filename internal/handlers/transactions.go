package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/danrmzz/cis4004-group14/internal/ledger"
	"github.com/danrmzz/cis4004-group14/internal/money"
	"github.com/danrmzz/cis4004-group14/internal/store"

	"github.com/go-chi/chi/v5"
)

type createTransactionRequest struct {
	AccountID       string  `json:"accountId"`
	Amount          string  `json:"amount"`
	TransactionType string  `json:"transactionType"`
	Description     string  `json:"description"`
	ClientRequestID *string `json:"clientRequestId"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.AccountID == "" || req.Amount == "" || req.TransactionType == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: accountId, amount, transactionType")
		return
	}
	if !ledger.ValidType(req.TransactionType) {
		respondError(w, http.StatusBadRequest, "Invalid transaction type. Must be one of: deposit, withdrawal, transfer, fee")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		ledgerMutationsTotal.WithLabelValues(req.TransactionType, "rejected").Inc()
		respondError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	result, err := h.ledger.Apply(r.Context(), ledger.ApplyRequest{
		AccountID:       req.AccountID,
		AmountMinor:     amountMinor,
		Type:            req.TransactionType,
		Description:     req.Description,
		ClientRequestID: req.ClientRequestID,
	})
	if err != nil {
		ledgerMutationsTotal.WithLabelValues(req.TransactionType, "rejected").Inc()
		switch err {
		case ledger.ErrInsufficientFunds:
			respondError(w, http.StatusBadRequest, "Insufficient funds for this transaction")
		case ledger.ErrAccountNotFound:
			respondError(w, http.StatusNotFound, "Account not found")
		case ledger.ErrDuplicateRequest:
			respondError(w, http.StatusConflict, "Duplicate request")
		case ledger.ErrInvalidAmount, ledger.ErrInvalidType:
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Error creating transaction")
		}
		return
	}
	ledgerMutationsTotal.WithLabelValues(req.TransactionType, "applied").Inc()
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"message":       "Transaction created successfully",
		"transactionId": result.TransactionID,
		"newBalance":    money.FormatMinor(result.NewBalanceMinor),
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if _, err := h.accounts.GetByID(r.Context(), accountID); err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error retrieving transactions")
		return
	}
	transactions, err := h.txns.ListByAccount(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error retrieving transactions")
		return
	}
	count, err := h.txns.CountByAccount(r.Context(), accountID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error retrieving transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"count":        count,
		"transactions": transactionsJSON(transactions),
	})
}

func transactionsJSON(transactions []store.Transaction) []map[string]any {
	out := make([]map[string]any, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, map[string]any{
			"id":              t.ID,
			"accountId":       t.AccountID,
			"amount":          money.FormatMinor(t.Amount),
			"transactionType": t.TransactionType,
			"description":     t.Description,
			"createdAt":       t.CreatedAt,
		})
	}
	return out
}
