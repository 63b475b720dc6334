package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/danrmzz/cis4004-group14/internal/services"
	"github.com/danrmzz/cis4004-group14/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createAccountRequest struct {
	ExternalID     string `json:"externalId"`
	AccountType    string `json:"accountType"`
	InitialBalance string `json:"initialBalance"`
	Currency       string `json:"currency"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ExternalID == "" || req.AccountType == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: externalId, accountType")
		return
	}
	initialMinor, err := parseOpeningBalance(req.InitialBalance)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid initial balance")
		return
	}
	user, err := h.users.GetByExternalID(r.Context(), req.ExternalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error creating account")
		return
	}
	accountID, err := h.accountSvc.Create(r.Context(), user.ID, req.AccountType, initialMinor, req.Currency)
	if err != nil {
		switch err {
		case validator.ErrInvalidAccountType:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrNegativeOpeningBalance:
			respondError(w, http.StatusBadRequest, err.Error())
		case services.ErrUserNotFound:
			respondError(w, http.StatusNotFound, "User not found")
		default:
			respondError(w, http.StatusInternalServerError, "Error creating account")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"message":   "Account created successfully",
		"accountId": accountID,
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	user, err := h.users.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error retrieving accounts")
		return
	}
	accounts, err := h.accountSvc.ListByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error retrieving accounts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"accounts": accountsJSON(accounts),
	})
}
