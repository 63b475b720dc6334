package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/danrmzz/cis4004-group14/internal/middleware"
	"github.com/danrmzz/cis4004-group14/internal/money"
	"github.com/danrmzz/cis4004-group14/internal/store"
	"github.com/danrmzz/cis4004-group14/internal/validator"
	"github.com/danrmzz/cis4004-group14/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type upsertUserRequest struct {
	ExternalID string `json:"externalId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

// UpsertUser records a user the identity provider has just authenticated.
// Repeated calls for the same external id refresh email and name and keep
// returning the same internal id.
func (h *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ExternalID == "" || req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: externalId, email, name")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := h.users.Upsert(r.Context(), uuid.NewString(), req.ExternalID, req.Email, req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error creating/updating user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created/updated successfully",
		"userId":  userID,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	user, err := h.users.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error retrieving user data")
		return
	}
	accounts, err := h.accountSvc.ListByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error retrieving user data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userJSON(user, accounts),
	})
}

// CreateSession exchanges a verified identity token for the internal user
// record, creating it on first sight. The identity middleware has already
// validated the token by the time this runs.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := h.users.Upsert(r.Context(), uuid.NewString(), claims.ExternalID, claims.Email, claims.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error creating session")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":         userID,
			"externalId": claims.ExternalID,
			"email":      claims.Email,
			"name":       claims.Name,
		},
	})
}

// WSBalances streams committed balance updates for the caller's accounts.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.users.GetByExternalID(r.Context(), claims.ExternalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error resolving user")
		return
	}
	websocket.ServeWS(w, r, h.hub, user.ID)
}

func userJSON(user store.User, accounts []store.Account) map[string]any {
	return map[string]any{
		"id":         user.ID,
		"externalId": user.ExternalID,
		"email":      user.Email,
		"name":       user.Name,
		"createdAt":  user.CreatedAt,
		"accounts":   accountsJSON(accounts),
	}
}

func accountsJSON(accounts []store.Account) []map[string]any {
	out := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, map[string]any{
			"id":          account.ID,
			"accountType": account.AccountType,
			"balance":     money.FormatMinor(account.Balance),
			"currency":    account.Currency,
			"createdAt":   account.CreatedAt,
		})
	}
	return out
}
