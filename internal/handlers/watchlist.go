package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danrmzz/cis4004-group14/internal/marketdata"
	"github.com/danrmzz/cis4004-group14/internal/services"

	"github.com/go-chi/chi/v5"
)

type addWatchlistRequest struct {
	ExternalID string `json:"externalId"`
	Symbol     string `json:"symbol"`
}

func (h *Handler) AddWatchlist(w http.ResponseWriter, r *http.Request) {
	var req addWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.ExternalID == "" || req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "externalId and stock symbol are required")
		return
	}
	user, err := h.users.GetByExternalID(r.Context(), req.ExternalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error adding stock to watchlist")
		return
	}
	companyName, err := h.watchlist.Add(r.Context(), user.ID, req.Symbol)
	if err != nil {
		switch err {
		case services.ErrSymbolNotFound:
			respondError(w, http.StatusNotFound, "Stock symbol not found or invalid")
		case marketdata.ErrRateLimited:
			respondError(w, http.StatusTooManyRequests, "Market data provider rate limit reached")
		default:
			respondError(w, http.StatusInternalServerError, "Error adding stock to watchlist")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Stock added to watchlist",
		"stock": map[string]string{
			"symbol":      strings.ToUpper(strings.TrimSpace(req.Symbol)),
			"companyName": companyName,
		},
	})
}

func (h *Handler) RemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	symbol := chi.URLParam(r, "symbol")
	user, err := h.users.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error removing stock from watchlist")
		return
	}
	if err := h.watchlist.Remove(r.Context(), user.ID, symbol); err != nil {
		if err == services.ErrNotWatched {
			respondError(w, http.StatusNotFound, "Stock not found in watchlist")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error removing stock from watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Stock removed from watchlist",
	})
}

func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")
	user, err := h.users.GetByExternalID(r.Context(), externalID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Error retrieving watchlist")
		return
	}
	items, err := h.watchlist.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error retrieving watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"watchlist": watchlistJSON(items),
	})
}

func watchlistJSON(items []services.WatchlistItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{
			"symbol":      item.Symbol,
			"companyName": item.CompanyName,
			"addedAt":     item.AddedAt,
		}
		if item.CurrentPrice != "" {
			entry["currentPrice"] = item.CurrentPrice
			entry["priceChange"] = item.PriceChange
			entry["changePercent"] = item.ChangePercent
		}
		out = append(out, entry)
	}
	return out
}
