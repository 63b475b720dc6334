package handlers

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/danrmzz/cis4004-group14/internal/marketdata"

	"github.com/go-chi/chi/v5"
)

var plainSymbol = regexp.MustCompile(`^[A-Za-z0-9.]+$`)

// GetStock returns the trailing month of daily bars for a symbol. A company
// name is accepted in place of a symbol and resolved through the static
// lookup table.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol, err := url.PathUnescape(chi.URLParam(r, "symbol"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid company name or symbol.")
		return
	}
	if !plainSymbol.MatchString(symbol) {
		resolved, ok := marketdata.LookupSymbol(symbol)
		if !ok {
			respondError(w, http.StatusBadRequest, "Invalid company name or symbol.")
			return
		}
		symbol = resolved
	}
	symbol = strings.ToUpper(symbol)

	series, err := h.market.TimeSeriesDaily(r.Context(), symbol)
	if err != nil {
		switch err {
		case marketdata.ErrBadSymbol:
			respondError(w, http.StatusBadRequest, "Failed to fetch stock data for symbol")
		case marketdata.ErrRateLimited:
			respondError(w, http.StatusTooManyRequests, "Market data provider rate limit reached")
		case marketdata.ErrUnavailable:
			respondError(w, http.StatusServiceUnavailable, "Market data provider unavailable")
		default:
			respondError(w, http.StatusInternalServerError, "Error fetching stock data")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"symbol":  symbol,
		"data":    series,
	})
}
