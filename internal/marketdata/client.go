package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	// ErrRateLimited maps the provider's throttling signal; the HTTP layer
	// turns it into a 429.
	ErrRateLimited = errors.New("market data provider rate limited")
	// ErrBadSymbol covers unknown symbols and provider-reported request errors.
	ErrBadSymbol = errors.New("unknown or invalid symbol")
	// ErrUnavailable is returned while the circuit breaker is open or the
	// provider response is unusable.
	ErrUnavailable = errors.New("market data provider unavailable")
)

type Quote struct {
	Symbol        string
	Price         decimal.Decimal
	Change        decimal.Decimal
	ChangePercent string
}

type DailyBar struct {
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// Client talks to the market data provider (Alpha Vantage wire format).
// Quotes are cached per symbol for a short TTL and every request goes
// through a circuit breaker, so a flapping provider degrades to cached or
// unavailable data without piling up requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger

	cacheTTL time.Duration
	mu       sync.Mutex
	quotes   map[string]cachedQuote
}

type cachedQuote struct {
	quote     Quote
	fetchedAt time.Time
}

func NewClient(baseURL, apiKey string, cacheTTL time.Duration, logger *zap.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
		cacheTTL:   cacheTTL,
		quotes:     make(map[string]cachedQuote),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "market-data",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// symbolsByCompany is the fallback company-name lookup for a handful of
// names the dashboard search box understands without hitting the provider.
var symbolsByCompany = map[string]string{
	"reliance industries": "RELIANCE.BSE",
	"tata capital":        "TATACAPITAL.BSE",
	"apple":               "AAPL",
	"google":              "GOOG",
}

// LookupSymbol resolves a company name to its symbol. The empty string and
// false mean the name is not in the table.
func LookupSymbol(name string) (string, bool) {
	symbol, ok := symbolsByCompany[strings.ToLower(strings.TrimSpace(name))]
	return symbol, ok
}

// Quote fetches the current quote for symbol, serving from cache when the
// previous fetch is still fresh.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(symbol)
	if cached, ok := c.cachedQuote(symbol); ok {
		return cached, nil
	}

	payload, err := c.fetch(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return Quote{}, err
	}
	var body struct {
		GlobalQuote map[string]string `json:"Global Quote"`
		ErrorMsg    string            `json:"Error Message"`
		Information string            `json:"Information"`
		Note        string            `json:"Note"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return Quote{}, ErrUnavailable
	}
	if err := providerSignal(body.ErrorMsg, body.Information, body.Note); err != nil {
		return Quote{}, err
	}
	if len(body.GlobalQuote) == 0 {
		return Quote{}, ErrBadSymbol
	}
	price, err := decimal.NewFromString(body.GlobalQuote["05. price"])
	if err != nil {
		return Quote{}, ErrUnavailable
	}
	change, err := decimal.NewFromString(body.GlobalQuote["09. change"])
	if err != nil {
		change = decimal.Zero
	}
	quote := Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: body.GlobalQuote["10. change percent"],
	}
	c.storeQuote(symbol, quote)
	return quote, nil
}

// SymbolExists reports whether the provider recognizes the symbol. Rate
// limiting and outages propagate so callers can distinguish "unknown" from
// "could not check".
func (c *Client) SymbolExists(ctx context.Context, symbol string) (bool, error) {
	_, err := c.Quote(ctx, symbol)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrBadSymbol) {
		return false, nil
	}
	return false, err
}

// TimeSeriesDaily returns the daily bars for the trailing 30 days, keyed by
// ISO date.
func (c *Client) TimeSeriesDaily(ctx context.Context, symbol string) (map[string]DailyBar, error) {
	symbol = strings.ToUpper(symbol)
	payload, err := c.fetch(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"compact"},
	})
	if err != nil {
		return nil, err
	}
	var body struct {
		Series      map[string]map[string]string `json:"Time Series (Daily)"`
		ErrorMsg    string                       `json:"Error Message"`
		Information string                       `json:"Information"`
		Note        string                       `json:"Note"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, ErrUnavailable
	}
	if err := providerSignal(body.ErrorMsg, body.Information, body.Note); err != nil {
		return nil, err
	}
	if len(body.Series) == 0 {
		return nil, ErrBadSymbol
	}

	cutoff := time.Now().AddDate(0, 0, -30)
	bars := make(map[string]DailyBar)
	for date, fields := range body.Series {
		day, err := time.Parse("2006-01-02", date)
		if err != nil || day.Before(cutoff) {
			continue
		}
		bars[date] = DailyBar{
			Open:   fields["1. open"],
			High:   fields["2. high"],
			Low:    fields["3. low"],
			Close:  fields["4. close"],
			Volume: fields["5. volume"],
		}
	}
	return bars, nil
}

// CompanyName resolves the company name behind a symbol from the provider's
// overview endpoint, falling back to the symbol itself when the provider
// has nothing to say.
func (c *Client) CompanyName(ctx context.Context, symbol string) (string, error) {
	symbol = strings.ToUpper(symbol)
	payload, err := c.fetch(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return "", err
	}
	var body struct {
		Name        string `json:"Name"`
		Information string `json:"Information"`
		Note        string `json:"Note"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", ErrUnavailable
	}
	if err := providerSignal("", body.Information, body.Note); err != nil {
		return "", err
	}
	if body.Name == "" {
		return symbol, nil
	}
	return body.Name, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	payload, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("provider status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return nil, ErrRateLimited
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		c.logger.Warn("market data fetch failed",
			zap.String("function", params.Get("function")),
			zap.String("symbol", params.Get("symbol")),
			zap.Error(err),
		)
		return nil, ErrUnavailable
	}
	return payload.([]byte), nil
}

// providerSignal maps the provider's in-band status fields: Error Message
// means a bad request, Information/Note arrive on throttling.
func providerSignal(errorMsg, information, note string) error {
	if errorMsg != "" {
		return ErrBadSymbol
	}
	if information != "" || note != "" {
		return ErrRateLimited
	}
	return nil
}

func (c *Client) cachedQuote(symbol string) (Quote, bool) {
	if c.cacheTTL <= 0 {
		return Quote{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.quotes[symbol]
	if !ok || time.Since(entry.fetchedAt) > c.cacheTTL {
		return Quote{}, false
	}
	return entry.quote, true
}

func (c *Client) storeQuote(symbol string, quote Quote) {
	if c.cacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[symbol] = cachedQuote{quote: quote, fetchedAt: time.Now()}
}
