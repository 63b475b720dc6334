package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func quoteBody(symbol, price, change string) string {
	return fmt.Sprintf(`{"Global Quote": {"01. symbol": %q, "05. price": %q, "09. change": %q, "10. change percent": "1.50%%"}}`, symbol, price, change)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, ttl time.Duration) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", ttl, zap.NewNop()), server
}

func TestQuoteParsesProviderResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Fatalf("unexpected function: %s", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Fatalf("api key not forwarded: %s", got)
		}
		fmt.Fprint(w, quoteBody("AAPL", "187.44", "-1.23"))
	}, 0)

	quote, err := client.Quote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Symbol != "AAPL" || quote.Price.StringFixed(2) != "187.44" {
		t.Fatalf("unexpected quote: %#v", quote)
	}
	if quote.Change.StringFixed(2) != "-1.23" || quote.ChangePercent != "1.50%" {
		t.Fatalf("unexpected quote: %#v", quote)
	}
}

func TestQuoteRateLimitSignal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	}, 0)

	if _, err := client.Quote(context.Background(), "AAPL"); err != ErrRateLimited {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote": {}}`)
	}, 0)

	if _, err := client.Quote(context.Background(), "NOPE"); err != ErrBadSymbol {
		t.Fatalf("expected ErrBadSymbol, got %v", err)
	}
}

func TestQuoteUsesCache(t *testing.T) {
	var hits int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		fmt.Fprint(w, quoteBody("AAPL", "187.44", "0.10"))
	}, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := client.Quote(context.Background(), "AAPL"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected a single provider hit, got %d", hits)
	}
}

func TestSymbolExists(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "AAPL" {
			fmt.Fprint(w, quoteBody("AAPL", "187.44", "0.10"))
			return
		}
		fmt.Fprint(w, `{"Global Quote": {}}`)
	}, 0)

	exists, err := client.SymbolExists(context.Background(), "AAPL")
	if err != nil || !exists {
		t.Fatalf("expected AAPL to exist, got exists=%v err=%v", exists, err)
	}
	exists, err = client.SymbolExists(context.Background(), "NOPE")
	if err != nil || exists {
		t.Fatalf("expected NOPE to be unknown, got exists=%v err=%v", exists, err)
	}
}

func TestTimeSeriesDailyTrimsToLastMonth(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
	stale := time.Now().AddDate(0, 0, -90).Format("2006-01-02")
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY" {
			t.Fatalf("unexpected function: %s", got)
		}
		fmt.Fprintf(w, `{"Time Series (Daily)": {
			%q: {"1. open": "10", "2. high": "11", "3. low": "9", "4. close": "10.5", "5. volume": "1000"},
			%q: {"1. open": "20", "2. high": "21", "3. low": "19", "4. close": "20.5", "5. volume": "2000"}
		}}`, recent, stale)
	}, 0)

	bars, err := client.TimeSeriesDaily(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected only the recent bar, got %#v", bars)
	}
	if bars[recent].Close != "10.5" {
		t.Fatalf("unexpected bar: %#v", bars[recent])
	}
}

func TestCompanyNameFallsBackToSymbol(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}, 0)

	name, err := client.CompanyName(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "AAPL" {
		t.Fatalf("expected fallback to symbol, got %q", name)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0)

	for i := 0; i < 5; i++ {
		if _, err := client.Quote(context.Background(), "AAPL"); err != ErrUnavailable {
			t.Fatalf("attempt %d: expected ErrUnavailable, got %v", i, err)
		}
	}
	// Breaker is now open; requests fail fast without hitting the server.
	if _, err := client.Quote(context.Background(), "AAPL"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable while open, got %v", err)
	}
}

func TestLookupSymbol(t *testing.T) {
	symbol, ok := LookupSymbol("Apple")
	if !ok || symbol != "AAPL" {
		t.Fatalf("unexpected lookup result: %q %v", symbol, ok)
	}
	if _, ok := LookupSymbol("no such company"); ok {
		t.Fatal("expected lookup miss")
	}
}
