package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/logger"
)

var testToday = time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

func expEpoch(daysOut int) int64 {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysOut).Unix()
}

func chainJSON(epoch int64) string {
	return fmt.Sprintf(`{
		"optionChain": {
			"result": [{
				"underlyingSymbol": "SPY",
				"expirationDates": [%d, %d, %d],
				"quote": {"regularMarketPrice": 100.0},
				"options": [{
					"expirationDate": %d,
					"calls": [
						{"contractSymbol": "SPY261006C00110000", "strike": 110.0, "bid": 0.90, "ask": 1.10, "impliedVolatility": 0.22, "openInterest": 250, "volume": 40}
					],
					"puts": [
						{"contractSymbol": "SPY261006P00095000", "strike": 95.0, "bid": 1.45, "ask": 1.55, "impliedVolatility": 0.25, "openInterest": 500, "volume": 120},
						{"contractSymbol": "SPY261006P00090000", "strike": 90.0, "bid": 0.45, "ask": 0.55, "impliedVolatility": 0.00001, "openInterest": 300, "volume": 80}
					]
				}]
			}],
			"error": null
		}
	}`, expEpoch(14), epoch, expEpoch(91), epoch)
}

func newTestClient(t *testing.T, baseURL, quoteURL, cacheDir string) *Client {
	t.Helper()
	cfg := config.YahooConfig{
		BaseURL:      baseURL,
		QuoteURL:     quoteURL,
		CalendarURL:  baseURL + "/calendar",
		RatePerSec:   1000,
		MaxRetries:   0,
		CacheTTL:     time.Hour,
		RiskFreeRate: 0.045,
	}
	c := NewClient(cfg, cacheDir, logger.Nop())
	c.now = func() time.Time { return testToday }
	return c
}

func TestExpirationsInRange(t *testing.T) {
	epoch := expEpoch(35)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chainJSON(epoch))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	exps, err := c.ExpirationsInRange(context.Background(), "SPY", 30, 45)
	require.NoError(t, err)

	require.Len(t, exps, 1)
	assert.Equal(t, 35, exps[0].DTE)
	assert.Equal(t, time.Unix(epoch, 0).UTC(), exps[0].Date)
}

func TestFetchChainNormalizes(t *testing.T) {
	epoch := expEpoch(35)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("%d", epoch), r.URL.Query().Get("date"))
		fmt.Fprint(w, chainJSON(epoch))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	exp := screener.Expiration{Date: time.Unix(epoch, 0).UTC(), DTE: 35}

	snap, err := c.FetchChain(context.Background(), "SPY", exp)
	require.NoError(t, err)

	assert.Equal(t, "SPY", snap.Symbol)
	assert.Equal(t, 100.0, snap.UnderlyingPrice)
	assert.Equal(t, 35, snap.DTE)
	require.Len(t, snap.Puts, 2)
	require.Len(t, snap.Calls, 1)

	// Contracts are sorted by strike after normalization.
	assert.Equal(t, 90.0, snap.Puts[0].Strike)
	assert.Equal(t, 95.0, snap.Puts[1].Strike)

	// Yahoo supplies no delta; the 95 put has a usable IV so its delta
	// is estimated. The 90 put's placeholder IV is dropped, leaving it
	// delta-less.
	require.True(t, snap.Puts[1].HasDelta())
	assert.Greater(t, snap.Puts[1].AbsDelta(), 0.0)
	assert.Less(t, snap.Puts[1].AbsDelta(), 0.5)
	assert.False(t, snap.Puts[0].HasDelta())
	assert.Nil(t, snap.Puts[0].ImpliedVolatility)
}

func TestFetchChainUsesCache(t *testing.T) {
	epoch := expEpoch(35)
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chainJSON(epoch))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, t.TempDir())
	exp := screener.Expiration{Date: time.Unix(epoch, 0).UTC(), DTE: 35}

	first, err := c.FetchChain(context.Background(), "SPY", exp)
	require.NoError(t, err)
	second, err := c.FetchChain(context.Background(), "SPY", exp)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
	assert.Equal(t, first.UnderlyingPrice, second.UnderlyingPrice)
	assert.Equal(t, len(first.Puts), len(second.Puts))
}

func TestFetchChainAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"optionChain": {"result": [], "error": {"code": "Not Found", "description": "No data found"}}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	_, err := c.FetchChain(context.Background(), "BOGUS", screener.Expiration{Date: testToday, DTE: 35})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"chart": {
				"result": [{"meta": {"symbol": "SPY", "regularMarketPrice": 101.5, "chartPreviousClose": 100.0}}],
				"error": null
			}
		}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	quote, err := c.GetQuote(context.Background(), "SPY")
	require.NoError(t, err)

	assert.Equal(t, 101.5, quote.Price)
	assert.InDelta(t, 1.5, quote.ChangePct(), 1e-9)
}

func TestGetQuoteEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": [], "error": null}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	_, err := c.GetQuote(context.Background(), "SPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty result")
}

func TestGetMarketContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "VIX") {
			fmt.Fprint(w, `{"chart": {"result": [{"meta": {"symbol": "^VIX", "regularMarketPrice": 22.4, "chartPreviousClose": 21.0}}], "error": null}}`)
			return
		}
		fmt.Fprint(w, `{"chart": {"result": [{"meta": {"symbol": "SPY", "regularMarketPrice": 100.8, "chartPreviousClose": 100.0}}], "error": null}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, server.URL, "")
	mc := c.GetMarketContext(context.Background())

	assert.Equal(t, 22.4, mc.VIX)
	assert.Equal(t, "Elevated", mc.VIXStatus)
	assert.Equal(t, 100.8, mc.SPYPrice)
	assert.Equal(t, "up +0.80%", mc.SPYTrend())
}

func TestClassifyVIX(t *testing.T) {
	tests := []struct {
		level float64
		want  string
	}{
		{12.0, "Low"},
		{15.0, "Normal"},
		{19.9, "Normal"},
		{20.0, "Elevated"},
		{29.9, "Elevated"},
		{30.0, "High"},
		{45.0, "High"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyVIX(tt.level), "level %.1f", tt.level)
	}
}

func TestSPYTrendLabels(t *testing.T) {
	assert.Equal(t, "up +1.20%", MarketContext{SPYChangePct: 1.2}.SPYTrend())
	assert.Equal(t, "down -0.80%", MarketContext{SPYChangePct: -0.8}.SPYTrend())
	assert.Equal(t, "flat +0.20%", MarketContext{SPYChangePct: 0.2}.SPYTrend())
}
