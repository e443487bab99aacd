package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/httputil"
	"github.com/willowtrade/willow/pkg/logger"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client handles communication with the Yahoo Finance options and quote
// endpoints. All Yahoo API calls in the application go through this
// client, which owns rate limiting, retry and the snapshot cache.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.YahooConfig
	cache      *snapshotCache

	// now is swapped in tests to pin DTE arithmetic.
	now func() time.Time
}

// NewClient creates a Yahoo Finance client. cacheDir may be empty to
// disable the on-disk snapshot cache.
func NewClient(cfg config.YahooConfig, cacheDir string, log *logger.Logger) *Client {
	httpClient := httputil.New(log).
		WithRetry(cfg.MaxRetries, 500*time.Millisecond).
		WithRateLimit(cfg.RatePerSec, 1).
		WithUserAgent(defaultUserAgent)

	var cache *snapshotCache
	if cacheDir != "" {
		cache = newSnapshotCache(cacheDir, cfg.CacheTTL)
	}

	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "yahoo"),
		cfg:        cfg,
		cache:      cache,
		now:        time.Now,
	}
}

// optionChainResponse mirrors the v7 options endpoint payload. Only the
// fields the screener consumes are mapped.
type optionChainResponse struct {
	OptionChain struct {
		Result []chainResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"optionChain"`
}

type chainResult struct {
	UnderlyingSymbol string  `json:"underlyingSymbol"`
	ExpirationDates  []int64 `json:"expirationDates"`
	Quote            struct {
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"quote"`
	Options []optionBlock `json:"options"`
}

type optionBlock struct {
	ExpirationDate int64            `json:"expirationDate"`
	Calls          []optionContract `json:"calls"`
	Puts           []optionContract `json:"puts"`
}

type optionContract struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	Bid               float64  `json:"bid"`
	Ask               float64  `json:"ask"`
	Delta             *float64 `json:"delta"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	OpenInterest      int      `json:"openInterest"`
	Volume            int      `json:"volume"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ExpirationsInRange lists the symbol's expirations whose DTE falls
// inside [minDTE, maxDTE].
func (c *Client) ExpirationsInRange(ctx context.Context, symbol string, minDTE, maxDTE int) ([]screener.Expiration, error) {
	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, symbol)

	result, err := c.fetchChainResult(ctx, symbol, url)
	if err != nil {
		return nil, fmt.Errorf("fetch expirations for %s: %w", symbol, err)
	}

	today := c.today()
	var expirations []screener.Expiration
	for _, epoch := range result.ExpirationDates {
		date := time.Unix(epoch, 0).UTC()
		dte := int(date.Sub(today).Hours() / 24)
		if dte >= minDTE && dte <= maxDTE {
			expirations = append(expirations, screener.Expiration{Date: date, DTE: dte})
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(expirations),
	}).Debug("Expirations listed")
	return expirations, nil
}

// FetchChain returns the normalized option chain snapshot for one
// (symbol, expiration) pair, served from the disk cache when fresh.
func (c *Client) FetchChain(ctx context.Context, symbol string, exp screener.Expiration) (*chain.Snapshot, error) {
	if c.cache != nil {
		if snap, ok := c.cache.get(symbol, exp.Date); ok {
			c.logger.WithFields(map[string]interface{}{
				"symbol":     symbol,
				"expiration": exp.Date.Format(chain.DateLayout),
			}).Debug("Chain served from cache")
			return snap, nil
		}
	}

	url := fmt.Sprintf("%s/%s?date=%d", c.cfg.BaseURL, symbol, exp.Date.Unix())

	result, err := c.fetchChainResult(ctx, symbol, url)
	if err != nil {
		return nil, fmt.Errorf("fetch chain for %s %s: %w", symbol, exp.Date.Format(chain.DateLayout), err)
	}

	snap := &chain.Snapshot{
		Symbol:          symbol,
		UnderlyingPrice: result.Quote.RegularMarketPrice,
		Expiration:      exp.Date,
		DTE:             exp.DTE,
	}
	for _, block := range result.Options {
		if block.ExpirationDate != exp.Date.Unix() {
			continue
		}
		snap.Calls = convertContracts(block.Calls)
		snap.Puts = convertContracts(block.Puts)
	}

	snap.Normalize(c.cfg.RiskFreeRate)

	if c.cache != nil {
		if err := c.cache.put(symbol, exp.Date, snap); err != nil {
			c.logger.WithError(err).Warn("Chain cache write failed")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"expiration": exp.Date.Format(chain.DateLayout),
		"calls":      len(snap.Calls),
		"puts":       len(snap.Puts),
	}).Debug("Chain fetched")
	return snap, nil
}

func (c *Client) fetchChainResult(ctx context.Context, symbol, url string) (*chainResult, error) {
	var resp optionChainResponse
	if err := c.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("%s: %s", symbol, resp.OptionChain.Error.Description)
	}
	if len(resp.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("%s: empty result", symbol)
	}
	return &resp.OptionChain.Result[0], nil
}

// Quote holds the current price state of one ticker.
type Quote struct {
	Symbol        string
	Price         float64
	PreviousClose float64
}

// ChangePct is the percentage move from the previous close.
func (q Quote) ChangePct() float64 {
	if q.PreviousClose == 0 {
		return 0
	}
	return (q.Price - q.PreviousClose) / q.PreviousClose * 100
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the current price for a ticker from the chart
// endpoint.
func (c *Client) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/%s", c.cfg.QuoteURL, symbol)

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, url, &resp); err != nil {
		return Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return Quote{}, fmt.Errorf("quote for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("quote for %s: empty result", symbol)
	}

	meta := resp.Chart.Result[0].Meta
	return Quote{
		Symbol:        symbol,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
	}, nil
}

func (c *Client) today() time.Time {
	now := c.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func convertContracts(raw []optionContract) []chain.Contract {
	out := make([]chain.Contract, 0, len(raw))
	for _, oc := range raw {
		contract := chain.Contract{
			ContractSymbol: oc.ContractSymbol,
			Strike:         oc.Strike,
			Bid:            oc.Bid,
			Ask:            oc.Ask,
			Delta:          oc.Delta,
			OpenInterest:   oc.OpenInterest,
			Volume:         oc.Volume,
		}
		// Yahoo reports a tiny placeholder IV on illiquid contracts;
		// treat anything at or below it as absent.
		if oc.ImpliedVolatility != nil && *oc.ImpliedVolatility > 1e-5 {
			contract.ImpliedVolatility = oc.ImpliedVolatility
		}
		out = append(out, contract)
	}
	return out
}
