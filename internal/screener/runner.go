package screener

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/spread"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/logger"
)

// Expiration is one candidate expiration inside the configured DTE window.
type Expiration struct {
	Date time.Time
	DTE  int
}

// ChainSource is the acquisition collaborator. It owns all network,
// caching and retry concerns; the screener only consumes normalized
// snapshots.
type ChainSource interface {
	// ExpirationsInRange lists expirations with DTE in [minDTE, maxDTE].
	ExpirationsInRange(ctx context.Context, symbol string, minDTE, maxDTE int) ([]Expiration, error)

	// FetchChain returns the normalized chain snapshot for one
	// (symbol, expiration) pair.
	FetchChain(ctx context.Context, symbol string, expiration Expiration) (*chain.Snapshot, error)

	// HasEarningsSoon reports whether the symbol reports earnings within
	// bufferDays. Best-effort: sources without calendar data return false.
	HasEarningsSoon(ctx context.Context, symbol string, bufferDays int) bool
}

// Runner screens a watchlist of symbols with a bounded worker pool. Each
// worker performs one complete fetch-then-screen cycle per symbol; the
// core screening pass itself is synchronous and shares no state.
type Runner struct {
	source ChainSource
	cfg    config.ScreenerConfig
	logger *logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(source ChainSource, cfg config.ScreenerConfig, log *logger.Logger) *Runner {
	return &Runner{
		source: source,
		cfg:    cfg,
		logger: log.WithField("module", "screener"),
	}
}

// Run screens every configured symbol and returns the deduplicated,
// ranked result. A single symbol's failure is recorded on the result and
// never aborts the remaining symbols.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	r.logger.WithFields(map[string]interface{}{
		"symbols":   len(r.cfg.Symbols),
		"workers":   r.cfg.Workers,
		"min_ror":   r.cfg.MinReturnOnRisk,
		"dte_range": []int{r.cfg.MinDTE, r.cfg.MaxDTE},
	}).Info("Screening started")

	var mu sync.Mutex
	var all []spread.Spread
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for _, symbol := range r.cfg.Symbols {
		symbol := symbol
		g.Go(func() error {
			spreads, err := r.screenSymbol(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, symbol)
				r.logger.WithError(err).WithField("symbol", symbol).Warn("Symbol skipped")
				return nil // a failed symbol never aborts the run
			}
			all = append(all, spreads...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(failed)

	deduped := spread.Dedupe(all)
	ranked := spread.Rank(deduped, r.weights())

	r.logger.WithFields(map[string]interface{}{
		"spreads":  len(ranked),
		"failed":   len(failed),
		"duration": time.Since(start),
	}).Info("Screening completed")

	return &Result{
		Timestamp:         start,
		Spreads:           ranked,
		SymbolsScreened:   len(r.cfg.Symbols),
		SymbolsWithErrors: failed,
	}, nil
}

// screenSymbol runs one fetch-then-screen cycle across every expiration
// in the configured DTE window.
func (r *Runner) screenSymbol(ctx context.Context, symbol string) ([]spread.Spread, error) {
	if r.cfg.EarningsBufferDays > 0 &&
		r.source.HasEarningsSoon(ctx, symbol, r.cfg.EarningsBufferDays) {
		r.logger.WithField("symbol", symbol).Info("Skipping symbol with earnings inside buffer")
		return nil, nil
	}

	expirations, err := r.source.ExpirationsInRange(ctx, symbol, r.cfg.MinDTE, r.cfg.MaxDTE)
	if err != nil {
		return nil, err
	}
	if len(expirations) == 0 {
		return nil, nil
	}

	screenCfg := r.screenConfig()

	var spreads []spread.Spread
	for _, exp := range expirations {
		snap, err := r.source.FetchChain(ctx, symbol, exp)
		if err != nil {
			// One bad expiration should not sink the symbol.
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol":     symbol,
				"expiration": exp.Date.Format(chain.DateLayout),
			}).Warn("Chain fetch failed")
			continue
		}
		if snap.Empty() {
			continue
		}

		spreads = append(spreads, spread.Screen(snap, screenCfg)...)
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"spreads": len(spreads),
	}).Debug("Symbol screened")

	return spreads, nil
}

// screenConfig maps the application config onto the core's acceptance
// criteria.
func (r *Runner) screenConfig() spread.Config {
	return spread.Config{
		DeltaLow:        r.cfg.DeltaLow,
		DeltaHigh:       r.cfg.DeltaHigh,
		MinOpenInterest: r.cfg.MinOpenInterest,
		MinCredit:       r.cfg.MinCredit,
		MaxLoss:         r.cfg.MaxLoss,
		MinReturnOnRisk: r.cfg.MinReturnOnRisk,
		MaxReturnOnRisk: r.cfg.MaxReturnOnRisk,
		MinDistancePct:  r.cfg.MinDistancePct,
		Widths:          r.cfg.SpreadWidths,
	}
}

func (r *Runner) weights() spread.Weights {
	return spread.Weights{
		ROR:          r.cfg.WeightROR,
		POP:          r.cfg.WeightPOP,
		Distance:     r.cfg.WeightDistance,
		OpenInterest: r.cfg.WeightOpenInterest,
	}
}
