// Package pipeline orchestrates one full screening cycle: run the
// screener, persist results, render dashboards and send alerts.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/willowtrade/willow/internal/alert"
	"github.com/willowtrade/willow/internal/export"
	"github.com/willowtrade/willow/internal/report"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/yahoo"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/logger"
)

// Screener runs one screening pass. Implemented by screener.Runner.
type Screener interface {
	Run(ctx context.Context) (*screener.Result, error)
}

// MarketSource supplies broad market context for alerts.
type MarketSource interface {
	GetMarketContext(ctx context.Context) yahoo.MarketContext
}

// Notifier delivers a result summary. Implemented by alert.Alerter.
type Notifier interface {
	Send(ctx context.Context, result *screener.Result, market yahoo.MarketContext, dashboardPath string) error
}

// Options selects the output stages of a run. The screener itself
// always runs; JSON results are always saved.
type Options struct {
	SaveCSV   bool
	SaveExcel bool
	Dashboard bool
	Alert     bool
}

// Outcome reports what one run produced.
type Outcome struct {
	Result        *screener.Result
	JSONPath      string
	CSVPath       string
	ExcelPath     string
	DashboardPath string
	AlertSent     bool
}

// Pipeline wires the screener to its output stages.
type Pipeline struct {
	screener Screener
	market   MarketSource
	notifier Notifier
	cfg      *config.Config
	logger   *logger.Logger
}

// New creates a Pipeline. market and notifier may be nil when alerting
// is never requested.
func New(s Screener, market MarketSource, notifier Notifier, cfg *config.Config, log *logger.Logger) *Pipeline {
	return &Pipeline{
		screener: s,
		market:   market,
		notifier: notifier,
		cfg:      cfg,
		logger:   log.WithField("module", "pipeline"),
	}
}

// Execute runs one screening cycle. Output stages degrade
// independently: a failed export is logged and the run continues, only
// a failed screen aborts.
func (p *Pipeline) Execute(ctx context.Context, opts Options) (*Outcome, error) {
	result, err := p.screener.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("screening run: %w", err)
	}

	outcome := &Outcome{Result: result}

	outcome.JSONPath, err = export.SaveJSON(p.cfg.ResultsDir(), result)
	if err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}

	if opts.SaveCSV {
		outcome.CSVPath, err = export.SaveCSV(p.cfg.ResultsDir(), result)
		if err != nil {
			p.logger.WithError(err).Error("CSV export failed")
		}
	}
	if opts.SaveExcel {
		outcome.ExcelPath, err = export.SaveExcel(p.cfg.ResultsDir(), result)
		if err != nil {
			p.logger.WithError(err).Error("Excel export failed")
		}
	}
	if opts.Dashboard {
		outcome.DashboardPath, err = report.SaveDashboard(p.cfg.DashboardsDir(), result)
		if err != nil {
			p.logger.WithError(err).Error("Dashboard render failed")
		}
	}

	if opts.Alert {
		outcome.AlertSent = p.sendAlert(ctx, result, outcome.DashboardPath)
	}

	p.logger.WithFields(map[string]interface{}{
		"spreads":    result.TotalSpreads(),
		"json":       outcome.JSONPath,
		"alert_sent": outcome.AlertSent,
	}).Info("Pipeline run finished")

	return outcome, nil
}

// sendAlert posts the spreads above the alert threshold. Alert failures
// never fail the run.
func (p *Pipeline) sendAlert(ctx context.Context, result *screener.Result, dashboardPath string) bool {
	if p.notifier == nil {
		return false
	}

	threshold := p.cfg.Screener.AlertThresholdROR
	filtered := *result
	filtered.Spreads = result.FilterByROR(threshold)
	if filtered.TotalSpreads() == 0 {
		p.logger.WithField("threshold", threshold).Info("No spreads above alert threshold, skipping alert")
		return false
	}

	var market yahoo.MarketContext
	if p.market != nil {
		market = p.market.GetMarketContext(ctx)
	}

	if err := p.notifier.Send(ctx, &filtered, market, dashboardPath); err != nil {
		if errors.Is(err, alert.ErrNotConfigured) {
			p.logger.Warn("Alerting requested but Slack is not configured")
		} else {
			p.logger.WithError(err).Error("Alert delivery failed")
		}
		return false
	}
	return true
}
