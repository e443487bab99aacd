package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/spread"
	"github.com/willowtrade/willow/internal/yahoo"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/logger"
)

type stubScreener struct {
	result *screener.Result
	err    error
}

func (s *stubScreener) Run(ctx context.Context) (*screener.Result, error) {
	return s.result, s.err
}

type stubMarket struct{}

func (stubMarket) GetMarketContext(ctx context.Context) yahoo.MarketContext {
	return yahoo.MarketContext{VIX: 18, VIXStatus: "Normal", SPYPrice: 100}
}

type stubNotifier struct {
	sent      int
	lastCount int
	err       error
}

func (n *stubNotifier) Send(ctx context.Context, result *screener.Result, market yahoo.MarketContext, dashboardPath string) error {
	if n.err != nil {
		return n.err
	}
	n.sent++
	n.lastCount = result.TotalSpreads()
	return nil
}

func pipelineResult() *screener.Result {
	return &screener.Result{
		Timestamp: time.Date(2026, 9, 1, 9, 45, 0, 0, time.UTC),
		Spreads: []spread.Spread{
			{
				Symbol: "SPY", Direction: spread.BullPut,
				ShortLeg: chain.Contract{Strike: 95}, LongLeg: chain.Contract{Strike: 90},
				NetCredit: 1.00, MaxLoss: 400, MaxProfit: 100, ReturnOnRisk: 25,
				Width: 5, UnderlyingPrice: 100, DaysToExpiration: 35,
				Expiration: time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC),
			},
			{
				Symbol: "QQQ", Direction: spread.BearCall,
				ShortLeg: chain.Contract{Strike: 110}, LongLeg: chain.Contract{Strike: 115},
				NetCredit: 1.80, MaxLoss: 320, MaxProfit: 180, ReturnOnRisk: 56.25,
				Width: 5, UnderlyingPrice: 100, DaysToExpiration: 28,
				Expiration: time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC),
			},
		},
		SymbolsScreened: 2,
	}
}

func pipelineConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{DataDir: t.TempDir()}
	cfg.Screener.AlertThresholdROR = 30
	return cfg
}

func TestExecuteSavesAllOutputs(t *testing.T) {
	cfg := pipelineConfig(t)
	notifier := &stubNotifier{}
	p := New(&stubScreener{result: pipelineResult()}, stubMarket{}, notifier, cfg, logger.Nop())

	outcome, err := p.Execute(context.Background(), Options{
		SaveCSV: true, SaveExcel: true, Dashboard: true, Alert: true,
	})
	require.NoError(t, err)

	for _, path := range []string{outcome.JSONPath, outcome.CSVPath, outcome.ExcelPath, outcome.DashboardPath} {
		require.NotEmpty(t, path)
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, path)
	}

	assert.True(t, outcome.AlertSent)
	assert.Equal(t, 1, notifier.sent)
	// Only the QQQ spread clears the 30% alert threshold.
	assert.Equal(t, 1, notifier.lastCount)
}

func TestExecuteScreenFailureAborts(t *testing.T) {
	p := New(&stubScreener{err: errors.New("source down")}, nil, nil, pipelineConfig(t), logger.Nop())

	_, err := p.Execute(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screening run")
}

func TestExecuteMinimalRun(t *testing.T) {
	notifier := &stubNotifier{}
	p := New(&stubScreener{result: pipelineResult()}, stubMarket{}, notifier, pipelineConfig(t), logger.Nop())

	outcome, err := p.Execute(context.Background(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.JSONPath)
	assert.Empty(t, outcome.CSVPath)
	assert.Empty(t, outcome.ExcelPath)
	assert.Empty(t, outcome.DashboardPath)
	assert.False(t, outcome.AlertSent)
	assert.Zero(t, notifier.sent)
}

func TestExecuteSkipsAlertBelowThreshold(t *testing.T) {
	cfg := pipelineConfig(t)
	cfg.Screener.AlertThresholdROR = 90

	notifier := &stubNotifier{}
	p := New(&stubScreener{result: pipelineResult()}, stubMarket{}, notifier, cfg, logger.Nop())

	outcome, err := p.Execute(context.Background(), Options{Alert: true})
	require.NoError(t, err)

	assert.False(t, outcome.AlertSent)
	assert.Zero(t, notifier.sent)
}

func TestExecuteAlertFailureDoesNotFailRun(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("webhook down")}
	p := New(&stubScreener{result: pipelineResult()}, stubMarket{}, notifier, pipelineConfig(t), logger.Nop())

	outcome, err := p.Execute(context.Background(), Options{Alert: true})
	require.NoError(t, err)
	assert.False(t, outcome.AlertSent)
}
