package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/spread"
)

func bullPut() spread.Spread {
	return spread.Spread{
		Symbol:            "SPY",
		Direction:         spread.BullPut,
		Expiration:        time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC),
		DaysToExpiration:  35,
		ShortLeg:          chain.Contract{Strike: 95, OpenInterest: 500},
		LongLeg:           chain.Contract{Strike: 90, OpenInterest: 300},
		NetCredit:         1.00,
		MaxLoss:           400,
		MaxProfit:         100,
		ReturnOnRisk:      25,
		BreakEven:         94,
		Width:             5,
		UnderlyingPrice:   100,
		DistanceFromPrice: 5,
	}
}

func bearCall() spread.Spread {
	s := bullPut()
	s.Symbol = "QQQ"
	s.Direction = spread.BearCall
	s.ShortLeg = chain.Contract{Strike: 110, OpenInterest: 400}
	s.LongLeg = chain.Contract{Strike: 115, OpenInterest: 200}
	s.NetCredit = 0.80
	s.MaxLoss = 420
	s.MaxProfit = 80
	s.BreakEven = 110.8
	return s
}

func TestPayoffAtBullPut(t *testing.T) {
	s := bullPut()

	tests := []struct {
		price float64
		want  float64
	}{
		{100, 100},  // above short strike, full credit
		{95, 100},   // at short strike, full credit
		{94, 0},     // break-even
		{92, -200},  // between strikes
		{90, -400},  // at long strike, max loss
		{85, -400},  // below long strike, max loss
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, PayoffAt(s, tt.price), 1e-9, "price %.2f", tt.price)
	}
}

func TestPayoffAtBearCall(t *testing.T) {
	s := bearCall()

	tests := []struct {
		price float64
		want  float64
	}{
		{100, 80},     // below short strike, full credit
		{110, 80},     // at short strike, full credit
		{110.8, 0},    // break-even
		{113, -220},   // between strikes
		{115, -420},   // at long strike, max loss
		{120, -420},   // above long strike, max loss
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, PayoffAt(s, tt.price), 1e-9, "price %.2f", tt.price)
	}
}

func TestPayoffRange(t *testing.T) {
	lo, hi := payoffRange(bullPut())
	assert.InDelta(t, 81.0, lo, 1e-9)
	assert.InDelta(t, 104.5, hi, 1e-9)

	lo, hi = payoffRange(bearCall())
	assert.InDelta(t, 99.0, lo, 1e-9)
	assert.InDelta(t, 126.5, hi, 1e-9)
}

func TestSaveDashboard(t *testing.T) {
	dir := t.TempDir()
	result := &screener.Result{
		Timestamp: time.Date(2026, 9, 1, 9, 45, 0, 0, time.UTC),
		Spreads:   []spread.Spread{bullPut(), bearCall()},
	}

	path, err := SaveDashboard(dir, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dashboard_20260901_094500.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "Return on Risk vs Max Loss")
	assert.Contains(t, html, "Average Return by Ticker")
	assert.Contains(t, html, "DTE Distribution")
	assert.Contains(t, html, "Spread Type Breakdown")
	assert.Contains(t, html, "Payoff at Expiration")
}

func TestSaveDashboardEmptyResult(t *testing.T) {
	dir := t.TempDir()
	result := &screener.Result{Timestamp: time.Date(2026, 9, 1, 9, 45, 0, 0, time.UTC)}

	path, err := SaveDashboard(dir, result)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Spread Type Breakdown")
}
