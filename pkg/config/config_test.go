package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8087", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30, cfg.Screener.MinDTE)
	assert.Equal(t, 45, cfg.Screener.MaxDTE)
	assert.Equal(t, 0.20, cfg.Screener.DeltaLow)
	assert.Equal(t, 0.35, cfg.Screener.DeltaHigh)
	assert.Equal(t, []float64{1, 2, 5}, cfg.Screener.SpreadWidths)
	assert.Equal(t, 5, cfg.Screener.Workers)
	assert.NotEmpty(t, cfg.Screener.Symbols)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCREENER_SYMBOLS", "spy, qqq ,aapl")
	t.Setenv("SCREENER_MIN_ROR", "25")
	t.Setenv("SCREENER_SPREAD_WIDTHS", "2.5,5")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"SPY", "QQQ", "AAPL"}, cfg.Screener.Symbols)
	assert.Equal(t, 25.0, cfg.Screener.MinReturnOnRisk)
	assert.Equal(t, []float64{2.5, 5}, cfg.Screener.SpreadWidths)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoadRejectsInvalidDeltaBand(t *testing.T) {
	t.Setenv("SCREENER_DELTA_LOW", "0.5")
	t.Setenv("SCREENER_DELTA_HIGH", "0.3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delta band")
}

func TestLoadRejectsInvalidDTEWindow(t *testing.T) {
	t.Setenv("SCREENER_MIN_DTE", "60")
	t.Setenv("SCREENER_MAX_DTE", "30")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DTE window")
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
}

func TestSlackConfigured(t *testing.T) {
	assert.False(t, AlertConfig{}.SlackConfigured())
	assert.True(t, AlertConfig{SlackWebhookURL: "https://hooks.slack.com/services/x"}.SlackConfigured())
}
