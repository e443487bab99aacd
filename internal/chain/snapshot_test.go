package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractMid(t *testing.T) {
	c := Contract{Bid: 1.00, Ask: 1.20}
	assert.InDelta(t, 1.10, c.Mid(), 1e-9)
}

func TestContractSpreadPct(t *testing.T) {
	c := Contract{Bid: 0.90, Ask: 1.10}
	assert.InDelta(t, 20.0, c.SpreadPct(), 1e-9)

	assert.Zero(t, Contract{}.SpreadPct())
}

func TestNormalizeFoldsPutDeltas(t *testing.T) {
	snap := &Snapshot{
		Symbol:          "SPY",
		UnderlyingPrice: 100,
		Expiration:      time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		DTE:             45,
		Puts: []Contract{
			{Strike: 95, Delta: Float(-0.30)},
			{Strike: 90, Delta: Float(-0.18)},
		},
	}

	snap.Normalize(DefaultRiskFreeRate)

	// Sorted ascending by strike, deltas absolute.
	require.Len(t, snap.Puts, 2)
	assert.Equal(t, 90.0, snap.Puts[0].Strike)
	assert.Equal(t, 0.18, *snap.Puts[0].Delta)
	assert.Equal(t, 0.30, *snap.Puts[1].Delta)
}

func TestNormalizeEstimatesMissingDeltas(t *testing.T) {
	snap := &Snapshot{
		Symbol:          "QQQ",
		UnderlyingPrice: 100,
		DTE:             30,
		Puts: []Contract{
			{Strike: 95, ImpliedVolatility: Float(0.30)},
			{Strike: 90, ImpliedVolatility: Float(0.35)},
			{Strike: 85}, // no IV, stays delta-less
		},
	}

	snap.Normalize(DefaultRiskFreeRate)

	assert.False(t, snap.Puts[0].HasDelta(), "contract without IV must stay delta-less")
	require.True(t, snap.Puts[1].HasDelta())
	require.True(t, snap.Puts[2].HasDelta())

	// Further OTM put has smaller |delta|.
	assert.Less(t, *snap.Puts[1].Delta, *snap.Puts[2].Delta)
	assert.Greater(t, *snap.Puts[1].Delta, 0.0)
}

func TestNormalizeTrustsSuppliedDeltas(t *testing.T) {
	snap := &Snapshot{
		Symbol:          "AAPL",
		UnderlyingPrice: 100,
		DTE:             30,
		Puts: []Contract{
			{Strike: 95, Delta: Float(-0.30)},
			{Strike: 90, ImpliedVolatility: Float(0.35)}, // missing delta, but side has one
		},
	}

	snap.Normalize(DefaultRiskFreeRate)

	// The estimator is skipped for the whole side when any delta exists.
	assert.False(t, snap.Puts[0].HasDelta())
	assert.Equal(t, 0.30, *snap.Puts[1].Delta)
}

func TestSnapshotEmpty(t *testing.T) {
	assert.True(t, (&Snapshot{}).Empty())
	assert.False(t, (&Snapshot{Puts: []Contract{{Strike: 90}}}).Empty())
}
