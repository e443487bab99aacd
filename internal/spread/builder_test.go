package spread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrade/willow/internal/chain"
)

var testExpiration = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func shortPut95() chain.Contract {
	return chain.Contract{
		Strike:       95,
		Bid:          1.45,
		Ask:          1.55,
		Delta:        chain.Float(0.30),
		OpenInterest: 500,
	}
}

func longPut90() chain.Contract {
	return chain.Contract{
		Strike:       90,
		Bid:          0.45,
		Ask:          0.55,
		OpenInterest: 300,
	}
}

func TestBuildBullPut(t *testing.T) {
	s, err := Build("SPY", BullPut, shortPut95(), longPut90(), 100, testExpiration, 35)
	require.NoError(t, err)

	assert.Equal(t, BullPut, s.Direction)
	assert.InDelta(t, 1.00, s.NetCredit, 1e-9)
	assert.InDelta(t, 5.0, s.Width, 1e-9)
	assert.InDelta(t, 400.0, s.MaxLoss, 1e-9)
	assert.InDelta(t, 100.0, s.MaxProfit, 1e-9)
	assert.InDelta(t, 25.0, s.ReturnOnRisk, 1e-9)
	assert.InDelta(t, 94.0, s.BreakEven, 1e-9)
	assert.InDelta(t, 5.0, s.DistanceFromPrice, 1e-9)
	assert.InDelta(t, 70.0, s.ProbabilityOfProfit, 1e-9)
}

func TestBuildBearCall(t *testing.T) {
	short := chain.Contract{Strike: 105, Bid: 1.15, Ask: 1.25, Delta: chain.Float(0.28), OpenInterest: 200}
	long := chain.Contract{Strike: 110, Bid: 0.35, Ask: 0.45, OpenInterest: 150}

	s, err := Build("QQQ", BearCall, short, long, 100, testExpiration, 30)
	require.NoError(t, err)

	assert.Equal(t, BearCall, s.Direction)
	assert.InDelta(t, 0.80, s.NetCredit, 1e-9)
	assert.InDelta(t, 105.8, s.BreakEven, 1e-9)
	assert.InDelta(t, 5.0, s.DistanceFromPrice, 1e-9)
	assert.InDelta(t, 72.0, s.ProbabilityOfProfit, 1e-9)
}

func TestBuildStructuralInvariants(t *testing.T) {
	s, err := Build("SPY", BullPut, shortPut95(), longPut90(), 100, testExpiration, 35)
	require.NoError(t, err)

	assert.Greater(t, s.NetCredit, 0.0)
	assert.Greater(t, s.MaxLoss, 0.0)
	assert.Greater(t, s.Width, 0.0)
	assert.Greater(t, s.ShortLeg.Strike, s.LongLeg.Strike, "bull put short strike above long strike")

	// ROR must be reproducible from credit and width.
	recomputed := s.NetCredit / (s.Width - s.NetCredit) * 100
	assert.InDelta(t, s.ReturnOnRisk, recomputed, 0.1)
}

func TestBuildRejectsNegativeCredit(t *testing.T) {
	// Long leg more expensive than the short leg: a debit, not a credit.
	short := chain.Contract{Strike: 95, Bid: 0.40, Ask: 0.50, Delta: chain.Float(0.30)}
	long := chain.Contract{Strike: 90, Bid: 0.90, Ask: 1.10}

	_, err := Build("SPY", BullPut, short, long, 100, testExpiration, 35)
	assert.ErrorIs(t, err, ErrNoCredit)
}

func TestBuildRejectsMissingShortDelta(t *testing.T) {
	short := shortPut95()
	short.Delta = nil

	_, err := Build("SPY", BullPut, short, longPut90(), 100, testExpiration, 35)
	assert.ErrorIs(t, err, ErrMissingDelta)
}

func TestBuildRejectsNarrowWidth(t *testing.T) {
	short := shortPut95()
	long := longPut90()
	long.Strike = 94.75

	_, err := Build("SPY", BullPut, short, long, 100, testExpiration, 35)
	assert.ErrorIs(t, err, ErrWidthTooNarrow)
}

func TestBuildRejectsZeroShortPremium(t *testing.T) {
	short := shortPut95()
	short.Bid = 0
	short.Ask = 0

	_, err := Build("SPY", BullPut, short, longPut90(), 100, testExpiration, 35)
	assert.ErrorIs(t, err, ErrInvalidPremium)
}

func TestBuildRejectsCreditExceedingWidth(t *testing.T) {
	// Credit above the width leaves non-positive max loss.
	short := chain.Contract{Strike: 95, Bid: 5.90, Ask: 6.10, Delta: chain.Float(0.30)}
	long := chain.Contract{Strike: 90, Bid: 0.10, Ask: 0.20}

	_, err := Build("SPY", BullPut, short, long, 100, testExpiration, 35)
	assert.ErrorIs(t, err, ErrNoRisk)
}

func TestAnnualizedReturn(t *testing.T) {
	s := Spread{ReturnOnRisk: 25, DaysToExpiration: 36}
	assert.InDelta(t, 253.47, s.AnnualizedReturn(), 0.01)

	assert.Zero(t, Spread{ReturnOnRisk: 25}.AnnualizedReturn())
}

func TestRiskReward(t *testing.T) {
	s := Spread{MaxLoss: 400, MaxProfit: 100}
	assert.InDelta(t, 4.0, s.RiskReward(), 1e-9)

	assert.True(t, Spread{MaxLoss: 400}.RiskReward() > 1e18)
}

func TestSummary(t *testing.T) {
	s, err := Build("SPY", BullPut, shortPut95(), longPut90(), 100, testExpiration, 35)
	require.NoError(t, err)

	assert.Equal(t, "SPY Bull Put: $95/$90 Credit: $1.00 | ROR: 25.0% | DTE: 35", s.Summary())
}
