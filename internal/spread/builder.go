package spread

import (
	"errors"
	"math"
	"time"

	"github.com/willowtrade/willow/internal/chain"
)

// Build failure signals. These mark structurally invalid candidates that
// the caller discards; none of them aborts a screening pass.
var (
	ErrWidthTooNarrow = errors.New("strike width below minimum granularity")
	ErrInvalidPremium = errors.New("leg premium invalid")
	ErrNoCredit       = errors.New("spread yields no net credit")
	ErrNoRisk         = errors.New("spread has non-positive max loss")
	ErrMissingDelta   = errors.New("short leg carries no delta")
)

// Build combines a short/long leg pair into a fully computed Spread.
//
// Probability of profit is derived from the short-leg delta and is
// mandatory: a delta-less short leg fails the build rather than
// defaulting POP.
func Build(symbol string, dir Direction, short, long chain.Contract, underlying float64, expiration time.Time, dte int) (Spread, error) {
	width := math.Abs(short.Strike - long.Strike)
	if width < minWidth {
		return Spread{}, ErrWidthTooNarrow
	}

	shortPremium := short.Mid()
	longPremium := long.Mid()
	if shortPremium <= 0 || longPremium < 0 {
		return Spread{}, ErrInvalidPremium
	}

	netCredit := shortPremium - longPremium
	maxLoss := (width - netCredit) * ContractMultiplier
	maxProfit := netCredit * ContractMultiplier

	if netCredit <= 0 {
		return Spread{}, ErrNoCredit
	}
	if maxLoss <= 0 {
		return Spread{}, ErrNoRisk
	}

	if !short.HasDelta() {
		return Spread{}, ErrMissingDelta
	}
	pop := round1((1 - short.AbsDelta()) * 100)

	returnOnRisk := netCredit / (width - netCredit) * 100

	var breakEven, distance float64
	if dir == BullPut {
		breakEven = short.Strike - netCredit
		distance = underlying - short.Strike
	} else {
		breakEven = short.Strike + netCredit
		distance = short.Strike - underlying
	}

	return Spread{
		Symbol:              symbol,
		Direction:           dir,
		Expiration:          expiration,
		DaysToExpiration:    dte,
		ShortLeg:            short,
		LongLeg:             long,
		NetCredit:           round2(netCredit),
		MaxLoss:             round2(maxLoss),
		MaxProfit:           round2(maxProfit),
		ReturnOnRisk:        round2(returnOnRisk),
		BreakEven:           round2(breakEven),
		Width:               width,
		UnderlyingPrice:     round2(underlying),
		DistanceFromPrice:   round2(distance),
		ProbabilityOfProfit: pop,
		Timestamp:           time.Now(),
	}, nil
}
