package chain

import (
	"sort"
	"time"
)

// DateLayout is the canonical expiration date format.
const DateLayout = "2006-01-02"

// Snapshot is one normalized options chain for a (symbol, expiration)
// pair. It is read-only for the duration of a screening pass.
type Snapshot struct {
	Symbol          string     `json:"symbol"`
	UnderlyingPrice float64    `json:"underlying_price"`
	Expiration      time.Time  `json:"expiration"`
	DTE             int        `json:"dte"`
	Calls           []Contract `json:"calls"`
	Puts            []Contract `json:"puts"`
}

// Empty reports whether the snapshot carries no contracts at all.
func (s *Snapshot) Empty() bool {
	return len(s.Calls) == 0 && len(s.Puts) == 0
}

// Normalize prepares a raw snapshot for screening: contracts are sorted
// by strike, deltas are folded to absolute values, and when a chain side
// carries no delta at all the Black-Scholes estimate is filled in from
// implied volatility. Sides where any delta was supplied by the source
// are trusted as-is.
func (s *Snapshot) Normalize(riskFreeRate float64) {
	sortByStrike(s.Calls)
	sortByStrike(s.Puts)

	for i := range s.Calls {
		s.Calls[i].normalizeDelta()
	}
	for i := range s.Puts {
		s.Puts[i].normalizeDelta()
	}

	timeToExpiry := float64(s.DTE) / 365.0

	if !sideHasDelta(s.Calls) {
		s.estimateDeltas(s.Calls, Call, timeToExpiry, riskFreeRate)
	}
	if !sideHasDelta(s.Puts) {
		s.estimateDeltas(s.Puts, Put, timeToExpiry, riskFreeRate)
	}
}

// estimateDeltas fills missing deltas from implied volatility. Contracts
// without usable volatility stay delta-less.
func (s *Snapshot) estimateDeltas(contracts []Contract, class Class, timeToExpiry, riskFreeRate float64) {
	for i := range contracts {
		c := &contracts[i]
		if c.ImpliedVolatility == nil || *c.ImpliedVolatility <= 0 || c.Strike <= 0 || s.UnderlyingPrice <= 0 {
			continue
		}

		delta := BSDelta(s.UnderlyingPrice, c.Strike, timeToExpiry, *c.ImpliedVolatility, riskFreeRate, class)
		c.Delta = Float(delta)
		c.normalizeDelta()
	}
}

// sideHasDelta reports whether any contract on a side carries delta.
func sideHasDelta(contracts []Contract) bool {
	for _, c := range contracts {
		if c.HasDelta() {
			return true
		}
	}
	return false
}

func sortByStrike(contracts []Contract) {
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Strike < contracts[j].Strike
	})
}
