package spread

import (
	"github.com/willowtrade/willow/internal/chain"
)

// Screen produces valid spreads for both directions of one chain
// snapshot: bull puts from the put side, bear calls from the call side.
func Screen(snap *chain.Snapshot, cfg Config) []Spread {
	bullPuts := ScreenDirection(snap, BullPut, cfg)
	bearCalls := ScreenDirection(snap, BearCall, cfg)
	return append(bullPuts, bearCalls...)
}

// ScreenDirection produces the valid spreads for one direction of one
// expiration's chain.
//
// The pass restricts the side to out-of-the-money strikes, requires
// delta to be present somewhere on the side (POP is mandatory), selects
// short-leg candidates by delta band and open interest, and then tries
// every configured width per short leg. A single short leg may yield
// several accepted spreads across different widths; those are distinct
// trades. A failed candidate is skipped, never fatal.
func ScreenDirection(snap *chain.Snapshot, dir Direction, cfg Config) []Spread {
	side := snap.Puts
	if dir == BearCall {
		side = snap.Calls
	}
	if len(side) == 0 {
		return nil
	}

	otm := filterOTM(side, dir, snap.UnderlyingPrice)
	if len(otm) == 0 {
		return nil
	}

	// Delta is required to compute POP; a side with no delta at all
	// yields no spreads.
	if !hasAnyDelta(otm) {
		return nil
	}

	shorts := selectShortCandidates(otm, cfg)
	if len(shorts) == 0 {
		return nil
	}

	var spreads []Spread
	for _, short := range shorts {
		for _, width := range cfg.Widths {
			longs := MatchLongLeg(side, short.Strike, width, dir)
			if len(longs) == 0 {
				continue
			}

			s, err := Build(snap.Symbol, dir, short, longs[0], snap.UnderlyingPrice, snap.Expiration, snap.DTE)
			if err != nil {
				continue
			}

			if accept(s, cfg) {
				spreads = append(spreads, s)
			}
		}
	}

	return spreads
}

// filterOTM keeps strikes out-of-the-money relative to the underlying:
// puts below it, calls above it.
func filterOTM(side []chain.Contract, dir Direction, underlying float64) []chain.Contract {
	otm := make([]chain.Contract, 0, len(side))
	for _, c := range side {
		if dir == BullPut && c.Strike < underlying {
			otm = append(otm, c)
		}
		if dir == BearCall && c.Strike > underlying {
			otm = append(otm, c)
		}
	}
	return otm
}

// selectShortCandidates keeps contracts whose |delta| sits inside the
// target band and whose open interest clears the liquidity floor.
func selectShortCandidates(side []chain.Contract, cfg Config) []chain.Contract {
	candidates := make([]chain.Contract, 0, len(side))
	for _, c := range side {
		if !c.HasDelta() {
			continue
		}
		delta := c.AbsDelta()
		if delta < cfg.DeltaLow || delta > cfg.DeltaHigh {
			continue
		}
		if c.OpenInterest < cfg.MinOpenInterest {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// accept applies the acceptance filter; all conditions must hold.
func accept(s Spread, cfg Config) bool {
	return s.NetCredit >= cfg.MinCredit &&
		s.MaxLoss <= cfg.MaxLoss &&
		s.ReturnOnRisk >= cfg.MinReturnOnRisk &&
		s.ReturnOnRisk <= cfg.MaxReturnOnRisk &&
		s.DistancePct() >= cfg.MinDistancePct
}

func hasAnyDelta(contracts []chain.Contract) bool {
	for _, c := range contracts {
		if c.HasDelta() {
			return true
		}
	}
	return false
}
