package spread

import (
	"sort"

	"github.com/willowtrade/willow/internal/chain"
)

// MatchLongLeg finds long-leg candidates for a short strike and target
// width. Candidates sit within a fixed $1 tolerance band of the exact
// target strike, on the correct side of the short strike: below it for a
// bull put, above it for a bear call.
//
// Candidates are ordered so the strike nearest the short leg inside the
// band comes first (descending for puts, ascending for calls); the
// builder consumes only the first. An empty result means no match at
// this width.
func MatchLongLeg(side []chain.Contract, shortStrike, targetWidth float64, dir Direction) []chain.Contract {
	var candidates []chain.Contract

	if dir == BullPut {
		target := shortStrike - targetWidth
		for _, c := range side {
			if c.Strike >= target-strikeTolerance && c.Strike <= target+strikeTolerance && c.Strike < shortStrike {
				candidates = append(candidates, c)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Strike > candidates[j].Strike
		})
	} else {
		target := shortStrike + targetWidth
		for _, c := range side {
			if c.Strike >= target-strikeTolerance && c.Strike <= target+strikeTolerance && c.Strike > shortStrike {
				candidates = append(candidates, c)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Strike < candidates[j].Strike
		})
	}

	return candidates
}
