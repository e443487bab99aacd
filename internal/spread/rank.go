package spread

import (
	"math"
	"sort"
)

// QualityScore combines four normalized components under the configured
// weights: return on risk, probability of profit, distance from price,
// and a liquidity score from short-leg open interest. Open interest is
// capped at 10,000 contracts and square-root compressed.
func QualityScore(s Spread, w Weights) float64 {
	rorScore := s.ReturnOnRisk / 100
	popScore := s.ProbabilityOfProfit / 100
	distScore := s.DistancePct() / 100

	oi := s.ShortLeg.OpenInterest
	if oi > oiCeiling {
		oi = oiCeiling
	}
	oiScore := math.Sqrt(float64(oi) / oiCeiling)

	return rorScore*w.ROR + popScore*w.POP + distScore*w.Distance + oiScore*w.OpenInterest
}

// Rank returns the spreads sorted by descending quality score. It is a
// pure function: the input slice is never mutated, ties keep their
// relative order, and an empty input yields an empty output.
func Rank(spreads []Spread, w Weights) []Spread {
	ranked := make([]Spread, len(spreads))
	copy(ranked, spreads)

	sort.SliceStable(ranked, func(i, j int) bool {
		return QualityScore(ranked[i], w) > QualityScore(ranked[j], w)
	})

	return ranked
}
