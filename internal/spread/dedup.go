package spread

import "github.com/willowtrade/willow/internal/chain"

// dedupeKey identifies a trade regardless of which configured width
// produced it.
type dedupeKey struct {
	symbol      string
	direction   Direction
	shortStrike float64
	longStrike  float64
	expiration  string
}

// Dedupe collapses spreads sharing the same (symbol, direction, short
// strike, long strike, expiration), keeping the instance with the higher
// return on risk. Two configured widths can resolve via tolerance to the
// same actual strike pair; only one of those is a real trade.
//
// Output order is unspecified; callers re-rank afterwards.
func Dedupe(spreads []Spread) []Spread {
	seen := make(map[dedupeKey]Spread, len(spreads))
	order := make([]dedupeKey, 0, len(spreads))

	for _, s := range spreads {
		key := dedupeKey{
			symbol:      s.Symbol,
			direction:   s.Direction,
			shortStrike: s.ShortLeg.Strike,
			longStrike:  s.LongLeg.Strike,
			expiration:  s.Expiration.Format(chain.DateLayout),
		}

		existing, ok := seen[key]
		if !ok {
			seen[key] = s
			order = append(order, key)
			continue
		}
		if s.ReturnOnRisk > existing.ReturnOnRisk {
			seen[key] = s
		}
	}

	result := make([]Spread, 0, len(seen))
	for _, key := range order {
		result = append(result, seen[key])
	}
	return result
}
