package chain

import "math"

// Contract is one option instance on a chain, already coerced to typed
// fields at the acquisition boundary. Optional fields (delta, implied
// volatility) are nil when the data source did not supply them, never
// silently zero.
type Contract struct {
	ContractSymbol    string   `json:"contract_symbol,omitempty"`
	Strike            float64  `json:"strike"`
	Bid               float64  `json:"bid"`
	Ask               float64  `json:"ask"`
	Delta             *float64 `json:"delta,omitempty"`
	ImpliedVolatility *float64 `json:"implied_volatility,omitempty"`
	OpenInterest      int      `json:"open_interest"`
	Volume            int      `json:"volume"`
}

// Mid returns the midpoint premium, (bid+ask)/2.
func (c Contract) Mid() float64 {
	return (c.Bid + c.Ask) / 2
}

// SpreadPct returns the bid-ask spread as a percentage of the midpoint.
func (c Contract) SpreadPct() float64 {
	mid := c.Mid()
	if mid == 0 {
		return 0
	}
	return (c.Ask - c.Bid) / mid * 100
}

// HasDelta reports whether the contract carries a delta value.
func (c Contract) HasDelta() bool {
	return c.Delta != nil
}

// AbsDelta returns |delta|, or 0 when delta is absent.
func (c Contract) AbsDelta() float64 {
	if c.Delta == nil {
		return 0
	}
	return math.Abs(*c.Delta)
}

// normalizeDelta replaces a market-signed delta with its absolute value.
// Puts quote negative delta; everything downstream reasons in magnitude.
func (c *Contract) normalizeDelta() {
	if c.Delta == nil {
		return
	}
	abs := math.Abs(*c.Delta)
	c.Delta = &abs
}

// Float returns a pointer to v. Convenience for building contracts.
func Float(v float64) *float64 {
	return &v
}
