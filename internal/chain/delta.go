package chain

import "math"

// DefaultRiskFreeRate approximates the current short-term US Treasury rate.
const DefaultRiskFreeRate = 0.045

// Class identifies the option class of one side of a chain.
type Class string

const (
	Call Class = "call"
	Put  Class = "put"
)

// BSDelta estimates option delta with the Black-Scholes model.
//
// Returns a value in [0, 1] for calls and [-1, 0] for puts. Degenerate
// inputs (non-positive time to expiry, volatility, price or strike) yield
// exactly 0: the contract is unscoreable, not an error.
func BSDelta(price, strike, timeToExpiry, volatility, riskFreeRate float64, class Class) float64 {
	if timeToExpiry <= 0 || volatility <= 0 || price <= 0 || strike <= 0 {
		return 0
	}

	d1 := (math.Log(price/strike) + (riskFreeRate+0.5*volatility*volatility)*timeToExpiry) /
		(volatility * math.Sqrt(timeToExpiry))

	if math.IsNaN(d1) || math.IsInf(d1, 0) {
		return 0
	}

	if class == Call {
		return normCDF(d1)
	}
	return normCDF(d1) - 1
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
