package spread

const (
	// strikeTolerance is the absolute band, in currency units, around the
	// exact target strike when matching a long leg. Chains rarely list
	// every integer strike.
	strikeTolerance = 1.0

	// minWidth is the smallest strike separation treated as a real spread.
	minWidth = 0.5

	// oiCeiling caps open interest in the liquidity score so very large
	// OI yields diminishing marginal benefit.
	oiCeiling = 10000
)

// Config holds the acceptance criteria for one screening pass. It is
// validated by the caller; the core does not re-check invariants such as
// delta band ordering.
type Config struct {
	// Short-leg delta band, 0 < Low < High < 1.
	DeltaLow  float64
	DeltaHigh float64

	// Liquidity floor for the short leg.
	MinOpenInterest int

	// Acceptance filter.
	MinCredit       float64
	MaxLoss         float64
	MinReturnOnRisk float64
	MaxReturnOnRisk float64
	MinDistancePct  float64

	// Candidate widths to try per short leg, in priority order.
	Widths []float64
}

// Weights is the relative scoring basis for the quality ranker. The four
// weights need not sum to 1.
type Weights struct {
	ROR          float64
	POP          float64
	Distance     float64
	OpenInterest float64
}

// DefaultWeights returns the standard quality-score weights. ROR is
// weighted highest because it directly measures trade efficiency.
func DefaultWeights() Weights {
	return Weights{
		ROR:          0.35,
		POP:          0.25,
		Distance:     0.25,
		OpenInterest: 0.15,
	}
}
