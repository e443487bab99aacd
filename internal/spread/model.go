package spread

import (
	"fmt"
	"math"
	"time"

	"github.com/willowtrade/willow/internal/chain"
)

// Direction is the market-outlook structure of a credit spread.
type Direction string

const (
	BullPut  Direction = "bull_put"
	BearCall Direction = "bear_call"
)

// Title returns the human-readable form, e.g. "Bull Put".
func (d Direction) Title() string {
	switch d {
	case BullPut:
		return "Bull Put"
	case BearCall:
		return "Bear Call"
	}
	return string(d)
}

// ContractMultiplier is the share count one option contract controls.
const ContractMultiplier = 100

// Spread is a fully computed credit-spread candidate. It is constructed
// once by Build and immutable thereafter.
type Spread struct {
	Symbol           string         `json:"symbol"`
	Direction        Direction      `json:"direction"`
	Expiration       time.Time      `json:"expiration"`
	DaysToExpiration int            `json:"days_to_expiration"`
	ShortLeg         chain.Contract `json:"short_leg"`
	LongLeg          chain.Contract `json:"long_leg"`

	NetCredit           float64 `json:"net_credit"`
	MaxLoss             float64 `json:"max_loss"`
	MaxProfit           float64 `json:"max_profit"`
	ReturnOnRisk        float64 `json:"return_on_risk"` // percentage
	BreakEven           float64 `json:"break_even"`
	Width               float64 `json:"width"`
	UnderlyingPrice     float64 `json:"underlying_price"`
	DistanceFromPrice   float64 `json:"distance_from_price"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"` // percentage

	Timestamp time.Time `json:"timestamp"`
}

// AnnualizedReturn extrapolates return on risk to a 365-day year.
func (s Spread) AnnualizedReturn() float64 {
	if s.DaysToExpiration == 0 {
		return 0
	}
	return round2(s.ReturnOnRisk * 365 / float64(s.DaysToExpiration))
}

// DistancePct is the short strike's distance from the underlying price
// as a percentage of that price.
func (s Spread) DistancePct() float64 {
	if s.UnderlyingPrice == 0 {
		return 0
	}
	return s.DistanceFromPrice / s.UnderlyingPrice * 100
}

// RiskReward is max loss over max profit; lower is better.
func (s Spread) RiskReward() float64 {
	if s.MaxProfit == 0 {
		return math.Inf(1)
	}
	return s.MaxLoss / s.MaxProfit
}

// Summary returns a one-line human-readable description.
func (s Spread) Summary() string {
	return fmt.Sprintf("%s %s: $%.0f/$%.0f Credit: $%.2f | ROR: %.1f%% | DTE: %d",
		s.Symbol, s.Direction.Title(),
		s.ShortLeg.Strike, s.LongLeg.Strike,
		s.NetCredit, s.ReturnOnRisk, s.DaysToExpiration)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
