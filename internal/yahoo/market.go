package yahoo

import (
	"context"
	"fmt"
)

// VIX classification thresholds.
const (
	vixLow      = 15.0
	vixNormal   = 20.0
	vixElevated = 30.0
)

// quietChangePct is the SPY move below which the day counts as flat.
const quietChangePct = 0.5

// MarketContext is a best-effort snapshot of broad market conditions,
// used to annotate alerts. Fields are zero when the lookup failed.
type MarketContext struct {
	VIX          float64
	VIXStatus    string
	SPYPrice     float64
	SPYChangePct float64
}

// SPYTrend renders the day's SPY move as a short label.
func (m MarketContext) SPYTrend() string {
	switch {
	case m.SPYChangePct > quietChangePct:
		return fmt.Sprintf("up +%.2f%%", m.SPYChangePct)
	case m.SPYChangePct < -quietChangePct:
		return fmt.Sprintf("down %.2f%%", m.SPYChangePct)
	default:
		return fmt.Sprintf("flat %+.2f%%", m.SPYChangePct)
	}
}

// GetMarketContext fetches VIX and SPY quotes. Lookup failures leave the
// corresponding fields zero; alerts render what they get.
func (c *Client) GetMarketContext(ctx context.Context) MarketContext {
	var mc MarketContext

	if vix, err := c.GetQuote(ctx, "^VIX"); err == nil {
		mc.VIX = vix.Price
		mc.VIXStatus = classifyVIX(vix.Price)
	} else {
		c.logger.WithError(err).Debug("VIX quote failed")
	}

	if spy, err := c.GetQuote(ctx, "SPY"); err == nil {
		mc.SPYPrice = spy.Price
		mc.SPYChangePct = spy.ChangePct()
	} else {
		c.logger.WithError(err).Debug("SPY quote failed")
	}

	return mc
}

func classifyVIX(level float64) string {
	switch {
	case level < vixLow:
		return "Low"
	case level < vixNormal:
		return "Normal"
	case level < vixElevated:
		return "Elevated"
	default:
		return "High"
	}
}
