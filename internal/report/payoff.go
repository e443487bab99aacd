package report

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/willowtrade/willow/internal/spread"
)

// payoffSteps is the number of price points sampled for the diagram.
const payoffSteps = 100

// PayoffAt returns the spread's profit or loss per contract when the
// underlying settles at price on expiration day.
func PayoffAt(s spread.Spread, price float64) float64 {
	short := s.ShortLeg.Strike
	long := s.LongLeg.Strike

	switch s.Direction {
	case spread.BullPut:
		switch {
		case price >= short:
			return s.NetCredit * spread.ContractMultiplier
		case price <= long:
			return -s.MaxLoss
		default:
			return (s.NetCredit - (short - price)) * spread.ContractMultiplier
		}
	case spread.BearCall:
		switch {
		case price <= short:
			return s.NetCredit * spread.ContractMultiplier
		case price >= long:
			return -s.MaxLoss
		default:
			return (s.NetCredit - (price - short)) * spread.ContractMultiplier
		}
	}
	return 0
}

// payoffRange returns the price window the diagram covers, 10% beyond
// each strike.
func payoffRange(s spread.Spread) (float64, float64) {
	if s.Direction == spread.BullPut {
		return s.LongLeg.Strike * 0.9, s.ShortLeg.Strike * 1.1
	}
	return s.ShortLeg.Strike * 0.9, s.LongLeg.Strike * 1.1
}

// payoffChart renders the expiration P&L curve for one spread with the
// break-even marked.
func payoffChart(s spread.Spread) *charts.Line {
	minPrice, maxPrice := payoffRange(s)
	step := (maxPrice - minPrice) / payoffSteps

	labels := make([]string, 0, payoffSteps+1)
	data := make([]opts.LineData, 0, payoffSteps+1)
	for i := 0; i <= payoffSteps; i++ {
		price := minPrice + float64(i)*step
		labels = append(labels, fmt.Sprintf("%.2f", price))
		data = append(data, opts.LineData{Value: PayoffAt(s, price)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s - Payoff at Expiration", s.Symbol, s.Direction.Title()),
			Subtitle: fmt.Sprintf("Max Profit: $%.2f | Max Loss: $%.2f | Break-Even: $%.2f", s.MaxProfit, s.MaxLoss, s.BreakEven),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Price at Expiration ($)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "P&L ($)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	line.SetXAxis(labels).AddSeries("P&L", data, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.2}))
	return line
}
