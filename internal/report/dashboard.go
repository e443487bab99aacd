// Package report renders screening results as interactive HTML
// dashboards.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/spread"
)

// fileStamp is the timestamp suffix on dashboard filenames.
const fileStamp = "20060102_150405"

// SaveDashboard renders the full dashboard page to a timestamped HTML
// file in dir and returns its path.
func SaveDashboard(dir string, result *screener.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dashboards dir: %w", err)
	}

	page := buildPage(result)

	path := filepath.Join(dir, "dashboard_"+result.Timestamp.Format(fileStamp)+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dashboard file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return path, nil
}

func buildPage(result *screener.Result) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = fmt.Sprintf("Credit Spread Analysis - %d Opportunities Found", result.TotalSpreads())

	page.AddCharts(
		rorScatter(result),
		avgReturnBar(result),
		dteHistogram(result),
		directionPie(result),
	)
	for _, s := range topSpreads(result, 5) {
		page.AddCharts(payoffChart(s))
	}
	return page
}

// rorScatter plots return on risk against max loss, one series per
// direction.
func rorScatter(result *screener.Result) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Return on Risk vs Max Loss"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Max Loss ($)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ROR (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	byDirection := map[spread.Direction][]opts.ScatterData{}
	for _, s := range result.Spreads {
		byDirection[s.Direction] = append(byDirection[s.Direction], opts.ScatterData{
			Name:  s.Summary(),
			Value: []interface{}{s.MaxLoss, s.ReturnOnRisk},
		})
	}

	for _, dir := range []spread.Direction{spread.BullPut, spread.BearCall} {
		if data, ok := byDirection[dir]; ok {
			scatter.AddSeries(dir.Title(), data)
		}
	}
	return scatter
}

// avgReturnBar shows the mean ROR per ticker, best first.
func avgReturnBar(result *screener.Result) *charts.Bar {
	type acc struct {
		sum   float64
		count int
	}
	perTicker := map[string]*acc{}
	for _, s := range result.Spreads {
		a, ok := perTicker[s.Symbol]
		if !ok {
			a = &acc{}
			perTicker[s.Symbol] = a
		}
		a.sum += s.ReturnOnRisk
		a.count++
	}

	tickers := make([]string, 0, len(perTicker))
	for t := range perTicker {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		ai, aj := perTicker[tickers[i]], perTicker[tickers[j]]
		return ai.sum/float64(ai.count) > aj.sum/float64(aj.count)
	})

	data := make([]opts.BarData, 0, len(tickers))
	for _, t := range tickers {
		a := perTicker[t]
		data = append(data, opts.BarData{Value: a.sum / float64(a.count)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Average Return by Ticker"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Avg ROR (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(tickers).AddSeries("Avg ROR", data)
	return bar
}

// dteHistogram buckets spreads into 7-day DTE bins.
func dteHistogram(result *screener.Result) *charts.Bar {
	const binWidth = 7

	counts := map[int]int{}
	for _, s := range result.Spreads {
		counts[s.DaysToExpiration/binWidth]++
	}

	bins := make([]int, 0, len(counts))
	for b := range counts {
		bins = append(bins, b)
	}
	sort.Ints(bins)

	labels := make([]string, 0, len(bins))
	data := make([]opts.BarData, 0, len(bins))
	for _, b := range bins {
		labels = append(labels, fmt.Sprintf("%d-%d", b*binWidth, (b+1)*binWidth-1))
		data = append(data, opts.BarData{Value: counts[b]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "DTE Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Days to Expiration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels).AddSeries("Spreads", data)
	return bar
}

// directionPie breaks the result down by spread direction.
func directionPie(result *screener.Result) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Spread Type Breakdown"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	data := []opts.PieData{
		{Name: spread.BullPut.Title(), Value: result.BullPutCount()},
		{Name: spread.BearCall.Title(), Value: result.BearCallCount()},
	}
	pie.AddSeries("Direction", data).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "65%"}}),
	)
	return pie
}

func topSpreads(result *screener.Result, n int) []spread.Spread {
	if len(result.Spreads) < n {
		n = len(result.Spreads)
	}
	return result.Spreads[:n]
}
