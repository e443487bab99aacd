package alert

import (
	"fmt"
	"strings"

	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/spread"
	"github.com/willowtrade/willow/internal/yahoo"
)

// spreadsPerSection caps how many spreads each direction section shows.
const spreadsPerSection = 3

// ROR levels that pick the marker emoji on a spread line.
const (
	rorStrong = 35.0
	rorGood   = 28.0
)

// block is one Slack Block Kit element. Only the shapes this package
// emits are modeled.
type block struct {
	Type     string  `json:"type"`
	Text     *text   `json:"text,omitempty"`
	Elements []text  `json:"elements,omitempty"`
}

type text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

func header(s string) block {
	return block{Type: "header", Text: &text{Type: "plain_text", Text: s, Emoji: true}}
}

func section(markdown string) block {
	return block{Type: "section", Text: &text{Type: "mrkdwn", Text: markdown}}
}

func contextLine(markdown string) block {
	return block{Type: "context", Elements: []text{{Type: "mrkdwn", Text: markdown}}}
}

func divider() block {
	return block{Type: "divider"}
}

// buildBlocks assembles the full alert message: header, market context,
// summary stats and the top spreads per direction.
func buildBlocks(result *screener.Result, market yahoo.MarketContext, dashboardPath string) []block {
	blocks := []block{
		header(fmt.Sprintf(":bar_chart: %d Credit Spreads Found", result.TotalSpreads())),
		contextLine(marketLine(result, market)),
		section(summaryLine(result)),
	}

	bullPuts := byDirection(result.Spreads, spread.BullPut)
	bearCalls := byDirection(result.Spreads, spread.BearCall)

	if len(bullPuts) > 0 {
		blocks = append(blocks, divider(),
			section(fmt.Sprintf("*:ox: Top Bull Puts (%d total)*", len(bullPuts))))
		blocks = append(blocks, spreadBlocks(bullPuts)...)
	}
	if len(bearCalls) > 0 {
		blocks = append(blocks, divider(),
			section(fmt.Sprintf("*:bear: Top Bear Calls (%d total)*", len(bearCalls))))
		blocks = append(blocks, spreadBlocks(bearCalls)...)
	}

	if dashboardPath != "" {
		blocks = append(blocks, divider(),
			contextLine(fmt.Sprintf(":file_folder: Results saved to: `%s`", dashboardPath)))
	}
	return blocks
}

func marketLine(result *screener.Result, market yahoo.MarketContext) string {
	parts := []string{fmt.Sprintf("*%s*", result.Timestamp.Format("Jan 02, 3:04 PM"))}
	if market.SPYPrice > 0 {
		parts = append(parts, fmt.Sprintf("SPY: $%.2f %s", market.SPYPrice, market.SPYTrend()))
	}
	if market.VIX > 0 {
		parts = append(parts, fmt.Sprintf("VIX: %.1f (%s)", market.VIX, market.VIXStatus))
	}
	return strings.Join(parts, " | ")
}

func summaryLine(result *screener.Result) string {
	var avgPOP, avgAnn float64
	if n := result.TotalSpreads(); n > 0 {
		for _, s := range result.Spreads {
			avgPOP += s.ProbabilityOfProfit
			avgAnn += s.AnnualizedReturn()
		}
		avgPOP /= float64(n)
		avgAnn /= float64(n)
	}

	tickers := map[string]struct{}{}
	for _, s := range result.Spreads {
		tickers[s.Symbol] = struct{}{}
	}

	return fmt.Sprintf(
		":chart_with_upwards_trend: *Avg ROR:* %.1f%%  |  :dart: *Avg POP:* %.0f%%  |  :calendar: *Avg Ann:* %.0f%%\n"+
			":ox: Bull Puts: %d  |  :bear: Bear Calls: %d  |  :label: Tickers: %d",
		result.AvgReturnOnRisk(), avgPOP, avgAnn,
		result.BullPutCount(), result.BearCallCount(), len(tickers),
	)
}

func spreadBlocks(spreads []spread.Spread) []block {
	n := len(spreads)
	if n > spreadsPerSection {
		n = spreadsPerSection
	}

	blocks := make([]block, 0, n)
	for i, s := range spreads[:n] {
		blocks = append(blocks, section(spreadLine(s, i+1)))
	}
	return blocks
}

func spreadLine(s spread.Spread, rank int) string {
	marker := ":large_blue_circle:"
	switch {
	case s.ReturnOnRisk >= rorStrong:
		marker = ":large_green_circle:"
	case s.ReturnOnRisk >= rorGood:
		marker = ":large_yellow_circle:"
	}

	return fmt.Sprintf(
		"%s *%d. %s* `$%.0f/$%.0f` ($%.0fw)\n"+
			"Credit: `$%.2f` -> ROR: *%.1f%%* | Ann: *%.0f%%* | POP: *%.0f%%*\n"+
			"DTE: %d | Dist: %.1f%% | Max Loss: $%.0f",
		marker, rank, s.Symbol, s.ShortLeg.Strike, s.LongLeg.Strike, s.Width,
		s.NetCredit, s.ReturnOnRisk, s.AnnualizedReturn(), s.ProbabilityOfProfit,
		s.DaysToExpiration, s.DistancePct(), s.MaxLoss,
	)
}

func byDirection(spreads []spread.Spread, dir spread.Direction) []spread.Spread {
	var out []spread.Spread
	for _, s := range spreads {
		if s.Direction == dir {
			out = append(out, s)
		}
	}
	return out
}
