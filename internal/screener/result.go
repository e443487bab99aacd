package screener

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/willowtrade/willow/internal/spread"
)

// Result is the outcome of one screening run: the ranked, deduplicated
// candidate list plus run bookkeeping. Consumers treat it as read-only.
type Result struct {
	Timestamp         time.Time       `json:"timestamp"`
	Spreads           []spread.Spread `json:"spreads"`
	SymbolsScreened   int             `json:"symbols_screened"`
	SymbolsWithErrors []string        `json:"symbols_with_errors,omitempty"`
}

// TotalSpreads is the number of accepted spreads.
func (r *Result) TotalSpreads() int {
	return len(r.Spreads)
}

// BullPutCount counts bull put spreads.
func (r *Result) BullPutCount() int {
	return r.countDirection(spread.BullPut)
}

// BearCallCount counts bear call spreads.
func (r *Result) BearCallCount() int {
	return r.countDirection(spread.BearCall)
}

func (r *Result) countDirection(dir spread.Direction) int {
	n := 0
	for _, s := range r.Spreads {
		if s.Direction == dir {
			n++
		}
	}
	return n
}

// AvgReturnOnRisk is the mean ROR across all spreads, 0 when empty.
func (r *Result) AvgReturnOnRisk() float64 {
	if len(r.Spreads) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range r.Spreads {
		sum += s.ReturnOnRisk
	}
	return sum / float64(len(r.Spreads))
}

// FilterByROR returns the spreads whose return on risk exceeds the
// threshold, preserving rank order.
func (r *Result) FilterByROR(threshold float64) []spread.Spread {
	var out []spread.Spread
	for _, s := range r.Spreads {
		if s.ReturnOnRisk > threshold {
			out = append(out, s)
		}
	}
	return out
}

// WriteTable renders the top maxRows spreads as a console table.
func (r *Result) WriteTable(w io.Writer, maxRows int) {
	if len(r.Spreads) == 0 {
		fmt.Fprintln(w, "No spreads found matching criteria.")
		return
	}

	rule := strings.Repeat("=", 112)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-8s %-11s %-12s %-9s %-7s %-10s %-5s %-7s %-10s\n",
		"Symbol", "Type", "Strikes", "Credit", "ROR %", "Max Loss", "DTE", "Dist %", "BreakEven")
	fmt.Fprintln(w, rule)

	rows := r.Spreads
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	for _, s := range rows {
		fmt.Fprintf(w, "%-8s %-11s $%.0f/$%-5.0f $%-8.2f %-7.1f $%-9.2f %-5d %-7.1f $%-9.2f\n",
			s.Symbol,
			s.Direction.Title(),
			s.ShortLeg.Strike, s.LongLeg.Strike,
			s.NetCredit,
			s.ReturnOnRisk,
			s.MaxLoss,
			s.DaysToExpiration,
			s.DistancePct(),
			s.BreakEven,
		)
	}
	fmt.Fprintln(w, rule)

	if len(r.Spreads) > len(rows) {
		fmt.Fprintf(w, "... and %d more spreads\n", len(r.Spreads)-len(rows))
	}
}
