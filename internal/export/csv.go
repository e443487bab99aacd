// Package export persists screening results to CSV, Excel and JSON
// files under the results directory.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/screener"
)

// fileStamp is the timestamp prefix on result filenames.
const fileStamp = "20060102_150405"

var csvHeader = []string{
	"timestamp", "ticker", "spread_type", "expiration", "days_to_expiration",
	"short_strike", "long_strike", "net_credit", "max_loss", "max_profit",
	"return_on_risk", "annualized_return", "probability_of_profit", "break_even",
	"width", "current_stock_price", "distance_from_price", "distance_from_price_pct",
	"short_premium", "short_oi", "long_premium", "long_oi",
}

// WriteCSV writes the result's spreads as CSV rows.
func WriteCSV(w io.Writer, result *screener.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range result.Spreads {
		row := []string{
			result.Timestamp.Format(time.RFC3339),
			s.Symbol,
			string(s.Direction),
			s.Expiration.Format(chain.DateLayout),
			strconv.Itoa(s.DaysToExpiration),
			formatFloat(s.ShortLeg.Strike),
			formatFloat(s.LongLeg.Strike),
			formatFloat(s.NetCredit),
			formatFloat(s.MaxLoss),
			formatFloat(s.MaxProfit),
			formatFloat(s.ReturnOnRisk),
			formatFloat(s.AnnualizedReturn()),
			formatFloat(s.ProbabilityOfProfit),
			formatFloat(s.BreakEven),
			formatFloat(s.Width),
			formatFloat(s.UnderlyingPrice),
			formatFloat(s.DistanceFromPrice),
			formatFloat(round2(s.DistancePct())),
			formatFloat(s.ShortLeg.Mid()),
			strconv.Itoa(s.ShortLeg.OpenInterest),
			formatFloat(s.LongLeg.Mid()),
			strconv.Itoa(s.LongLeg.OpenInterest),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the result to a timestamped CSV file in dir. Returns
// the file path, or "" when the result holds no spreads.
func SaveCSV(dir string, result *screener.Result) (string, error) {
	if result.TotalSpreads() == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	path := filepath.Join(dir, result.Timestamp.Format(fileStamp)+"_spreads.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, result); err != nil {
		return "", err
	}
	return path, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
