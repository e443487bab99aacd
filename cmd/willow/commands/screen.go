package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/willowtrade/willow/internal/pipeline"
	"github.com/willowtrade/willow/pkg/config"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run one screening pass over the watchlist",
	Long: `Runs a full screening pass: fetches options chains for every
watchlist symbol, screens both spread directions against the configured
filters, ranks the survivors and prints the top candidates.

Flags override the corresponding environment configuration for this run
only.

Example:
  go run ./cmd/willow screen
  go run ./cmd/willow screen --symbols SPY,QQQ,IWM --min-ror 25
  go run ./cmd/willow screen --widths 1,2,5 --excel --dashboard --alert`,
	RunE: runScreen,
}

var (
	screenSymbols   []string
	screenMinROR    float64
	screenMaxROR    float64
	screenMinDTE    int
	screenMaxDTE    int
	screenMinCredit float64
	screenMaxLoss   float64
	screenWidths    []float64
	screenMinOI     int
	screenCSV       bool
	screenExcel     bool
	screenDashboard bool
	screenAlert     bool
	screenQuiet     bool
	screenTopRows   int
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringSliceVar(&screenSymbols, "symbols", nil, "symbols to screen (default from config)")
	screenCmd.Flags().Float64Var(&screenMinROR, "min-ror", 0, "minimum return on risk %")
	screenCmd.Flags().Float64Var(&screenMaxROR, "max-ror", 0, "maximum return on risk %")
	screenCmd.Flags().IntVar(&screenMinDTE, "min-dte", 0, "minimum days to expiration")
	screenCmd.Flags().IntVar(&screenMaxDTE, "max-dte", 0, "maximum days to expiration")
	screenCmd.Flags().Float64Var(&screenMinCredit, "min-credit", 0, "minimum net credit $")
	screenCmd.Flags().Float64Var(&screenMaxLoss, "max-loss", 0, "maximum loss per spread $")
	screenCmd.Flags().Float64SliceVar(&screenWidths, "widths", nil, "spread widths to try")
	screenCmd.Flags().IntVar(&screenMinOI, "min-oi", 0, "minimum open interest on both legs")
	screenCmd.Flags().BoolVar(&screenCSV, "export", false, "save results as CSV")
	screenCmd.Flags().BoolVar(&screenExcel, "excel", false, "save results as a formatted Excel workbook")
	screenCmd.Flags().BoolVar(&screenDashboard, "dashboard", false, "render the HTML dashboard")
	screenCmd.Flags().BoolVar(&screenAlert, "alert", false, "send a Slack alert for high-quality spreads")
	screenCmd.Flags().BoolVar(&screenQuiet, "quiet", false, "suppress the console table")
	screenCmd.Flags().IntVar(&screenTopRows, "top", 10, "rows to show in the console table")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyScreenOverrides(cmd, cfg)

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !screenQuiet {
		fmt.Printf("Screening %d symbols (ROR >= %.0f%%, DTE %d-%d, credit >= $%.2f)...\n\n",
			len(cfg.Screener.Symbols), cfg.Screener.MinReturnOnRisk,
			cfg.Screener.MinDTE, cfg.Screener.MaxDTE, cfg.Screener.MinCredit)
	}

	p := newPipeline(cfg, log)
	outcome, err := p.Execute(ctx, pipeline.Options{
		SaveCSV:   screenCSV,
		SaveExcel: screenExcel,
		Dashboard: screenDashboard,
		Alert:     screenAlert,
	})
	if err != nil {
		return err
	}

	result := outcome.Result
	if !screenQuiet {
		result.WriteTable(os.Stdout, screenTopRows)
		fmt.Println()

		if len(result.SymbolsWithErrors) > 0 {
			fmt.Printf("Symbols with errors: %s\n", strings.Join(result.SymbolsWithErrors, ", "))
		}
		fmt.Printf("Results saved to %s\n", outcome.JSONPath)
		if outcome.CSVPath != "" {
			fmt.Printf("CSV: %s\n", outcome.CSVPath)
		}
		if outcome.ExcelPath != "" {
			fmt.Printf("Excel: %s\n", outcome.ExcelPath)
		}
		if outcome.DashboardPath != "" {
			fmt.Printf("Dashboard: %s\n", outcome.DashboardPath)
		}
		if outcome.AlertSent {
			fmt.Println("Slack alert sent")
		}
	}

	return nil
}

// applyScreenOverrides copies any explicitly set flag over the loaded
// configuration.
func applyScreenOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("symbols") {
		symbols := make([]string, 0, len(screenSymbols))
		for _, s := range screenSymbols {
			symbols = append(symbols, strings.ToUpper(strings.TrimSpace(s)))
		}
		cfg.Screener.Symbols = symbols
	}
	if flags.Changed("min-ror") {
		cfg.Screener.MinReturnOnRisk = screenMinROR
	}
	if flags.Changed("max-ror") {
		cfg.Screener.MaxReturnOnRisk = screenMaxROR
	}
	if flags.Changed("min-dte") {
		cfg.Screener.MinDTE = screenMinDTE
	}
	if flags.Changed("max-dte") {
		cfg.Screener.MaxDTE = screenMaxDTE
	}
	if flags.Changed("min-credit") {
		cfg.Screener.MinCredit = screenMinCredit
	}
	if flags.Changed("max-loss") {
		cfg.Screener.MaxLoss = screenMaxLoss
	}
	if flags.Changed("widths") {
		cfg.Screener.SpreadWidths = screenWidths
	}
	if flags.Changed("min-oi") {
		cfg.Screener.MinOpenInterest = screenMinOI
	}
}
