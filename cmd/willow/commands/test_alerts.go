package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/willowtrade/willow/internal/alert"
)

// testAlertsCmd represents the test-alerts command
var testAlertsCmd = &cobra.Command{
	Use:   "test-alerts",
	Short: "Send a test message to the Slack webhook",
	Long: `Sends a short test message to the configured Slack webhook to
verify alert delivery before relying on scheduled runs.

Requires SLACK_WEBHOOK_URL to be set.

Example:
  go run ./cmd/willow test-alerts`,
	RunE: runTestAlerts,
}

func init() {
	rootCmd.AddCommand(testAlertsCmd)
}

func runTestAlerts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	alerter := alert.New(cfg.Alert, log)
	if err := alerter.TestConnection(ctx); err != nil {
		if errors.Is(err, alert.ErrNotConfigured) {
			return errors.New("SLACK_WEBHOOK_URL is not set")
		}
		return fmt.Errorf("slack test failed: %w", err)
	}

	fmt.Println("Slack test message delivered")
	return nil
}
