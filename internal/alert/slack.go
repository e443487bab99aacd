// Package alert delivers screening results to Slack via an incoming
// webhook using Block Kit formatting.
package alert

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/willowtrade/willow/internal/screener"
	"github.com/willowtrade/willow/internal/yahoo"
	"github.com/willowtrade/willow/pkg/config"
	"github.com/willowtrade/willow/pkg/httputil"
	"github.com/willowtrade/willow/pkg/logger"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("slack not configured, set SLACK_WEBHOOK_URL")

// Alerter sends screening alerts to a Slack incoming webhook.
type Alerter struct {
	cfg        config.AlertConfig
	httpClient *httputil.Client
	logger     *logger.Logger
}

// New creates an Alerter.
func New(cfg config.AlertConfig, log *logger.Logger) *Alerter {
	return &Alerter{
		cfg:        cfg,
		httpClient: httputil.New(log).DisableRetry(),
		logger:     log.WithField("module", "alert"),
	}
}

// payload is the webhook request body.
type payload struct {
	Text   string  `json:"text,omitempty"`
	Blocks []block `json:"blocks,omitempty"`
}

// Send posts the result summary to Slack. market annotates the header
// with broad market conditions; dashboardPath, when non-empty, is
// mentioned in the footer.
func (a *Alerter) Send(ctx context.Context, result *screener.Result, market yahoo.MarketContext, dashboardPath string) error {
	if !a.cfg.SlackConfigured() {
		return ErrNotConfigured
	}

	blocks := buildBlocks(result, market, dashboardPath)
	if err := a.post(ctx, payload{Blocks: blocks}); err != nil {
		return err
	}

	a.logger.WithFields(map[string]interface{}{
		"spreads": result.TotalSpreads(),
		"blocks":  len(blocks),
	}).Info("Slack alert sent")
	return nil
}

// TestConnection posts a plain test message to verify the webhook.
func (a *Alerter) TestConnection(ctx context.Context) error {
	if !a.cfg.SlackConfigured() {
		return ErrNotConfigured
	}
	return a.post(ctx, payload{Text: "Test message from Willow options screener"})
}

func (a *Alerter) post(ctx context.Context, p payload) error {
	resp, err := a.httpClient.PostJSON(ctx, a.cfg.SlackWebhookURL, p)
	if err != nil {
		return fmt.Errorf("post slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
