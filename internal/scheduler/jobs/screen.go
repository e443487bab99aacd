// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/willowtrade/willow/internal/pipeline"
	"github.com/willowtrade/willow/pkg/logger"
)

// ScreenJob runs the full screening pipeline on a cron schedule.
type ScreenJob struct {
	pipeline *pipeline.Pipeline
	opts     pipeline.Options
	schedule string
	logger   *logger.Logger
}

// NewScreenJob creates a screen job. schedule is a cron expression with
// a seconds field, e.g. "0 30 9 * * MON-FRI".
func NewScreenJob(p *pipeline.Pipeline, opts pipeline.Options, schedule string, log *logger.Logger) *ScreenJob {
	return &ScreenJob{
		pipeline: p,
		opts:     opts,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "credit_spread_screen"
}

// Schedule returns the cron schedule
func (j *ScreenJob) Schedule() string {
	return j.schedule
}

// Run executes one screening pipeline cycle.
func (j *ScreenJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled screening run")

	outcome, err := j.pipeline.Execute(ctx, j.opts)
	if err != nil {
		return fmt.Errorf("scheduled screen: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"spreads":    outcome.Result.TotalSpreads(),
		"bull_puts":  outcome.Result.BullPutCount(),
		"bear_calls": outcome.Result.BearCallCount(),
		"alert_sent": outcome.AlertSent,
	}).Info("Scheduled screening run finished")

	return nil
}
