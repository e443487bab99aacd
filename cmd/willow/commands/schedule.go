package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/willowtrade/willow/internal/pipeline"
	"github.com/willowtrade/willow/internal/scheduler"
	"github.com/willowtrade/willow/internal/scheduler/jobs"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the screening scheduler daemon",
	Long: `Starts a long-running daemon that executes the full screening
pipeline on the configured cron schedule (SCREENER_SCHEDULE, default
weekday mornings shortly after the US market open).

Each scheduled run saves JSON and CSV results, renders the dashboard
and sends a Slack alert when qualifying spreads are found.

Example:
  go run ./cmd/willow schedule
  SCREENER_SCHEDULE="0 0 */4 * * *" go run ./cmd/willow schedule`,
	RunE: runSchedule,
}

var scheduleRunNow bool

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run one screening pass immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := newLogger(cfg)
	log.WithFields(map[string]interface{}{
		"schedule": cfg.ScheduleSpec,
	}).Info("Initializing scheduler")

	// 3. Create pipeline and job
	p := newPipeline(cfg, log)
	opts := pipeline.Options{
		SaveCSV:   true,
		Dashboard: true,
		Alert:     true,
	}
	job := jobs.NewScreenJob(p, opts, cfg.ScheduleSpec, log)

	// 4. Register and start
	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	fmt.Printf("Scheduler running (schedule: %s)\n", cfg.ScheduleSpec)
	fmt.Println("Press Ctrl+C to stop")

	if scheduleRunNow {
		if err := sched.RunJob(job.Name()); err != nil {
			log.WithError(err).Error("Initial screening run failed")
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	return nil
}
