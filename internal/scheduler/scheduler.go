// Package scheduler runs the period-open sweep: on a cron cadence it makes
// sure every workspace has periods for the current year and materializes the
// recurring rules that are due in the current month's period. Generation is
// idempotent, so overlapping manual and scheduled runs are safe.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"clarity/internal/logger"
	"clarity/internal/services"
)

// Scheduler wraps the cron runner for the period-open job.
type Scheduler struct {
	cron             *cron.Cron
	workspaceService services.WorkspaceServicer
	periodService    services.PeriodServicer
	recurringService services.RecurringServicer
}

// New creates a Scheduler over the given services.
func New(workspaceService services.WorkspaceServicer, periodService services.PeriodServicer, recurringService services.RecurringServicer) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		workspaceService: workspaceService,
		periodService:    periodService,
		recurringService: recurringService,
	}
}

// Start registers the period-open job under the given cron spec and starts
// the runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runPeriodOpen); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runPeriodOpen sweeps every workspace. A failing workspace is logged and
// skipped so one bad tenant cannot stall the rest.
func (s *Scheduler) runPeriodOpen() {
	log := logger.Get()
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	workspaces, err := s.workspaceService.ListWorkspaces()
	if err != nil {
		log.Errorw("period-open sweep aborted", "error", err)
		return
	}

	log.Infow("period-open sweep started", "workspaces", len(workspaces), "year", year, "month", month)

	for _, workspace := range workspaces {
		if err := s.periodService.InitializeYear(workspace.ID, year); err != nil {
			log.Warnw("period-open: year initialization failed",
				"workspace_id", workspace.ID, "year", year, "error", err)
			continue
		}

		period, err := s.periodService.GetPeriodForMonth(workspace.ID, year, month)
		if err != nil {
			log.Warnw("period-open: period lookup failed",
				"workspace_id", workspace.ID, "year", year, "month", month, "error", err)
			continue
		}

		// Scheduled runs have no acting user.
		count, err := s.recurringService.Generate("", workspace.ID, period.ID)
		if err != nil {
			log.Warnw("period-open: generation failed",
				"workspace_id", workspace.ID, "period_id", period.ID, "error", err)
			continue
		}
		if count > 0 {
			log.Infow("period-open: entries generated",
				"workspace_id", workspace.ID, "period_id", period.ID, "count", count)
		}
	}
}
