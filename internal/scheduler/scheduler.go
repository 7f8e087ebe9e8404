// Package scheduler triggers report generation and retention on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Jobs is the work triggered by the scheduler.
type Jobs interface {
	GenerateWeeklyReports(ctx context.Context, now time.Time) (entities.BatchResult, error)
	RunCleanup(ctx context.Context) (entities.CleanupResult, error)
}

// Scheduler owns a cron runner with one entry per job. Ticks of the same job never overlap.
type Scheduler struct {
	log  *zap.SugaredLogger
	cron *cron.Cron
	jobs Jobs
	ctx  context.Context
	now  func() time.Time
}

// New registers the report and cleanup entries using standard five-field expressions.
func New(log *zap.SugaredLogger, cfg config.SchedulerConfig, jobs Jobs) (*Scheduler, error) {
	log = log.Named("scheduler")
	cl := cronLogger{log: log}
	s := &Scheduler{
		log:  log,
		jobs: jobs,
		ctx:  context.Background(),
		now:  time.Now,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}

	if _, err := s.cron.AddFunc(cfg.ReportSchedule, s.runReports); err != nil {
		return nil, fmt.Errorf("report schedule %q: %w", cfg.ReportSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.CleanupSchedule, s.runCleanup); err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", cfg.CleanupSchedule, err)
	}
	return s, nil
}

// Run starts the cron runner and blocks until ctx is done and running jobs have returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Infow("job scheduled", "entry", e.ID, "next", e.Next)
	}

	<-ctx.Done()
	s.log.Infow("stopping scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) runReports() {
	res, err := s.jobs.GenerateWeeklyReports(s.ctx, s.now())
	if err != nil {
		s.log.Errorw("weekly report job failed", "error", err)
		return
	}
	s.log.Infow("weekly report job done", "organizations", res.Organizations, "failed", res.Failed)
}

func (s *Scheduler) runCleanup() {
	res, err := s.jobs.RunCleanup(s.ctx)
	if err != nil {
		s.log.Errorw("cleanup job failed", "error", err)
		return
	}
	s.log.Infow("cleanup job done",
		"pull_requests", res.PullRequests,
		"reports", res.Reports,
		"orphaned_pull_requests", res.OrphanedPullRequests,
		"orphaned_reports", res.OrphanedReports,
	)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

var _ cron.Logger = cronLogger{}
