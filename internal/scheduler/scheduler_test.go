package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type jobsStub struct {
	reports   atomic.Int32
	cleanups  atomic.Int32
	lastNow   atomic.Value
	reportErr error
}

func (j *jobsStub) GenerateWeeklyReports(_ context.Context, now time.Time) (entities.BatchResult, error) {
	j.reports.Add(1)
	j.lastNow.Store(now)
	return entities.BatchResult{}, j.reportErr
}

func (j *jobsStub) RunCleanup(_ context.Context) (entities.CleanupResult, error) {
	j.cleanups.Add(1)
	return entities.CleanupResult{}, nil
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New(zap.NewNop().Sugar(), config.SchedulerConfig{
		ReportSchedule:  "not a cron",
		CleanupSchedule: "0 2 * * *",
	}, &jobsStub{})
	require.Error(t, err)

	_, err = New(zap.NewNop().Sugar(), config.SchedulerConfig{
		ReportSchedule:  "0 1 * * 6",
		CleanupSchedule: "61 * * * *",
	}, &jobsStub{})
	require.Error(t, err)
}

func TestScheduler_RegistersBothJobs(t *testing.T) {
	s, err := New(zap.NewNop().Sugar(), config.SchedulerConfig{
		ReportSchedule:  "0 1 * * 6",
		CleanupSchedule: "0 2 * * *",
	}, &jobsStub{})
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 2)
}

func TestScheduler_JobsCallUsecases(t *testing.T) {
	jobs := &jobsStub{reportErr: errors.New("boom")}
	s, err := New(zap.NewNop().Sugar(), config.SchedulerConfig{
		ReportSchedule:  "0 1 * * 6",
		CleanupSchedule: "0 2 * * *",
	}, jobs)
	require.NoError(t, err)

	tick := time.Date(2024, 2, 10, 1, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return tick }

	s.runReports()
	s.runCleanup()

	require.Equal(t, int32(1), jobs.reports.Load())
	require.Equal(t, int32(1), jobs.cleanups.Load())
	require.Equal(t, tick, jobs.lastNow.Load())
}

func TestScheduler_RunFiresAndStops(t *testing.T) {
	jobs := &jobsStub{}
	s, err := New(zap.NewNop().Sugar(), config.SchedulerConfig{
		ReportSchedule:  "@every 1s",
		CleanupSchedule: "@every 1s",
	}, jobs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return jobs.reports.Load() > 0 && jobs.cleanups.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
