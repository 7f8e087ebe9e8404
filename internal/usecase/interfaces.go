package usecase

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

// EventUsecaseInterface records verified webhook deliveries.
type EventUsecaseInterface interface {
	RecordInstallation(ctx context.Context, ev entities.InstallationEvent) (*entities.Organization, error)
	RecordPullRequestClosed(ctx context.Context, ev entities.PullRequestEvent) (*entities.PullRequest, error)
}

// ReportUsecaseInterface abstracts weekly report operations for delivery layer.
type ReportUsecaseInterface interface {
	ComputeWeeklyReport(ctx context.Context, organizationID string, start, end time.Time) (*entities.WeeklyReport, error)
	GetWeeklyReport(ctx context.Context, organizationID string, start, end time.Time) (*entities.WeeklyReport, error)
}

// RetentionUsecaseInterface abstracts data retention.
type RetentionUsecaseInterface interface {
	CleanupPullRequests(ctx context.Context) (int64, error)
	CleanupReports(ctx context.Context) (int64, error)
	CleanupOrphanedData(ctx context.Context) (entities.CleanupResult, error)
	RunCleanup(ctx context.Context) (entities.CleanupResult, error)
}

// BatchUsecaseInterface abstracts scheduled report generation.
type BatchUsecaseInterface interface {
	GenerateWeeklyReports(ctx context.Context, now time.Time) (entities.BatchResult, error)
}

// ReviewUsecaseInterface abstracts review notification fan-out.
type ReviewUsecaseInterface interface {
	HandleReviewSubmitted(ctx context.Context, ev entities.ReviewEvent) error
}
