// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// OrganizationInterface exposes organization operations.
type OrganizationInterface interface {
	CreateOrganization(ctx context.Context, org entities.Organization) (*entities.Organization, error)
	GetOrganization(ctx context.Context, id string) (*entities.Organization, error)
	GetOrganizationByGitHubID(ctx context.Context, githubID int64) (*entities.Organization, error)
	ListOrganizations(ctx context.Context) ([]entities.Organization, error)
}

// PullRequestInterface exposes PR operations.
type PullRequestInterface interface {
	CreatePullRequest(ctx context.Context, pr entities.PullRequest) (*entities.PullRequest, error)
	ListMergedPullRequests(ctx context.Context, organizationID string, start, end time.Time) ([]entities.PullRequest, error)
}

// WeeklyReportInterface exposes weekly report state transitions.
type WeeklyReportInterface interface {
	GetReport(ctx context.Context, key entities.ReportKey) (*entities.WeeklyReport, error)
	EnsureReport(ctx context.Context, key entities.ReportKey) (*entities.WeeklyReport, error)
	ClaimReport(ctx context.Context, claim entities.ReportClaim, now time.Time) (bool, error)
	CompleteReport(ctx context.Context, claim entities.ReportClaim, data *entities.ReportData) (*entities.WeeklyReport, error)
	FailReport(ctx context.Context, claim entities.ReportClaim) error
}

// RetentionInterface exposes bulk deletions used by retention.
type RetentionInterface interface {
	DeletePullRequestsCreatedBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteReportsCreatedBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteOrphanedPullRequests(ctx context.Context) (int64, error)
	DeleteOrphanedReports(ctx context.Context) (int64, error)
}
