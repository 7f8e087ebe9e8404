package domain

import (
	"context"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

// CleanupPullRequests deletes pull requests older than the pull request retention horizon.
func (u *Usecase) CleanupPullRequests(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	cutoff := u.now().AddDate(0, 0, -u.settings.PullRequestRetentionDays)
	n, err := u.repo.DeletePullRequestsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	u.log.Infow("old pull requests deleted", "count", n, "cutoff", cutoff)
	return n, nil
}

// CleanupReports deletes reports older than the report retention horizon.
func (u *Usecase) CleanupReports(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	cutoff := u.now().AddDate(0, 0, -u.settings.ReportRetentionDays)
	n, err := u.repo.DeleteReportsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	u.log.Infow("old reports deleted", "count", n, "cutoff", cutoff)
	return n, nil
}

// CleanupOrphanedData deletes pull requests and reports that reference a missing organization.
func (u *Usecase) CleanupOrphanedData(ctx context.Context) (entities.CleanupResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	var res entities.CleanupResult
	prs, err := u.repo.DeleteOrphanedPullRequests(ctx)
	if err != nil {
		return res, err
	}
	res.OrphanedPullRequests = prs

	reports, err := u.repo.DeleteOrphanedReports(ctx)
	if err != nil {
		return res, err
	}
	res.OrphanedReports = reports

	u.log.Infow("orphaned data deleted", "pull_requests", prs, "reports", reports)
	return res, nil
}

// RunCleanup runs every retention step in order and stops at the first failure.
func (u *Usecase) RunCleanup(ctx context.Context) (entities.CleanupResult, error) {
	var res entities.CleanupResult

	prs, err := u.CleanupPullRequests(ctx)
	if err != nil {
		u.log.Errorw("cleanup aborted", "step", "pull_requests", "error", err)
		return res, err
	}
	res.PullRequests = prs

	reports, err := u.CleanupReports(ctx)
	if err != nil {
		u.log.Errorw("cleanup aborted", "step", "reports", "error", err)
		return res, err
	}
	res.Reports = reports

	orphans, err := u.CleanupOrphanedData(ctx)
	res.OrphanedPullRequests = orphans.OrphanedPullRequests
	res.OrphanedReports = orphans.OrphanedReports
	if err != nil {
		u.log.Errorw("cleanup aborted", "step", "orphans", "error", err)
		return res, err
	}

	u.log.Infow("cleanup finished",
		"pull_requests", res.PullRequests,
		"reports", res.Reports,
		"orphaned_pull_requests", res.OrphanedPullRequests,
		"orphaned_reports", res.OrphanedReports,
	)
	return res, nil
}
