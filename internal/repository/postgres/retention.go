package postgres

import (
	"context"
	"time"
)

const (
	deleteOldPRsQuery     = `DELETE FROM pull_requests WHERE created_at < $1`
	deleteOldReportsQuery = `DELETE FROM weekly_reports WHERE created_at < $1`
	deleteOrphanPRsQuery  = `
DELETE FROM pull_requests pr
WHERE NOT EXISTS (SELECT 1 FROM organizations o WHERE o.id = pr.organization_id)`
	deleteOrphanReportsQuery = `
DELETE FROM weekly_reports r
WHERE NOT EXISTS (SELECT 1 FROM organizations o WHERE o.id = r.organization_id)`
)

// DeletePullRequestsCreatedBefore removes pull requests recorded before the cutoff.
func (p *Postgres) DeletePullRequestsCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	return p.deleteRows(ctx, "delete old pull requests", deleteOldPRsQuery, before)
}

// DeleteReportsCreatedBefore removes weekly reports created before the cutoff.
func (p *Postgres) DeleteReportsCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	return p.deleteRows(ctx, "delete old reports", deleteOldReportsQuery, before)
}

// DeleteOrphanedPullRequests removes pull requests whose organization no longer exists.
func (p *Postgres) DeleteOrphanedPullRequests(ctx context.Context) (int64, error) {
	return p.deleteRows(ctx, "delete orphaned pull requests", deleteOrphanPRsQuery)
}

// DeleteOrphanedReports removes reports whose organization no longer exists.
func (p *Postgres) DeleteOrphanedReports(ctx context.Context) (int64, error) {
	return p.deleteRows(ctx, "delete orphaned reports", deleteOrphanReportsQuery)
}

func (p *Postgres) deleteRows(ctx context.Context, op, query string, args ...any) (int64, error) {
	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		p.log.Errorw("retention delete failed", "op", op, "error", err)
		return 0, persistErr(op, err)
	}
	return tag.RowsAffected(), nil
}
