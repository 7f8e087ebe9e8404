package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	reportColumns = `id, organization_id, start_date, end_date, status, report_data, created_at, updated_at`

	insertReportQuery = `
INSERT INTO weekly_reports(id, organization_id, start_date, end_date, status)
VALUES ($1, $2, $3, $4, 'pending')
ON CONFLICT (organization_id, start_date, end_date) DO NOTHING`
	selectReportQuery = `SELECT ` + reportColumns + `
FROM weekly_reports
WHERE organization_id=$1 AND start_date=$2 AND end_date=$3`
	claimReportQuery = `
UPDATE weekly_reports
SET status='processing', claim_token=$2, claim_expires_at=$3, updated_at=NOW()
WHERE id=$1
  AND (status IN ('pending', 'failed') OR (status='processing' AND claim_expires_at < $4))`
	completeReportQuery = `
UPDATE weekly_reports
SET status='completed', report_data=$3, claim_token=NULL, claim_expires_at=NULL, updated_at=NOW()
WHERE id=$1 AND claim_token=$2 AND status='processing'
RETURNING ` + reportColumns
	failReportQuery = `
UPDATE weekly_reports
SET status='failed', claim_token=NULL, claim_expires_at=NULL, updated_at=NOW()
WHERE id=$1 AND claim_token=$2 AND status='processing'`
)

// GetReport fetches a report by its idempotency key.
func (p *Postgres) GetReport(ctx context.Context, key entities.ReportKey) (*entities.WeeklyReport, error) {
	report, err := scanReport(p.db.QueryRow(ctx, selectReportQuery, key.OrganizationID, key.StartDate, key.EndDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrReportNotFound
		}
		return nil, persistErr("get report", err)
	}
	return report, nil
}

// EnsureReport creates a pending report for key or reuses the existing row.
func (p *Postgres) EnsureReport(ctx context.Context, key entities.ReportKey) (*entities.WeeklyReport, error) {
	tag, err := p.db.Exec(ctx, insertReportQuery, uuid.NewString(), key.OrganizationID, key.StartDate, key.EndDate)
	if err != nil {
		p.log.Errorw("failed to insert report", "error", err, "organization_id", key.OrganizationID)
		return nil, persistErr("insert report", err)
	}
	if tag.RowsAffected() == 0 {
		p.log.Debugw("report exists, reusing", "organization_id", key.OrganizationID, "start", key.StartDate, "end", key.EndDate)
	}
	return p.GetReport(ctx, key)
}

// ClaimReport moves a report to processing under the claim token when no live claim exists.
func (p *Postgres) ClaimReport(ctx context.Context, claim entities.ReportClaim, now time.Time) (bool, error) {
	tag, err := p.db.Exec(ctx, claimReportQuery, claim.ReportID, claim.Token, claim.ExpiresAt, now)
	if err != nil {
		p.log.Errorw("failed to claim report", "error", err, "report_id", claim.ReportID)
		return false, persistErr("claim report", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteReport stores the payload and marks the report completed if the claim is still held.
func (p *Postgres) CompleteReport(ctx context.Context, claim entities.ReportClaim, data *entities.ReportData) (*entities.WeeklyReport, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal report data: %w", err)
	}

	report, err := scanReport(p.db.QueryRow(ctx, completeReportQuery, claim.ReportID, claim.Token, payload))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: claim lost for report %s", entities.ErrReportInProgress, claim.ReportID)
		}
		p.log.Errorw("failed to complete report", "error", err, "report_id", claim.ReportID)
		return nil, persistErr("complete report", err)
	}
	return report, nil
}

// FailReport marks a claimed report failed so a later call can retry it.
func (p *Postgres) FailReport(ctx context.Context, claim entities.ReportClaim) error {
	if _, err := p.db.Exec(ctx, failReportQuery, claim.ReportID, claim.Token); err != nil {
		p.log.Errorw("failed to mark report failed", "error", err, "report_id", claim.ReportID)
		return persistErr("fail report", err)
	}
	return nil
}

func scanReport(row pgx.Row) (*entities.WeeklyReport, error) {
	var r entities.WeeklyReport
	var status string
	var payload []byte
	if err := row.Scan(&r.ID, &r.OrganizationID, &r.StartDate, &r.EndDate, &status, &payload, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.Status = entities.ReportStatus(status)
	r.StartDate = r.StartDate.UTC()
	r.EndDate = r.EndDate.UTC()
	if len(payload) > 0 {
		var data entities.ReportData
		if err := json.Unmarshal(payload, &data); err != nil {
			return nil, fmt.Errorf("decode report data: %w", err)
		}
		r.Data = &data
	}
	return &r, nil
}
