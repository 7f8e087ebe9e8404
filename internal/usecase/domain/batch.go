package domain

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

// GenerateWeeklyReports computes the report of the previous seven whole days for every organization.
// A failing organization is logged and counted; the loop always moves on to the next one.
func (u *Usecase) GenerateWeeklyReports(ctx context.Context, now time.Time) (entities.BatchResult, error) {
	start, end, err := u.NormalizeWindow(now.AddDate(0, 0, -7), now.AddDate(0, 0, -1))
	if err != nil {
		return entities.BatchResult{}, err
	}
	res := entities.BatchResult{StartDate: start, EndDate: end}

	listCtx, cancel := withTimeout(ctx, u.timeout)
	orgs, err := u.repo.ListOrganizations(listCtx)
	cancel()
	if err != nil {
		u.log.Errorw("failed to list organizations", "error", err)
		return res, err
	}
	res.Organizations = len(orgs)

	for _, org := range orgs {
		if err := ctx.Err(); err != nil {
			u.log.Warnw("report batch interrupted", "processed", res.Succeeded+res.Failed, "error", err)
			return res, err
		}
		report, err := u.ComputeWeeklyReport(ctx, org.ID, start, end)
		if err != nil {
			res.Failed++
			u.log.Errorw("weekly report failed",
				"organization_id", org.ID,
				"organization", org.Name,
				"error", err,
			)
			continue
		}
		res.Succeeded++
		u.log.Infow("weekly report ready", "organization", org.Name, "report_id", report.ID)
	}

	u.log.Infow("report batch finished",
		"organizations", res.Organizations,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"start", start,
		"end", end,
	)
	return res, nil
}
