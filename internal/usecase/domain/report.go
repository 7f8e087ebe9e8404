// Package domain contains application services orchestrating domain logic by weekly report.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/uuid"
)

// NormalizeWindow expands [start, end] to whole days in the configured timezone.
// The end bound is the last representable instant of its day at microsecond precision.
func (u *Usecase) NormalizeWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end dates are required", entities.ErrInvalidArgument)
	}
	loc := u.settings.Location
	from := startOfDay(start, loc)
	to := startOfDay(end, loc)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date must not be after end date", entities.ErrInvalidArgument)
	}
	return from.UTC(), to.AddDate(0, 0, 1).Add(-time.Microsecond).UTC(), nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func (u *Usecase) reportKey(organizationID string, start, end time.Time) (entities.ReportKey, error) {
	if _, err := uuid.Parse(organizationID); err != nil {
		return entities.ReportKey{}, fmt.Errorf("%w: organization id must be a uuid", entities.ErrInvalidArgument)
	}
	from, to, err := u.NormalizeWindow(start, end)
	if err != nil {
		return entities.ReportKey{}, err
	}
	return entities.ReportKey{OrganizationID: organizationID, StartDate: from, EndDate: to}, nil
}

// GetWeeklyReport returns the stored report for the window without computing it.
func (u *Usecase) GetWeeklyReport(ctx context.Context, organizationID string, start, end time.Time) (*entities.WeeklyReport, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	key, err := u.reportKey(organizationID, start, end)
	if err != nil {
		return nil, err
	}
	return u.repo.GetReport(ctx, key)
}

// ComputeWeeklyReport returns the completed report for the window, computing it at most once.
func (u *Usecase) ComputeWeeklyReport(ctx context.Context, organizationID string, start, end time.Time) (*entities.WeeklyReport, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	key, err := u.reportKey(organizationID, start, end)
	if err != nil {
		return nil, err
	}
	if _, err := u.repo.GetOrganization(ctx, organizationID); err != nil {
		return nil, err
	}

	report, err := u.repo.EnsureReport(ctx, key)
	if err != nil {
		return nil, err
	}
	if report.Status == entities.ReportCompleted {
		u.log.Debugw("report already completed", "report_id", report.ID)
		return report, nil
	}

	now := u.now()
	claim := entities.ReportClaim{
		ReportID:  report.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(u.settings.ClaimTTL),
	}
	claimed, err := u.repo.ClaimReport(ctx, claim, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return u.completedOrBusy(ctx, key)
	}

	data, err := u.aggregate(ctx, key)
	if err != nil {
		u.failReport(claim, err)
		return nil, err
	}

	done, err := u.repo.CompleteReport(ctx, claim, data)
	if err != nil {
		if errors.Is(err, entities.ErrReportInProgress) {
			return u.completedOrBusy(ctx, key)
		}
		u.failReport(claim, err)
		return nil, err
	}

	u.log.Infow("report completed",
		"report_id", done.ID,
		"organization_id", organizationID,
		"total_prs", data.TotalPRs,
		"total_time_spent", data.TotalTimeSpent,
	)
	return done, nil
}

func (u *Usecase) aggregate(ctx context.Context, key entities.ReportKey) (*entities.ReportData, error) {
	prs, err := u.repo.ListMergedPullRequests(ctx, key.OrganizationID, key.StartDate, key.EndDate)
	if err != nil {
		return nil, err
	}

	data := entities.NewReportData()
	for _, pr := range prs {
		if pr.MergedAt == nil {
			continue
		}
		minutes := u.estimator.Estimate(pr)
		if minutes < 0 {
			minutes = 0
		}
		data.Add(entities.PullRequestData{
			Title:      pr.Title,
			Number:     pr.Number,
			URL:        pr.URL(),
			Author:     pr.Author,
			MergedAt:   pr.MergedAt.UTC().Format(time.RFC3339),
			Repository: pr.RepoName,
			TimeSpent:  minutes,
		})
	}
	return data, nil
}

// completedOrBusy resolves a lost claim: another caller either finished the report or still holds it.
func (u *Usecase) completedOrBusy(ctx context.Context, key entities.ReportKey) (*entities.WeeklyReport, error) {
	current, err := u.repo.GetReport(ctx, key)
	if err != nil {
		return nil, err
	}
	if current.Status == entities.ReportCompleted {
		return current, nil
	}
	u.log.Infow("report claimed by another caller", "report_id", current.ID, "status", current.Status)
	return nil, fmt.Errorf("%w: report %s", entities.ErrReportInProgress, current.ID)
}

// failReport detaches from cancellation so the row is released after the request deadline and during shutdown.
func (u *Usecase) failReport(claim entities.ReportClaim, cause error) {
	ctx, cancel := withTimeout(context.WithoutCancel(u.ctx), u.timeout)
	defer cancel()

	u.log.Errorw("report computation failed", "report_id", claim.ReportID, "error", cause)
	if err := u.repo.FailReport(ctx, claim); err != nil {
		u.log.Errorw("failed to mark report failed", "report_id", claim.ReportID, "error", err)
	}
}
