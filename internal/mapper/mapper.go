// Package mapper converts between webhook payloads, domain models and transport DTOs.
package mapper

import (
	"time"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/go-github/v68/github"
)

// FromInstallationEvent builds an entities.InstallationEvent from a webhook payload.
func FromInstallationEvent(ev *github.InstallationEvent) entities.InstallationEvent {
	inst := ev.GetInstallation()
	return entities.InstallationEvent{
		InstallationID: inst.GetID(),
		AccountID:      inst.GetAccount().GetID(),
		AccountLogin:   inst.GetAccount().GetLogin(),
	}
}

// FromPullRequestEvent builds an entities.PullRequestEvent from a webhook payload.
func FromPullRequestEvent(ev *github.PullRequestEvent) entities.PullRequestEvent {
	pr := ev.GetPullRequest()
	repo := ev.GetRepo()

	out := entities.PullRequestEvent{
		InstallationID: ev.GetInstallation().GetID(),
		OwnerID:        repo.GetOwner().GetID(),
		OwnerLogin:     repo.GetOwner().GetLogin(),
		RepoName:       repo.GetName(),
		RepoFullName:   repo.GetFullName(),
		GitHubID:       pr.GetID(),
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Author:         pr.GetUser().GetLogin(),
		State:          entities.PullRequestState(pr.GetState()),
		Merged:         pr.GetMerged(),
	}
	if pr.MergedAt != nil {
		mergedAt := pr.GetMergedAt().Time
		out.MergedAt = &mergedAt
	}
	return out
}

// FromReviewEvent builds an entities.ReviewEvent from a webhook payload.
func FromReviewEvent(ev *github.PullRequestReviewEvent) entities.ReviewEvent {
	review := ev.GetReview()
	return entities.ReviewEvent{
		Action:         ev.GetAction(),
		InstallationID: ev.GetInstallation().GetID(),
		RepoFullName:   ev.GetRepo().GetFullName(),
		PRNumber:       ev.GetPullRequest().GetNumber(),
		PRTitle:        ev.GetPullRequest().GetTitle(),
		ReviewID:       review.GetID(),
		Reviewer:       review.GetUser().GetLogin(),
		State:          review.GetState(),
		SubmittedAt:    review.GetSubmittedAt().Time,
	}
}

// ToAPIReport maps entities.WeeklyReport to transport model.
func ToAPIReport(r entities.WeeklyReport) api.WeeklyReport {
	out := api.WeeklyReport{
		Id:             r.ID,
		OrganizationId: r.OrganizationID,
		StartDate:      r.StartDate.UTC(),
		EndDate:        r.EndDate.UTC(),
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.Data != nil {
		out.ReportData = r.Data
	}
	return out
}

// ParseDate parses a YYYY-MM-DD window bound as midnight in loc. A nil loc means UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(api.DateLayout, s, loc)
}
