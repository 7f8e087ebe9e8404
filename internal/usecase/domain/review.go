package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

const reviewSubmitted = "submitted"

// HandleReviewSubmitted fans a submitted review out to every notifier.
// Collaborator failures are logged and never returned.
func (u *Usecase) HandleReviewSubmitted(ctx context.Context, ev entities.ReviewEvent) error {
	if ev.Action != reviewSubmitted {
		u.log.Debugw("review action ignored", "action", ev.Action)
		return nil
	}
	if ev.RepoFullName == "" || ev.PRNumber <= 0 || ev.Reviewer == "" {
		return fmt.Errorf("%w: repository, pull request number and reviewer are required", entities.ErrInvalidArgument)
	}

	minutes := u.reviewTimer.ReviewMinutes(ev)
	if minutes < 0 {
		minutes = 0
	}
	completed := ev.SubmittedAt
	if completed.IsZero() {
		completed = u.now()
	}

	rec := entities.ReviewRecord{
		Repo:        ev.RepoFullName,
		PRNumber:    ev.PRNumber,
		Reviewer:    ev.Reviewer,
		TimeSpent:   minutes,
		Comments:    u.reviewComments(ctx, ev),
		StartedAt:   completed.Add(-time.Duration(minutes) * time.Minute),
		CompletedAt: completed,
		URL:         entities.PullRequestURL(ev.RepoFullName, ev.PRNumber),
	}
	u.log.Infow("review recorded",
		"repo", rec.Repo,
		"number", rec.PRNumber,
		"reviewer", rec.Reviewer,
		"time_spent", rec.TimeSpent,
		"comments", rec.Comments,
	)

	for _, n := range u.notifiers {
		u.notify(ctx, n, rec)
	}
	return nil
}

func (u *Usecase) reviewComments(ctx context.Context, ev entities.ReviewEvent) int {
	if u.codeHost == nil || ev.InstallationID == 0 {
		return 0
	}
	ctx, cancel := withTimeout(ctx, u.settings.NotifyTimeout)
	defer cancel()

	count, err := u.codeHost.ReviewCommentCount(ctx, ev.InstallationID, ev.RepoFullName, ev.PRNumber, ev.ReviewID)
	if err != nil {
		u.log.Warnw("failed to count review comments", "repo", ev.RepoFullName, "number", ev.PRNumber, "error", err)
		return 0
	}
	return count
}

func (u *Usecase) notify(ctx context.Context, n Notifier, rec entities.ReviewRecord) {
	ctx, cancel := withTimeout(ctx, u.settings.NotifyTimeout)
	defer cancel()

	if err := n.NotifyReview(ctx, rec); err != nil {
		u.log.Errorw("notification failed", "notifier", n.Name(), "repo", rec.Repo, "number", rec.PRNumber, "error", err)
		return
	}
	u.log.Debugw("notification sent", "notifier", n.Name(), "repo", rec.Repo, "number", rec.PRNumber)
}
