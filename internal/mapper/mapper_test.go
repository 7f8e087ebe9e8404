package mapper

import (
	"testing"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/require"
)

func TestFromPullRequestEvent(t *testing.T) {
	mergedAt := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)
	ev := &github.PullRequestEvent{
		Action:       github.Ptr("closed"),
		Installation: &github.Installation{ID: github.Ptr(int64(11))},
		Repo: &github.Repository{
			Name:     github.Ptr("x"),
			FullName: github.Ptr("acme/x"),
			Owner:    &github.User{ID: github.Ptr(int64(101)), Login: github.Ptr("acme")},
		},
		PullRequest: &github.PullRequest{
			ID:       github.Ptr(int64(555)),
			Number:   github.Ptr(7),
			Title:    github.Ptr("feat"),
			State:    github.Ptr("closed"),
			Merged:   github.Ptr(true),
			MergedAt: &github.Timestamp{Time: mergedAt},
			User:     &github.User{Login: github.Ptr("alice")},
		},
	}

	got := FromPullRequestEvent(ev)
	require.Equal(t, entities.PullRequestEvent{
		InstallationID: 11,
		OwnerID:        101,
		OwnerLogin:     "acme",
		RepoName:       "x",
		RepoFullName:   "acme/x",
		GitHubID:       555,
		Number:         7,
		Title:          "feat",
		Author:         "alice",
		State:          entities.StateClosed,
		Merged:         true,
		MergedAt:       &mergedAt,
	}, got)
}

func TestFromPullRequestEventUnmerged(t *testing.T) {
	got := FromPullRequestEvent(&github.PullRequestEvent{PullRequest: &github.PullRequest{Merged: github.Ptr(false)}})
	require.False(t, got.Merged)
	require.Nil(t, got.MergedAt)
}

func TestFromInstallationEvent(t *testing.T) {
	got := FromInstallationEvent(&github.InstallationEvent{
		Installation: &github.Installation{
			ID:      github.Ptr(int64(11)),
			Account: &github.User{ID: github.Ptr(int64(101)), Login: github.Ptr("acme")},
		},
	})
	require.Equal(t, entities.InstallationEvent{InstallationID: 11, AccountID: 101, AccountLogin: "acme"}, got)
}

func TestToAPIReport(t *testing.T) {
	pending := ToAPIReport(entities.WeeklyReport{ID: "r1", Status: entities.ReportPending})
	require.Nil(t, pending.ReportData)
	require.Equal(t, "pending", pending.Status)

	data := entities.NewReportData()
	done := ToAPIReport(entities.WeeklyReport{ID: "r1", Status: entities.ReportCompleted, Data: data})
	require.Same(t, data, done.ReportData)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-01", nil)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), d)

	west := time.FixedZone("UTC-5", -5*3600)
	d, err = ParseDate("2024-02-01", west)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 1, 5, 0, 0, 0, time.UTC), d.UTC())
	require.Equal(t, 1, d.Day())

	_, err = ParseDate("2024/02/01", time.UTC)
	require.Error(t, err)
}
