// Package entities contains core business entities.
package entities

import (
	"fmt"
	"time"
)

// PullRequestState mirrors the GitHub pull request state.
type PullRequestState string

const (
	// StateOpen marks PR as open.
	StateOpen PullRequestState = "open"
	// StateClosed marks PR as closed.
	StateClosed PullRequestState = "closed"
)

// PullRequest is a merged pull request recorded from a webhook. Rows are immutable.
type PullRequest struct {
	ID             string
	GitHubID       int64
	OrganizationID string
	RepoName       string
	Number         int
	Title          string
	Author         string
	State          PullRequestState
	MergedAt       *time.Time
	CreatedAt      time.Time
}

// URL returns the canonical GitHub URL of the pull request.
func (pr PullRequest) URL() string {
	return PullRequestURL(pr.RepoName, pr.Number)
}

// PullRequestURL builds https://github.com/<repo>/pull/<number>.
func PullRequestURL(repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/pull/%d", repo, number)
}
