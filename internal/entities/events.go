package entities

import "time"

// InstallationEvent is a verified installation.created delivery.
type InstallationEvent struct {
	InstallationID int64
	AccountID      int64
	AccountLogin   string
}

// PullRequestEvent is a verified pull_request.closed delivery.
type PullRequestEvent struct {
	InstallationID int64
	OwnerID        int64
	OwnerLogin     string
	RepoName       string
	RepoFullName   string
	GitHubID       int64
	Number         int
	Title          string
	Author         string
	State          PullRequestState
	Merged         bool
	MergedAt       *time.Time
}

// ReviewEvent is a verified pull_request_review delivery.
type ReviewEvent struct {
	Action         string
	InstallationID int64
	RepoFullName   string
	PRNumber       int
	PRTitle        string
	ReviewID       int64
	Reviewer       string
	State          string
	SubmittedAt    time.Time
}

// ReviewRecord is the data sent to notification collaborators for one review.
type ReviewRecord struct {
	Repo        string
	PRNumber    int
	Reviewer    string
	TimeSpent   int
	Comments    int
	StartedAt   time.Time
	CompletedAt time.Time
	URL         string
}

// CleanupResult reports rows deleted by one retention run.
type CleanupResult struct {
	PullRequests         int64 `json:"pull_requests"`
	Reports              int64 `json:"reports"`
	OrphanedPullRequests int64 `json:"orphaned_pull_requests"`
	OrphanedReports      int64 `json:"orphaned_reports"`
}

// BatchResult reports the outcome of one scheduled report generation run.
type BatchResult struct {
	Organizations int       `json:"organizations"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}
