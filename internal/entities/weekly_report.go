package entities

import (
	"time"
)

// ReportStatus enumerates the weekly report state machine.
type ReportStatus string

const (
	// ReportPending is the initial status of a freshly created row.
	ReportPending ReportStatus = "pending"
	// ReportProcessing marks a row claimed by a running computation.
	ReportProcessing ReportStatus = "processing"
	// ReportCompleted is terminal; payload is present and never recomputed.
	ReportCompleted ReportStatus = "completed"
	// ReportFailed marks a failed computation; a later call may claim it again.
	ReportFailed ReportStatus = "failed"
)

// ReportKey is the idempotency key of a weekly report.
type ReportKey struct {
	OrganizationID string
	StartDate      time.Time
	EndDate        time.Time
}

// WeeklyReport is the computed artifact for one organization and date window.
type WeeklyReport struct {
	ID             string
	OrganizationID string
	StartDate      time.Time
	EndDate        time.Time
	Status         ReportStatus
	Data           *ReportData
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Key returns the idempotency key of the report.
func (r WeeklyReport) Key() ReportKey {
	return ReportKey{OrganizationID: r.OrganizationID, StartDate: r.StartDate, EndDate: r.EndDate}
}

// ReportClaim is a time-limited lease on a report row held by one computation.
type ReportClaim struct {
	ReportID  string
	Token     string
	ExpiresAt time.Time
}

// PullRequestData is one pull request entry of a report payload.
type PullRequestData struct {
	Title      string `json:"title"`
	Number     int    `json:"number"`
	URL        string `json:"url"`
	Author     string `json:"author"`
	MergedAt   string `json:"mergedAt"`
	Repository string `json:"repository"`
	TimeSpent  int    `json:"timeSpent"`
}

// ReportSummary is a per-group subtotal.
type ReportSummary struct {
	Count        int               `json:"count"`
	TimeSpent    int               `json:"timeSpent"`
	PullRequests []PullRequestData `json:"pullRequests"`
}

// ReportData is the payload stored on a completed report. Times are in minutes.
type ReportData struct {
	TotalPRs       int                       `json:"totalPRs"`
	TotalTimeSpent int                       `json:"totalTimeSpent"`
	PullRequests   []PullRequestData         `json:"pullRequests"`
	ByRepository   map[string]*ReportSummary `json:"byRepository"`
	ByAuthor       map[string]*ReportSummary `json:"byAuthor"`
}

// NewReportData returns an empty payload with initialized groupings.
func NewReportData() *ReportData {
	return &ReportData{
		PullRequests: []PullRequestData{},
		ByRepository: map[string]*ReportSummary{},
		ByAuthor:     map[string]*ReportSummary{},
	}
}

// Add folds one pull request entry into totals and both groupings.
func (d *ReportData) Add(pr PullRequestData) {
	d.TotalPRs++
	d.TotalTimeSpent += pr.TimeSpent
	d.PullRequests = append(d.PullRequests, pr)
	addToGroup(d.ByRepository, pr.Repository, pr)
	addToGroup(d.ByAuthor, pr.Author, pr)
}

func addToGroup(groups map[string]*ReportSummary, key string, pr PullRequestData) {
	g, ok := groups[key]
	if !ok {
		g = &ReportSummary{PullRequests: []PullRequestData{}}
		groups[key] = g
	}
	g.Count++
	g.TimeSpent += pr.TimeSpent
	g.PullRequests = append(g.PullRequests, pr)
}
