// Package harvest creates Harvest time entries for code reviews.
package harvest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.harvestapp.com/v2"

// TimeEntry is the body of POST /time_entries.
type TimeEntry struct {
	ProjectID string  `json:"project_id"`
	TaskID    string  `json:"task_id"`
	SpentDate string  `json:"spent_date"`
	Hours     float64 `json:"hours"`
	Notes     string  `json:"notes"`
}

// Client is a minimal Harvest v2 API client.
type Client struct {
	log        *zap.SugaredLogger
	httpClient *http.Client
	baseURL    string
	accountID  string
	token      string
	projectID  string
	taskID     string
}

// New returns a Harvest client bound to one project and task.
func New(log *zap.SugaredLogger, cfg config.HarvestConfig, timeout time.Duration) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		log:        log.Named("gateway.harvest"),
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		accountID:  cfg.AccountID,
		token:      cfg.AccessToken,
		projectID:  cfg.ProjectID,
		taskID:     cfg.TaskID,
	}
}

// Name implements the review notifier contract.
func (c *Client) Name() string { return "harvest" }

// NotifyReview books the review time as a Harvest time entry.
func (c *Client) NotifyReview(ctx context.Context, rec entities.ReviewRecord) error {
	return c.CreateTimeEntry(ctx, NewTimeEntry(c.projectID, c.taskID, rec))
}

// NewTimeEntry converts a review record to a time entry. Minutes become fractional hours.
func NewTimeEntry(projectID, taskID string, rec entities.ReviewRecord) TimeEntry {
	spent := rec.CompletedAt
	if spent.IsZero() {
		spent = time.Now()
	}
	return TimeEntry{
		ProjectID: projectID,
		TaskID:    taskID,
		SpentDate: spent.UTC().Format(time.DateOnly),
		Hours:     float64(rec.TimeSpent) / 60,
		Notes:     fmt.Sprintf("Code review for PR #%d in %s\nComments: %d", rec.PRNumber, rec.Repo, rec.Comments),
	}
}

// CreateTimeEntry posts one entry.
func (c *Client) CreateTimeEntry(ctx context.Context, entry TimeEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal time entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/time_entries", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build harvest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Harvest-Account-ID", c.accountID)
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: harvest: %w", entities.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: harvest: status %d: %s", entities.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	c.log.Infow("time entry created", "project_id", entry.ProjectID, "hours", entry.Hours, "spent_date", entry.SpentDate)
	return nil
}
