package postgres

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/uuid"
)

const (
	insertPRQuery = `
INSERT INTO pull_requests(id, github_id, organization_id, repo_name, number, title, author, state, merged_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING created_at`
	selectMergedPRsQuery = `
SELECT id, github_id, organization_id, repo_name, number, title, author, state, merged_at, created_at
FROM pull_requests
WHERE organization_id=$1
  AND state='closed'
  AND merged_at IS NOT NULL
  AND merged_at >= $2
  AND merged_at <= $3
ORDER BY merged_at DESC`
)

// CreatePullRequest stores a merged pull request once per GitHub id.
func (p *Postgres) CreatePullRequest(ctx context.Context, pr entities.PullRequest) (*entities.PullRequest, error) {
	if pr.ID == "" {
		pr.ID = uuid.NewString()
	}
	if err := p.db.QueryRow(ctx, insertPRQuery,
		pr.ID, pr.GitHubID, pr.OrganizationID, pr.RepoName, pr.Number, pr.Title, pr.Author, string(pr.State), pr.MergedAt,
	).Scan(&pr.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrDuplicatePullRequest
		}
		p.log.Errorw("failed to insert pull request", "error", err, "github_id", pr.GitHubID)
		return nil, persistErr("insert pull request", err)
	}

	p.log.Infow("pr recorded", "pr_id", pr.ID, "repo", pr.RepoName, "number", pr.Number)
	return &pr, nil
}

// ListMergedPullRequests returns merged PRs of an organization inside [start, end], newest merge first.
func (p *Postgres) ListMergedPullRequests(ctx context.Context, organizationID string, start, end time.Time) ([]entities.PullRequest, error) {
	rows, err := p.db.Query(ctx, selectMergedPRsQuery, organizationID, start, end)
	if err != nil {
		return nil, persistErr("select merged prs", err)
	}
	defer rows.Close()

	prs := make([]entities.PullRequest, 0)
	for rows.Next() {
		var pr entities.PullRequest
		var state string
		if err := rows.Scan(&pr.ID, &pr.GitHubID, &pr.OrganizationID, &pr.RepoName, &pr.Number,
			&pr.Title, &pr.Author, &state, &pr.MergedAt, &pr.CreatedAt); err != nil {
			p.log.Errorw("failed to scan pull request", "error", err)
			return nil, persistErr("scan pull request", err)
		}
		pr.State = entities.PullRequestState(state)
		prs = append(prs, pr)
	}
	if err := rows.Err(); err != nil {
		p.log.Errorw("error iterating pull requests", "error", err)
		return nil, persistErr("iterate pull requests", err)
	}
	return prs, nil
}
