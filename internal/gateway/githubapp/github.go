// Package githubapp provides the GitHub App installation client used to read review details.
package githubapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"
)

// Gateway authenticates as the App and keeps one REST client per installation.
type Gateway struct {
	log       *zap.SugaredLogger
	newClient func(installationID int64) (*github.Client, error)

	mu      sync.Mutex
	clients map[int64]*github.Client
}

// New builds a gateway from App credentials. Requests pass through a secondary rate limit waiter.
func New(log *zap.SugaredLogger, cfg config.GitHubConfig) (*Gateway, error) {
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	appTransport, err := ghinstallation.NewAppsTransport(rateLimitWaiter, cfg.AppID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create app transport: %w", err)
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL != "" {
		appTransport.BaseURL = baseURL
	}

	return &Gateway{
		log:     log.Named("gateway.github"),
		clients: make(map[int64]*github.Client),
		newClient: func(installationID int64) (*github.Client, error) {
			itr := ghinstallation.NewFromAppsTransport(appTransport, installationID)
			client := github.NewClient(&http.Client{Transport: itr})
			if baseURL == "" {
				return client, nil
			}
			itr.BaseURL = baseURL
			return client.WithEnterpriseURLs(baseURL+"/", baseURL+"/")
		},
	}, nil
}

func (g *Gateway) client(installationID int64) (*github.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[installationID]; ok {
		return c, nil
	}
	c, err := g.newClient(installationID)
	if err != nil {
		return nil, fmt.Errorf("%w: installation client: %w", entities.ErrUpstream, err)
	}
	g.clients[installationID] = c
	return c, nil
}

// ReviewCommentCount returns the number of comments attached to one pull request review.
func (g *Gateway) ReviewCommentCount(ctx context.Context, installationID int64, repoFullName string, prNumber int, reviewID int64) (int, error) {
	owner, repo, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || repo == "" {
		return 0, fmt.Errorf("%w: repository must be owner/name, got %q", entities.ErrInvalidArgument, repoFullName)
	}
	client, err := g.client(installationID)
	if err != nil {
		return 0, err
	}

	opts := &github.ListOptions{PerPage: 100}
	total := 0
	for {
		comments, resp, err := client.PullRequests.ListReviewComments(ctx, owner, repo, prNumber, reviewID, opts)
		if err != nil {
			return 0, fmt.Errorf("%w: list review comments: %w", entities.ErrUpstream, err)
		}
		total += len(comments)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.log.Debugw("review comments fetched", "repo", repoFullName, "number", prNumber, "review_id", reviewID, "count", total)
	return total, nil
}
