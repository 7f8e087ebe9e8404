// Package domain contains application services orchestrating the report pipeline.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/oleg-kuibar/time-agent/internal/entities"
)

// RecordInstallation creates the organization for a new App installation.
func (u *Usecase) RecordInstallation(ctx context.Context, ev entities.InstallationEvent) (*entities.Organization, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if ev.InstallationID == 0 || ev.AccountID == 0 || ev.AccountLogin == "" {
		return nil, fmt.Errorf("%w: installation id and account are required", entities.ErrInvalidArgument)
	}

	org, err := u.repo.CreateOrganization(ctx, entities.Organization{
		InstallationID: ev.InstallationID,
		GitHubID:       ev.AccountID,
		Name:           ev.AccountLogin,
	})
	if err != nil {
		if errors.Is(err, entities.ErrDuplicateInstallation) {
			u.log.Infow("installation already recorded", "installation_id", ev.InstallationID)
		}
		return nil, err
	}
	return org, nil
}

// RecordPullRequestClosed stores a merged pull request. Closed but unmerged pull requests are dropped.
func (u *Usecase) RecordPullRequestClosed(ctx context.Context, ev entities.PullRequestEvent) (*entities.PullRequest, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !ev.Merged {
		u.log.Debugw("pr closed without merge, skipping", "repo", ev.RepoFullName, "number", ev.Number)
		return nil, nil
	}
	if ev.GitHubID == 0 || ev.OwnerID == 0 || ev.Number <= 0 {
		return nil, fmt.Errorf("%w: pull request id, number and owner are required", entities.ErrInvalidArgument)
	}
	if ev.MergedAt == nil {
		return nil, fmt.Errorf("%w: merged pull request without merged_at", entities.ErrInvalidArgument)
	}

	org, err := u.repo.GetOrganizationByGitHubID(ctx, ev.OwnerID)
	if err != nil {
		if errors.Is(err, entities.ErrOrganizationNotFound) {
			u.log.Warnw("pr for unknown organization dropped", "owner_id", ev.OwnerID, "owner", ev.OwnerLogin)
			return nil, fmt.Errorf("%w: account %d", entities.ErrUnknownOrganization, ev.OwnerID)
		}
		return nil, err
	}

	repoName := ev.RepoFullName
	if repoName == "" {
		repoName = ev.RepoName
	}
	pr, err := u.repo.CreatePullRequest(ctx, entities.PullRequest{
		GitHubID:       ev.GitHubID,
		OrganizationID: org.ID,
		RepoName:       repoName,
		Number:         ev.Number,
		Title:          ev.Title,
		Author:         ev.Author,
		State:          entities.StateClosed,
		MergedAt:       ev.MergedAt,
	})
	if err != nil {
		if errors.Is(err, entities.ErrDuplicatePullRequest) {
			u.log.Infow("pr already recorded", "github_id", ev.GitHubID)
		}
		return nil, err
	}
	return pr, nil
}
