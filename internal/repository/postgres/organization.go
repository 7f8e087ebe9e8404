package postgres

import (
	"context"
	"errors"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrganizationQuery = `
INSERT INTO organizations(id, installation_id, github_id, name)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	selectOrganizationQuery         = `SELECT id, installation_id, github_id, name, created_at FROM organizations WHERE id=$1`
	selectOrganizationByGitHubQuery = `SELECT id, installation_id, github_id, name, created_at FROM organizations WHERE github_id=$1`
	listOrganizationsQuery          = `SELECT id, installation_id, github_id, name, created_at FROM organizations ORDER BY name ASC`
)

// CreateOrganization inserts a new installation record.
func (p *Postgres) CreateOrganization(ctx context.Context, org entities.Organization) (*entities.Organization, error) {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if err := p.db.QueryRow(ctx, insertOrganizationQuery, org.ID, org.InstallationID, org.GitHubID, org.Name).
		Scan(&org.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, entities.ErrDuplicateInstallation
		}
		p.log.Errorw("failed to insert organization", "error", err, "installation_id", org.InstallationID)
		return nil, persistErr("insert organization", err)
	}

	p.log.Infow("organization created", "organization_id", org.ID, "name", org.Name)
	return &org, nil
}

// GetOrganization fetches an organization by internal id.
func (p *Postgres) GetOrganization(ctx context.Context, id string) (*entities.Organization, error) {
	return p.getOrganization(ctx, selectOrganizationQuery, id)
}

// GetOrganizationByGitHubID fetches an organization by external account id.
func (p *Postgres) GetOrganizationByGitHubID(ctx context.Context, githubID int64) (*entities.Organization, error) {
	return p.getOrganization(ctx, selectOrganizationByGitHubQuery, githubID)
}

func (p *Postgres) getOrganization(ctx context.Context, query string, arg any) (*entities.Organization, error) {
	var org entities.Organization
	if err := p.db.QueryRow(ctx, query, arg).
		Scan(&org.ID, &org.InstallationID, &org.GitHubID, &org.Name, &org.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrOrganizationNotFound
		}
		return nil, persistErr("get organization", err)
	}
	return &org, nil
}

// ListOrganizations returns all organizations ordered by name.
func (p *Postgres) ListOrganizations(ctx context.Context) ([]entities.Organization, error) {
	rows, err := p.db.Query(ctx, listOrganizationsQuery)
	if err != nil {
		return nil, persistErr("list organizations", err)
	}
	defer rows.Close()

	orgs := make([]entities.Organization, 0)
	for rows.Next() {
		var org entities.Organization
		if err := rows.Scan(&org.ID, &org.InstallationID, &org.GitHubID, &org.Name, &org.CreatedAt); err != nil {
			return nil, persistErr("scan organization", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate organizations", err)
	}
	return orgs, nil
}
