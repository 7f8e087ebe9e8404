package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=time_agent",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")
	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 3000, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "time_agent",
			SSLMode:        "disable",
			MigrationsDir:  "migrations",
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}

func startRepo(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })
	return repo
}

func mergedPR(orgID string, githubID int64, repo, author string, mergedAt time.Time) entities.PullRequest {
	return entities.PullRequest{
		GitHubID:       githubID,
		OrganizationID: orgID,
		RepoName:       repo,
		Number:         int(githubID),
		Title:          "PR " + strconv.FormatInt(githubID, 10),
		Author:         author,
		State:          entities.StateClosed,
		MergedAt:       &mergedAt,
	}
}

func backdate(t *testing.T, repo *Postgres, table, id string, age time.Duration) {
	t.Helper()
	_, err := repo.db.Exec(context.Background(),
		`UPDATE `+table+` SET created_at = NOW() - $2::interval WHERE id=$1`,
		id, strconv.FormatInt(int64(age/time.Second), 10)+" seconds")
	require.NoError(t, err)
}

func TestOrganizationAndPullRequestIntegration(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	org, err := repo.CreateOrganization(ctx, entities.Organization{InstallationID: 11, GitHubID: 101, Name: "acme"})
	require.NoError(t, err)
	require.NotEmpty(t, org.ID)

	_, err = repo.CreateOrganization(ctx, entities.Organization{InstallationID: 11, GitHubID: 101, Name: "acme"})
	require.ErrorIs(t, err, entities.ErrDuplicateInstallation)

	byGitHub, err := repo.GetOrganizationByGitHubID(ctx, 101)
	require.NoError(t, err)
	require.Equal(t, org.ID, byGitHub.ID)

	_, err = repo.GetOrganizationByGitHubID(ctx, 999)
	require.ErrorIs(t, err, entities.ErrOrganizationNotFound)

	base := time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC)
	_, err = repo.CreatePullRequest(ctx, mergedPR(org.ID, 1, "x", "alice", base))
	require.NoError(t, err)
	_, err = repo.CreatePullRequest(ctx, mergedPR(org.ID, 2, "x", "alice", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.CreatePullRequest(ctx, mergedPR(org.ID, 3, "y", "bob", base.AddDate(0, 1, 0)))
	require.NoError(t, err)

	_, err = repo.CreatePullRequest(ctx, mergedPR(org.ID, 1, "x", "alice", base))
	require.ErrorIs(t, err, entities.ErrDuplicatePullRequest)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)
	prs, err := repo.ListMergedPullRequests(ctx, org.ID, start, end)
	require.NoError(t, err)
	require.Len(t, prs, 2)
	require.Equal(t, int64(2), prs[0].GitHubID)
	require.Equal(t, int64(1), prs[1].GitHubID)

	orgs, err := repo.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
}

func TestWeeklyReportLifecycleIntegration(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	key := entities.ReportKey{
		OrganizationID: uuid.NewString(),
		StartDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 2, 8, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond),
	}

	_, err := repo.GetReport(ctx, key)
	require.ErrorIs(t, err, entities.ErrReportNotFound)

	first, err := repo.EnsureReport(ctx, key)
	require.NoError(t, err)
	require.Equal(t, entities.ReportPending, first.Status)

	second, err := repo.EnsureReport(ctx, key)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var rows int
	require.NoError(t, repo.db.QueryRow(ctx, `SELECT COUNT(*) FROM weekly_reports WHERE organization_id=$1`, key.OrganizationID).Scan(&rows))
	require.Equal(t, 1, rows)

	now := time.Now()
	claim := entities.ReportClaim{ReportID: first.ID, Token: uuid.NewString(), ExpiresAt: now.Add(time.Minute)}
	ok, err := repo.ClaimReport(ctx, claim, now)
	require.NoError(t, err)
	require.True(t, ok)

	rival := entities.ReportClaim{ReportID: first.ID, Token: uuid.NewString(), ExpiresAt: now.Add(time.Minute)}
	ok, err = repo.ClaimReport(ctx, rival, now)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.CompleteReport(ctx, rival, entities.NewReportData())
	require.ErrorIs(t, err, entities.ErrReportInProgress)

	data := entities.NewReportData()
	data.Add(entities.PullRequestData{Title: "t", Number: 1, Repository: "x", Author: "alice", TimeSpent: 30})
	done, err := repo.CompleteReport(ctx, claim, data)
	require.NoError(t, err)
	require.Equal(t, entities.ReportCompleted, done.Status)
	require.Equal(t, data, done.Data)

	ok, err = repo.ClaimReport(ctx, rival, now)
	require.NoError(t, err)
	require.False(t, ok, "completed reports are never reclaimed")
}

func TestExpiredClaimAndFailureIntegration(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	key := entities.ReportKey{
		OrganizationID: uuid.NewString(),
		StartDate:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond),
	}
	report, err := repo.EnsureReport(ctx, key)
	require.NoError(t, err)

	now := time.Now()
	stale := entities.ReportClaim{ReportID: report.ID, Token: uuid.NewString(), ExpiresAt: now.Add(-time.Second)}
	ok, err := repo.ClaimReport(ctx, stale, now.Add(-time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	fresh := entities.ReportClaim{ReportID: report.ID, Token: uuid.NewString(), ExpiresAt: now.Add(time.Minute)}
	ok, err = repo.ClaimReport(ctx, fresh, now)
	require.NoError(t, err)
	require.True(t, ok, "expired claims can be taken over")

	require.NoError(t, repo.FailReport(ctx, fresh))
	failed, err := repo.GetReport(ctx, key)
	require.NoError(t, err)
	require.Equal(t, entities.ReportFailed, failed.Status)

	retry := entities.ReportClaim{ReportID: report.ID, Token: uuid.NewString(), ExpiresAt: now.Add(time.Minute)}
	ok, err = repo.ClaimReport(ctx, retry, now)
	require.NoError(t, err)
	require.True(t, ok, "failed reports can be retried")
}

func TestRetentionIntegration(t *testing.T) {
	ctx := context.Background()
	repo := startRepo(t)

	org, err := repo.CreateOrganization(ctx, entities.Organization{InstallationID: 21, GitHubID: 201, Name: "kept"})
	require.NoError(t, err)
	gone, err := repo.CreateOrganization(ctx, entities.Organization{InstallationID: 22, GitHubID: 202, Name: "gone"})
	require.NoError(t, err)

	merged := time.Now().Add(-24 * time.Hour)
	old, err := repo.CreatePullRequest(ctx, mergedPR(org.ID, 1, "x", "alice", merged))
	require.NoError(t, err)
	recent, err := repo.CreatePullRequest(ctx, mergedPR(org.ID, 2, "x", "alice", merged))
	require.NoError(t, err)
	orphanPR, err := repo.CreatePullRequest(ctx, mergedPR(gone.ID, 3, "z", "carol", merged))
	require.NoError(t, err)

	backdate(t, repo, "pull_requests", old.ID, 91*24*time.Hour)
	backdate(t, repo, "pull_requests", recent.ID, 89*24*time.Hour)

	cutoff := time.Now().AddDate(0, 0, -90)
	deleted, err := repo.DeletePullRequestsCreatedBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	keptKey := entities.ReportKey{OrganizationID: org.ID, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)}
	orphanKey := entities.ReportKey{OrganizationID: gone.ID, StartDate: keptKey.StartDate, EndDate: keptKey.EndDate}
	_, err = repo.EnsureReport(ctx, keptKey)
	require.NoError(t, err)
	_, err = repo.EnsureReport(ctx, orphanKey)
	require.NoError(t, err)

	_, err = repo.db.Exec(ctx, `DELETE FROM organizations WHERE id=$1`, gone.ID)
	require.NoError(t, err)

	orphanPRs, err := repo.DeleteOrphanedPullRequests(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), orphanPRs)
	orphanReports, err := repo.DeleteOrphanedReports(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), orphanReports)

	var remaining []string
	rows, err := repo.db.Query(ctx, `SELECT id::text FROM pull_requests ORDER BY github_id`)
	require.NoError(t, err)
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		remaining = append(remaining, id)
	}
	rows.Close()
	require.Equal(t, []string{recent.ID}, remaining)
	require.NotContains(t, remaining, orphanPR.ID)

	_, err = repo.GetReport(ctx, keptKey)
	require.NoError(t, err)
	_, err = repo.GetReport(ctx, orphanKey)
	require.ErrorIs(t, err, entities.ErrReportNotFound)

	reports, err := repo.DeleteReportsCreatedBefore(ctx, time.Now().AddDate(0, 0, -365))
	require.NoError(t, err)
	require.Zero(t, reports)
}
