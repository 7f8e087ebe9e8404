package main

import (
	"context"
	"fmt"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/gateway/githubapp"
	"github.com/oleg-kuibar/time-agent/internal/gateway/harvest"
	"github.com/oleg-kuibar/time-agent/internal/gateway/slack"
	"github.com/oleg-kuibar/time-agent/internal/repository"
	"github.com/oleg-kuibar/time-agent/internal/usecase"
	"github.com/oleg-kuibar/time-agent/internal/usecase/domain"
	"github.com/oleg-kuibar/time-agent/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "time-agent",
		Short:         "GitHub App backend that turns merged pull requests into weekly time reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newReportCmd(), newCleanupCmd(), newMigrateCmd())
	return root
}

// app holds the components shared by every command.
type app struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	repo repository.Repository
	uc   usecase.InterfaceUsecase
	loc  *time.Location
}

func bootstrap(ctx context.Context) (*app, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return nil, nil, err
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return nil, nil, err
	}
	closeFn := func() {
		_ = repo.OnStop(context.Background())
		_ = log.Sync()
	}

	opts, err := collaborators(log, cfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	loc, err := cfg.Reports.Location()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("reports.timezone: %w", err)
	}
	uc := usecase.New(log, ctx, repo, cfg.HTTP.RequestTimeout, domain.Settings{
		Location:                 loc,
		ClaimTTL:                 cfg.Reports.ClaimTTL,
		PullRequestRetentionDays: cfg.Retention.PullRequestDays,
		ReportRetentionDays:      cfg.Retention.ReportDays,
		NotifyTimeout:            cfg.Notify.Timeout,
	}, opts...)

	return &app{cfg: cfg, log: log, repo: repo, uc: uc, loc: loc}, closeFn, nil
}

func collaborators(log *zap.SugaredLogger, cfg *config.Config) ([]domain.Option, error) {
	opts := []domain.Option{
		domain.WithEstimator(domain.FixedEstimator(cfg.Reports.MinutesPerPR)),
		domain.WithReviewTimer(domain.FixedReviewTimer(cfg.Review.MinutesPerReview)),
	}

	if cfg.GitHub.Enabled() {
		gh, err := githubapp.New(log, cfg.GitHub)
		if err != nil {
			return nil, fmt.Errorf("github app: %w", err)
		}
		opts = append(opts, domain.WithCodeHost(gh))
	} else {
		log.Warnw("github app credentials missing, review comment counts disabled")
	}

	if cfg.Harvest.Enabled() {
		opts = append(opts, domain.WithNotifiers(harvest.New(log, cfg.Harvest, cfg.Notify.Timeout)))
	} else {
		log.Infow("harvest not configured, time entries disabled")
	}
	if cfg.Slack.WebhookURL != "" {
		opts = append(opts, domain.WithNotifiers(slack.New(log, cfg.Slack.WebhookURL, cfg.Notify.Timeout)))
	} else {
		log.Infow("slack not configured, notifications disabled")
	}
	return opts, nil
}
