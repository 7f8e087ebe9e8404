package domain

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"
	"github.com/oleg-kuibar/time-agent/internal/repository"

	"go.uber.org/zap"
)

const (
	defaultClaimTTL      = 5 * time.Minute
	defaultNotifyTimeout = 10 * time.Second
)

// Estimator assigns an estimated effort in minutes to a merged pull request.
type Estimator interface {
	Estimate(pr entities.PullRequest) int
}

// ReviewTimer assigns an estimated effort in minutes to a submitted review.
type ReviewTimer interface {
	ReviewMinutes(ev entities.ReviewEvent) int
}

// CodeHost reads review details from the source code host.
type CodeHost interface {
	ReviewCommentCount(ctx context.Context, installationID int64, repoFullName string, prNumber int, reviewID int64) (int, error)
}

// Notifier delivers a review record to one downstream collaborator.
type Notifier interface {
	Name() string
	NotifyReview(ctx context.Context, rec entities.ReviewRecord) error
}

// FixedEstimator estimates every pull request with the same number of minutes.
type FixedEstimator int

// Estimate implements Estimator.
func (f FixedEstimator) Estimate(entities.PullRequest) int { return int(f) }

// FixedReviewTimer estimates every review with the same number of minutes.
type FixedReviewTimer int

// ReviewMinutes implements ReviewTimer.
func (f FixedReviewTimer) ReviewMinutes(entities.ReviewEvent) int { return int(f) }

// Settings carries the tunables of the pipeline.
type Settings struct {
	Location                 *time.Location
	ClaimTTL                 time.Duration
	PullRequestRetentionDays int
	ReportRetentionDays      int
	NotifyTimeout            time.Duration
}

// Option customizes a Usecase.
type Option func(*Usecase)

// WithEstimator replaces the per pull request estimator.
func WithEstimator(e Estimator) Option {
	return func(u *Usecase) { u.estimator = e }
}

// WithReviewTimer replaces the per review estimator.
func WithReviewTimer(t ReviewTimer) Option {
	return func(u *Usecase) { u.reviewTimer = t }
}

// WithCodeHost sets the client used to count review comments.
func WithCodeHost(h CodeHost) Option {
	return func(u *Usecase) { u.codeHost = h }
}

// WithNotifiers appends review notifiers.
func WithNotifiers(n ...Notifier) Option {
	return func(u *Usecase) { u.notifiers = append(u.notifiers, n...) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) { u.now = now }
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx         context.Context
	log         *zap.SugaredLogger
	repo        repository.Repository
	timeout     time.Duration
	settings    Settings
	estimator   Estimator
	reviewTimer ReviewTimer
	codeHost    CodeHost
	notifiers   []Notifier
	now         func() time.Time
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	settings Settings,
	opts ...Option,
) *Usecase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.ClaimTTL <= 0 {
		settings.ClaimTTL = defaultClaimTTL
	}
	if settings.NotifyTimeout <= 0 {
		settings.NotifyTimeout = defaultNotifyTimeout
	}

	u := &Usecase{
		ctx:         ctx,
		log:         log.Named("usecase"),
		repo:        repo,
		timeout:     timeout,
		settings:    settings,
		estimator:   FixedEstimator(30),
		reviewTimer: FixedReviewTimer(15),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
