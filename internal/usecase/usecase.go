package usecase

import (
	"context"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/repository"
	"github.com/oleg-kuibar/time-agent/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	EventUsecaseInterface
	ReportUsecaseInterface
	RetentionUsecaseInterface
	BatchUsecaseInterface
	ReviewUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	settings domain.Settings,
	opts ...domain.Option,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, timeout, settings, opts...)
}
