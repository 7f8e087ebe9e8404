// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"time"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/usecase"

	"go.uber.org/zap"
)

// Handler implements api.ServerInterface using service layer interfaces.
type Handler struct {
	log           *zap.SugaredLogger
	uc            usecase.InterfaceUsecase
	webhookSecret []byte
	loc           *time.Location
}

var _ api.ServerInterface = (*Handler)(nil)

// NewHandler constructs an HTTP server with service dependencies.
// An empty webhook secret disables signature validation.
// Report dates are read as calendar days in loc.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, webhookSecret string, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		log:           log.Named("handler"),
		uc:            usecase,
		webhookSecret: []byte(webhookSecret),
		loc:           loc,
	}
}
