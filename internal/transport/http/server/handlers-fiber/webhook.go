package handlers_fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/entities"
	"github.com/oleg-kuibar/time-agent/internal/mapper"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-github/v68/github"
)

const (
	eventPing        = "ping"
	eventInstall     = "installation"
	eventPullRequest = "pull_request"
	eventReview      = "pull_request_review"
)

// PostWebhook verifies and dispatches a GitHub App delivery.
func (h *Handler) PostWebhook(c *fiber.Ctx) error {
	body := c.Body()
	if len(h.webhookSecret) > 0 {
		if err := github.ValidateSignature(c.Get(github.SHA256SignatureHeader), body, h.webhookSecret); err != nil {
			h.log.Warnw("webhook signature rejected", "delivery", c.Get(github.DeliveryIDHeader), "error", err)
			return c.Status(http.StatusUnauthorized).JSON(errorResponse(api.UNAUTHORIZED, "invalid signature"))
		}
	}

	eventType := c.Get(github.EventTypeHeader)
	switch eventType {
	case eventPing, eventInstall, eventPullRequest, eventReview:
	default:
		return c.Status(http.StatusAccepted).JSON(api.StatusResponse{Status: "ignored", Event: eventType})
	}

	event, err := github.ParseWebHook(eventType, body)
	if err != nil {
		return validationError(c, "invalid payload")
	}

	if err := h.dispatch(c.Context(), event); err != nil {
		if entities.IsNonFatalEvent(err) {
			h.log.Infow("webhook ignored", "event", eventType, "reason", err)
			return c.Status(http.StatusOK).JSON(api.StatusResponse{Status: "ignored", Event: eventType})
		}
		h.log.Errorw("webhook failed", "event", eventType, "error", err)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(api.StatusResponse{Status: "ok", Event: eventType})
}

func (h *Handler) dispatch(ctx context.Context, event interface{}) error {
	switch ev := event.(type) {
	case *github.PingEvent:
		return nil
	case *github.InstallationEvent:
		if ev.GetAction() != "created" {
			return nil
		}
		_, err := h.uc.RecordInstallation(ctx, mapper.FromInstallationEvent(ev))
		return err
	case *github.PullRequestEvent:
		if ev.GetAction() != "closed" {
			return nil
		}
		_, err := h.uc.RecordPullRequestClosed(ctx, mapper.FromPullRequestEvent(ev))
		return err
	case *github.PullRequestReviewEvent:
		return h.uc.HandleReviewSubmitted(ctx, mapper.FromReviewEvent(ev))
	default:
		return errors.New("unsupported event")
	}
}
