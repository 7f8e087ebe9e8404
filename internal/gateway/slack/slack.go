// Package slack posts review notifications to a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Notifier sends one message per submitted review.
type Notifier struct {
	log        *zap.SugaredLogger
	webhookURL string
	httpClient *http.Client
}

// New returns a notifier for the given incoming webhook URL.
func New(log *zap.SugaredLogger, webhookURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		log:        log.Named("gateway.slack"),
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements the review notifier contract.
func (n *Notifier) Name() string { return "slack" }

// NotifyReview posts the review summary with a link to the pull request.
func (n *Notifier) NotifyReview(ctx context.Context, rec entities.ReviewRecord) error {
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, ReviewMessage(rec)); err != nil {
		return fmt.Errorf("%w: slack: %w", entities.ErrUpstream, err)
	}
	n.log.Infow("review notification posted", "repo", rec.Repo, "number", rec.PRNumber)
	return nil
}

// ReviewMessage renders a review record as a block kit message.
func ReviewMessage(rec entities.ReviewRecord) *slack.WebhookMessage {
	text := fmt.Sprintf(
		"*PR Review Completed* :white_check_mark:\n*Repository:* %s\n*PR #%d*\n*Reviewer:* %s\n*Time Spent:* %d minutes",
		rec.Repo, rec.PRNumber, rec.Reviewer, rec.TimeSpent,
	)
	section := slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
	button := slack.NewButtonBlockElement("view_pr", fmt.Sprintf("%s#%d", rec.Repo, rec.PRNumber),
		slack.NewTextBlockObject(slack.PlainTextType, "View PR", false, false)).WithURL(rec.URL)

	return &slack.WebhookMessage{
		Text:   fmt.Sprintf("PR review completed: %s #%d by %s", rec.Repo, rec.PRNumber, rec.Reviewer),
		Blocks: &slack.Blocks{BlockSet: []slack.Block{section, slack.NewActionBlock("", button)}},
	}
}
