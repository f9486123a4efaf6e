// Package notify posts best-effort announcements about processed ideas.
package notify

import (
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"ideaforge/internal/models"
)

// SlackNotifier announces processed ideas to a Slack channel. It is an
// optional side channel: every failure is logged and contained, never
// surfaced to the request that triggered it.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
	logger    *zap.Logger
}

// NewSlackNotifier creates a notifier for the given channel.
func NewSlackNotifier(token, channelID string, logger *zap.Logger) *SlackNotifier {
	return &SlackNotifier{
		api:       slack.New(token),
		channelID: channelID,
		logger:    logger,
	}
}

// IdeaProcessed posts a short summary of the new idea.
func (n *SlackNotifier) IdeaProcessed(idea *models.Idea) {
	text := fmt.Sprintf("💡 New idea processed: *%s*\n%s\n`%s`",
		idea.Root.Label, idea.Insight.Summary, idea.ID)

	_, _, err := n.api.PostMessage(
		n.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		n.logger.Warn("slack announcement failed",
			zap.String("idea_id", idea.ID),
			zap.Error(err),
		)
	}
}
