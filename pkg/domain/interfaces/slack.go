package interfaces

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient defines the Slack operations the report delivery needs
type SlackClient interface {
	// PostMessage posts a message to a channel
	PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)

	// AuthTestContext verifies the client credentials
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}
