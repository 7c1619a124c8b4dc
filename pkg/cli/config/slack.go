package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Slack holds Slack configuration for report delivery
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for posting reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("TICKETBOARD_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel ID that receives ticket reports",
			Category:    "Slack",
			Sources:     cli.EnvVars("TICKETBOARD_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
	}
}

// IsConfigured checks if Slack is properly configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// LogValue returns structured log value, masking the token
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("hasOAuthToken", s.OAuthToken != ""),
		slog.String("channel", s.ChannelID),
	)
}
