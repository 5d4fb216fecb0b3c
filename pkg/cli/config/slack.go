package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds flags for failure notifications
type Slack struct {
	botToken  string `masq:"secret"`
	channelID string
	apiURL    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post failure notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("PETPAL_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID receiving failure notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("PETPAL_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured reports whether both token and channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Configure returns a notifier, or nil when Slack is not configured. Setting
// only one of token and channel is an error.
func (x *Slack) Configure() (*slack.Notifier, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if !x.IsConfigured() {
		return nil, goerr.Wrap(ErrInvalidConfig, "both slack-bot-token and slack-channel-id are required",
			goerr.V("has_token", x.botToken != ""),
			goerr.V("channel_id", x.channelID),
		)
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}

	notifier, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return notifier, nil
}
