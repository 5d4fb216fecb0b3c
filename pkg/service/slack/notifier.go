package slack

import (
	"context"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// MaxTextBytes is the longest message text posted; longer text is truncated on a rune boundary
const MaxTextBytes = 3000

// Notifier posts operator alerts to a Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.Notifier = &Notifier{}

// Option is a functional option for Notifier configuration
type Option func(*notifierConfig)

type notifierConfig struct {
	apiURL string
}

// WithAPIURL points the client at another Slack API endpoint, e.g. a test server
func WithAPIURL(url string) Option {
	return func(c *notifierConfig) {
		c.apiURL = url
	}
}

// New creates a Notifier with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	var cfg notifierConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var slackOpts []slack.Option
	if cfg.apiURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, slackOpts...),
		channelID: channelID,
	}, nil
}

// Notify posts text to the configured channel
func (n *Notifier) Notify(ctx context.Context, text string) error {
	if _, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(truncateToMaxBytes(text, MaxTextBytes), false),
	); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("channel_id", n.channelID))
	}
	return nil
}

// truncateToMaxBytes cuts s to at most max bytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
