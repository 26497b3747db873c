package youtube

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// Channel used to probe whether an API key is accepted (Google Developers).
const keyProbeChannelID = "UC_x5XG1OV2P6uZZ5FSM9Ttw"

// Client wraps a YouTube Data API v3 service bound to one operator-supplied
// API key. Construction is cheap and performed per request; it makes no
// network calls.
type Client struct {
	svc *ytapi.Service
}

// NewClient builds a client for the given API key. A missing or blank key is
// rejected as a validation error before any network activity. Extra options
// (custom endpoint, HTTP client) are for tests.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := ytapi.NewService(ctx, all...)
	if err != nil {
		return nil, Classify(err)
	}
	return &Client{svc: svc}, nil
}

// ValidateAPIKey checks the key by fetching a single well-known channel
// snippet. Returns nil when the key is accepted.
func (c *Client) ValidateAPIKey(ctx context.Context) error {
	_, err := c.svc.Channels.List([]string{"snippet"}).
		Id(keyProbeChannelID).
		Context(ctx).
		Do()
	if err != nil {
		log.Warn().Err(err).Msg("api key validation failed")
		return Classify(err)
	}
	log.Debug().Msg("api key validation succeeded")
	return nil
}
