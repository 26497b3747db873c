package youtube

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// ResolveChannelID turns a channel URL into a canonical channel ID.
//
// Resolution order:
//  1. /channel/<id> URLs are parsed directly, no network call.
//  2. /user/<name> URLs go through channels.list forUsername.
//  3. /@<handle> URLs go through channels.list forHandle, falling back to a
//     channel search preferring an exact custom-URL/title match.
//
// Any other input form is rejected as a validation error.
func (c *Client) ResolveChannelID(ctx context.Context, channelURL string) (string, error) {
	switch {
	case strings.Contains(channelURL, "youtube.com/channel/"):
		id := segmentAfter(channelURL, "youtube.com/channel/")
		return id, nil

	case strings.Contains(channelURL, "youtube.com/user/"):
		return c.resolveByUsername(ctx, segmentAfter(channelURL, "youtube.com/user/"))

	case strings.Contains(channelURL, "youtube.com/@"):
		return c.resolveByHandle(ctx, segmentAfter(channelURL, "youtube.com/@"))

	default:
		return "", NewValidationError(MsgInvalidChannelURL)
	}
}

// segmentAfter extracts the path segment following marker, trimming anything
// past the next slash.
func segmentAfter(s, marker string) string {
	rest := s[strings.Index(s, marker)+len(marker):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func (c *Client) resolveByUsername(ctx context.Context, username string) (string, error) {
	resp, err := c.svc.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Items) == 0 {
		return "", NewNotFoundError(MsgChannelNotFound)
	}
	return resp.Items[0].Id, nil
}

func (c *Client) resolveByHandle(ctx context.Context, handle string) (string, error) {
	resp, err := c.svc.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].Id, nil
	}

	// forHandle found nothing; fall back to a channel search for @handle.
	log.Debug().Str("handle", handle).Msg("forHandle empty, falling back to search")
	return c.searchByHandle(ctx, handle)
}

func (c *Client) searchByHandle(ctx context.Context, handle string) (string, error) {
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q("@" + handle).
		Type("channel").
		Context(ctx).
		Do()
	if err != nil {
		return "", Classify(err)
	}
	if len(resp.Items) == 0 {
		return "", NewNotFoundError(MsgChannelNotFound)
	}

	decoded := handle
	if d, err := url.PathUnescape(handle); err == nil {
		decoded = d
	}

	// Prefer an exact title match over the first search hit.
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Id == nil || item.Id.ChannelId == "" {
			continue
		}
		if item.Snippet.Title == decoded || item.Snippet.ChannelTitle == decoded {
			return item.Id.ChannelId, nil
		}
	}
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", NewNotFoundError(MsgChannelNotFound)
}
