package youtube

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/tatsumix0801/tube-get/internal/model"
)

// Method tags reported in PageResult so callers can distinguish a clean page
// from one salvaged after a mid-pipeline failure.
const (
	MethodPlaylistItems        = "playlistItems"
	MethodPlaylistItemsPartial = "playlistItems-partial"
)

// fallbackSubscriberCount keeps spread rates finite when a channel hides or
// lacks a subscriber count.
const fallbackSubscriberCount = 1000

const detailBatchSize = 50

// PageOptions control filtering within one playlist page.
type PageOptions struct {
	// MaxVideos caps the page size request (upstream hard limit is 50).
	MaxVideos int
	// IncludeDeleted keeps videos missing snippet or statistics.
	IncludeDeleted bool
	// IncludeRestricted keeps partially populated videos, tagged restricted.
	IncludeRestricted bool
}

// DefaultPageOptions returns the defaults: up to 500 videos, deleted entries
// dropped, restricted entries kept.
func DefaultPageOptions() PageOptions {
	return PageOptions{MaxVideos: 500, IncludeRestricted: true}
}

// FetchVideoPage fetches exactly one page of the channel's uploads playlist,
// resolves full details for the page's video IDs, filters and formats them,
// and returns the page together with the upstream continuation token.
//
// A page whose playlist items yield zero usable video IDs still returns the
// continuation token and total count so the caller can keep paging past
// deleted-only stretches. If a failure occurs after some videos were already
// formatted, those are returned as a partial page instead of an error.
func (c *Client) FetchVideoPage(ctx context.Context, channelID, pageToken string, opts PageOptions) (*model.PageResult, error) {
	if opts.MaxVideos <= 0 {
		opts.MaxVideos = 500
	}

	uploadsID, subscriberCount, err := c.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	pageSize := int64(detailBatchSize)
	if int64(opts.MaxVideos) < pageSize {
		pageSize = int64(opts.MaxVideos)
	}

	call := c.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(uploadsID).
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	playlist, err := call.Do()
	if err != nil {
		return nil, Classify(err)
	}

	var totalResults int64
	if playlist.PageInfo != nil {
		totalResults = playlist.PageInfo.TotalResults
	}

	videoIDs := make([]string, 0, len(playlist.Items))
	for _, item := range playlist.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			continue
		}
		videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
	}

	if len(videoIDs) == 0 {
		log.Debug().
			Str("channelId", channelID).
			Str("nextPageToken", playlist.NextPageToken).
			Msg("playlist page has no usable video ids, forwarding continuation")
		return &model.PageResult{
			Videos:        []model.FormattedVideo{},
			NextPageToken: playlist.NextPageToken,
			TotalResults:  totalResults,
			Method:        MethodPlaylistItems,
		}, nil
	}

	videos, fetchErr := c.videoDetails(ctx, videoIDs, subscriberCount, opts)
	if fetchErr != nil && len(videos) == 0 {
		return nil, Classify(fetchErr)
	}

	// Sort the page newest first.
	sort.SliceStable(videos, func(i, j int) bool {
		return publishedTime(videos[i].PublishedAt).After(publishedTime(videos[j].PublishedAt))
	})

	method := MethodPlaylistItems
	nextToken := playlist.NextPageToken
	if fetchErr != nil {
		// Salvage what was formatted before the failure; the lost token
		// means the caller stops paging here.
		log.Warn().Err(fetchErr).
			Str("channelId", channelID).
			Int("salvaged", len(videos)).
			Msg("detail fetch failed mid-page, returning partial page")
		method = MethodPlaylistItemsPartial
		nextToken = ""
	}

	log.Debug().
		Str("channelId", channelID).
		Int("videos", len(videos)).
		Bool("hasNextPage", nextToken != "").
		Msg("page fetch complete")

	return &model.PageResult{
		Videos:        videos,
		NextPageToken: nextToken,
		TotalResults:  totalResults,
		Method:        method,
	}, nil
}

// uploadsPlaylist returns the channel's uploads playlist ID and subscriber
// count (defaulted when hidden or absent).
func (c *Client) uploadsPlaylist(ctx context.Context, channelID string) (string, int64, error) {
	resp, err := c.svc.Channels.List([]string{"contentDetails", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", 0, Classify(err)
	}
	if len(resp.Items) == 0 {
		return "", 0, NewNotFoundError(MsgChannelNotFound)
	}

	ch := resp.Items[0]
	subscriberCount := int64(fallbackSubscriberCount)
	if ch.Statistics != nil && !ch.Statistics.HiddenSubscriberCount && ch.Statistics.SubscriberCount > 0 {
		subscriberCount = int64(ch.Statistics.SubscriberCount)
	}

	if ch.ContentDetails == nil || ch.ContentDetails.RelatedPlaylists == nil ||
		ch.ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", 0, NewNotFoundError(MsgNoUploadsPlaylist)
	}
	return ch.ContentDetails.RelatedPlaylists.Uploads, subscriberCount, nil
}

// videoDetails batch-fetches full details for the given IDs and formats the
// survivors. On a mid-batch failure it returns whatever was formatted so far
// together with the error.
func (c *Client) videoDetails(ctx context.Context, videoIDs []string, subscriberCount int64, opts PageOptions) ([]model.FormattedVideo, error) {
	videos := make([]model.FormattedVideo, 0, len(videoIDs))

	for start := 0; start < len(videoIDs); start += detailBatchSize {
		end := min(start+detailBatchSize, len(videoIDs))

		resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics", "status", "topicDetails"}).
			Id(videoIDs[start:end]...).
			Context(ctx).
			Do()
		if err != nil {
			return videos, err
		}

		for _, v := range resp.Items {
			// Tombstoned: nothing but an ID remains.
			if v.Snippet == nil && v.Status == nil && v.Statistics == nil {
				continue
			}
			// Partially populated: dropped unless deleted entries are
			// explicitly wanted, then kept restricted if allowed.
			if v.Snippet == nil || v.Statistics == nil {
				if !opts.IncludeDeleted || !opts.IncludeRestricted {
					continue
				}
				videos = append(videos, formatRestrictedVideo(v))
				continue
			}
			videos = append(videos, formatVideo(v, subscriberCount))
		}
	}
	return videos, nil
}

// formatVideo builds the canonical record for a fully populated video.
func formatVideo(v *ytapi.Video, subscriberCount int64) model.FormattedVideo {
	duration := ""
	if v.ContentDetails != nil {
		duration = FormatDuration(v.ContentDetails.Duration)
	}

	viewCount := int64(v.Statistics.ViewCount)

	fv := model.FormattedVideo{
		ID:           v.Id,
		Title:        v.Snippet.Title,
		Description:  v.Snippet.Description,
		PublishedAt:  v.Snippet.PublishedAt,
		Thumbnail:    bestThumbnail(v.Snippet.Thumbnails),
		Duration:     duration,
		ViewCount:    FormatCount(v.Statistics.ViewCount),
		LikeCount:    FormatCount(v.Statistics.LikeCount),
		CommentCount: FormatCount(v.Statistics.CommentCount),
		SpreadRate:   SpreadRate(viewCount, subscriberCount),
		URL:          watchURLPrefix + v.Id,
		Tags:         orEmpty(v.Snippet.Tags),
		Topics:       topicIDs(v.TopicDetails),
	}
	return fv
}

// formatRestrictedVideo builds a placeholder record for a video whose
// snippet or statistics the API withheld.
func formatRestrictedVideo(v *ytapi.Video) model.FormattedVideo {
	fv := model.FormattedVideo{
		ID:           v.Id,
		Title:        fmt.Sprintf("[制限付き動画] %s", v.Id),
		Description:  "動画の詳細は表示できません",
		PublishedAt:  time.Now().UTC().Format(time.RFC3339),
		Duration:     "N/A",
		ViewCount:    "N/A",
		LikeCount:    "N/A",
		CommentCount: "N/A",
		SpreadRate:   0,
		URL:          watchURLPrefix + v.Id,
		Tags:         []string{},
		Topics:       topicIDs(v.TopicDetails),
		Restricted:   true,
	}

	if v.Snippet != nil {
		if v.Snippet.Title != "" {
			fv.Title = v.Snippet.Title
		}
		if v.Snippet.Description != "" {
			fv.Description = v.Snippet.Description
		}
		if v.Snippet.PublishedAt != "" {
			fv.PublishedAt = v.Snippet.PublishedAt
		}
		fv.Thumbnail = bestThumbnail(v.Snippet.Thumbnails)
		fv.Tags = orEmpty(v.Snippet.Tags)
	}
	if v.ContentDetails != nil && v.ContentDetails.Duration != "" {
		fv.Duration = FormatDuration(v.ContentDetails.Duration)
	}
	if v.Statistics != nil {
		fv.ViewCount = FormatCount(v.Statistics.ViewCount)
		fv.LikeCount = FormatCount(v.Statistics.LikeCount)
		fv.CommentCount = FormatCount(v.Statistics.CommentCount)
	}
	if v.Status != nil {
		fv.PrivacyStatus = v.Status.PrivacyStatus
	}
	return fv
}

// SpecificVideos fetches named video IDs directly. It is a best-effort
// recovery path: any failure yields an empty slice, never an error. Spread
// rates are 0 because no subscriber count is available here.
func (c *Client) SpecificVideos(ctx context.Context, videoIDs []string) []model.FormattedVideo {
	if len(videoIDs) == 0 {
		return nil
	}

	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		log.Error().Err(err).Strs("videoIds", videoIDs).Msg("specific video fetch failed")
		return nil
	}

	videos := make([]model.FormattedVideo, 0, len(resp.Items))
	for _, v := range resp.Items {
		fv := model.FormattedVideo{
			ID:           v.Id,
			Title:        fmt.Sprintf("動画 %s", v.Id),
			Description:  "",
			PublishedAt:  time.Now().UTC().Format(time.RFC3339),
			Duration:     FormatDuration("PT0S"),
			ViewCount:    "0",
			LikeCount:    "0",
			CommentCount: "0",
			SpreadRate:   0,
			URL:          watchURLPrefix + v.Id,
			Tags:         []string{},
			Topics:       []string{},
		}
		if v.Snippet != nil {
			if v.Snippet.Title != "" {
				fv.Title = v.Snippet.Title
			}
			fv.Description = v.Snippet.Description
			if v.Snippet.PublishedAt != "" {
				fv.PublishedAt = v.Snippet.PublishedAt
			}
			fv.Thumbnail = bestThumbnail(v.Snippet.Thumbnails)
			fv.Tags = orEmpty(v.Snippet.Tags)
		}
		if v.ContentDetails != nil && v.ContentDetails.Duration != "" {
			fv.Duration = FormatDuration(v.ContentDetails.Duration)
		}
		if v.Statistics != nil {
			fv.ViewCount = FormatCount(v.Statistics.ViewCount)
			fv.LikeCount = FormatCount(v.Statistics.LikeCount)
			fv.CommentCount = FormatCount(v.Statistics.CommentCount)
		}
		videos = append(videos, fv)
	}

	log.Debug().Int("fetched", len(videos)).Strs("videoIds", videoIDs).Msg("specific videos fetched")
	return videos
}

// ChannelInfo fetches and reshapes the channel's metadata.
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	resp, err := c.svc.Channels.List([]string{"snippet", "statistics", "brandingSettings", "topicDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, Classify(err)
	}
	if len(resp.Items) == 0 {
		return nil, NewNotFoundError(MsgChannelNotFound)
	}

	ch := resp.Items[0]
	info := &model.ChannelInfo{
		ID:       ch.Id,
		Keywords: []string{},
		Topics:   []string{},
	}
	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
		info.Description = ch.Snippet.Description
		info.CustomURL = ch.Snippet.CustomUrl
		info.PublishedAt = ch.Snippet.PublishedAt
		info.Country = ch.Snippet.Country
		info.Thumbnails = channelThumbnails(ch.Snippet.Thumbnails)
	}
	if ch.Statistics != nil {
		info.SubscriberCount = FormatCount(ch.Statistics.SubscriberCount)
		info.VideoCount = FormatCount(ch.Statistics.VideoCount)
		info.ViewCount = FormatCount(ch.Statistics.ViewCount)
	}
	if ch.BrandingSettings != nil {
		if ch.BrandingSettings.Image != nil {
			info.Banner = ch.BrandingSettings.Image.BannerExternalUrl
		}
		if ch.BrandingSettings.Channel != nil {
			info.Keywords = parseKeywords(ch.BrandingSettings.Channel.Keywords)
		}
	}
	if ch.TopicDetails != nil {
		info.Topics = orEmpty(ch.TopicDetails.TopicCategories)
	}
	return info, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// ChannelImageURLs returns the channel's icon and banner download URLs with
// filenames safe for saving.
func (c *Client) ChannelImageURLs(ctx context.Context, channelID string) (*model.ChannelImageURLs, error) {
	resp, err := c.svc.Channels.List([]string{"snippet", "brandingSettings"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, Classify(err)
	}
	if len(resp.Items) == 0 {
		return nil, NewNotFoundError(MsgChannelNotFound)
	}

	ch := resp.Items[0]
	urls := &model.ChannelImageURLs{}

	title := channelID
	var iconURL string
	if ch.Snippet != nil {
		if ch.Snippet.Title != "" {
			title = unsafeFilenameChars.ReplaceAllString(ch.Snippet.Title, "_")
		}
		iconURL = bestThumbnail(ch.Snippet.Thumbnails)
	}
	if iconURL != "" {
		urls.Icon = &model.ImageURL{URL: iconURL, Filename: title + "_icon.jpg"}
	}
	if ch.BrandingSettings != nil && ch.BrandingSettings.Image != nil &&
		ch.BrandingSettings.Image.BannerExternalUrl != "" {
		urls.Banner = &model.ImageURL{
			URL:      ch.BrandingSettings.Image.BannerExternalUrl,
			Filename: title + "_banner.jpg",
		}
	}
	return urls, nil
}

func bestThumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	switch {
	case t.High != nil && t.High.Url != "":
		return t.High.Url
	case t.Medium != nil && t.Medium.Url != "":
		return t.Medium.Url
	case t.Default != nil && t.Default.Url != "":
		return t.Default.Url
	default:
		return ""
	}
}

func channelThumbnails(t *ytapi.ThumbnailDetails) model.Thumbnails {
	out := model.Thumbnails{}
	if t == nil {
		return out
	}
	conv := func(th *ytapi.Thumbnail) *model.Thumbnail {
		if th == nil {
			return nil
		}
		return &model.Thumbnail{URL: th.Url, Width: th.Width, Height: th.Height}
	}
	out.Default = conv(t.Default)
	out.Medium = conv(t.Medium)
	out.High = conv(t.High)
	out.Standard = conv(t.Standard)
	out.Maxres = conv(t.Maxres)
	return out
}

func topicIDs(t *ytapi.VideoTopicDetails) []string {
	if t == nil {
		return []string{}
	}
	return orEmpty(t.RelevantTopicIds)
}

// parseKeywords splits the brandingSettings keyword blob, which quotes
// multi-word entries.
func parseKeywords(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	var cur []rune
	inQuotes := false
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			cur = append(cur, r)
		}
	}
	flush()
	if out == nil {
		return []string{}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func publishedTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
