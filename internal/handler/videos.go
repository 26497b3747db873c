package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/tatsumix0801/tube-get/internal/cache"
	"github.com/tatsumix0801/tube-get/internal/config"
	"github.com/tatsumix0801/tube-get/internal/fetcher"
	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/stats"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// VideoHandler serves the per-page and full-catalog video routes.
type VideoHandler struct {
	cfg    *config.Config
	cache  *cache.Cache
	redis  *cache.RedisTier
	driver *fetcher.Driver
}

func NewVideoHandler(cfg *config.Config, c *cache.Cache, r *cache.RedisTier, d *fetcher.Driver) *VideoHandler {
	return &VideoHandler{cfg: cfg, cache: c, redis: r, driver: d}
}

// GetVideos handles GET /api/youtube/videos — one uploads-playlist page plus
// page-level statistics, inside the server's execution budget.
func (h *VideoHandler) GetVideos(c fiber.Ctx) error {
	channelURL := fiber.Query[string](c, "channelUrl")
	if channelURL == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelURLRequired))
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.cfg.RequestBudget)
	defer cancel()

	client, err := youtube.NewClient(ctx, apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	channelID, err := h.resolveChannelID(ctx, client, channelURL)
	if err != nil {
		return fail(c, err)
	}

	opts := youtube.DefaultPageOptions()
	if n := fiber.Query[int](c, "maxResults"); n > 0 {
		opts.MaxVideos = n
	}
	opts.IncludeDeleted = fiber.Query[bool](c, "includeDeleted")
	opts.IncludeRestricted = fiber.Query(c, "includeRestricted", true)

	pageToken := fiber.Query[string](c, "pageToken")
	page, err := h.fetchPage(ctx, client, channelID, pageToken, opts)
	if err != nil {
		return fail(c, err)
	}

	var pageStats *model.ChannelStats
	if len(page.Videos) > 0 {
		pageStats, _ = stats.Calculate(page.Videos)
	}

	return c.JSON(model.VideosResponse{
		Success:       true,
		Videos:        page.Videos,
		NextPageToken: page.NextPageToken,
		TotalResults:  page.TotalResults,
		Stats:         pageStats,
	})
}

// GetAllVideos handles GET /api/youtube/videos/all — the full-catalog fetch
// driven page by page, with partial results surfaced instead of errors.
func (h *VideoHandler) GetAllVideos(c fiber.Ctx) error {
	channelURL := fiber.Query[string](c, "channelUrl")
	if channelURL == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelURLRequired))
	}

	client, err := youtube.NewClient(c.Context(), apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	channelID, err := h.resolveChannelID(c.Context(), client, channelURL)
	if err != nil {
		return fail(c, err)
	}

	opts := youtube.DefaultPageOptions()
	opts.IncludeDeleted = fiber.Query[bool](c, "includeDeleted")
	opts.IncludeRestricted = fiber.Query(c, "includeRestricted", true)

	// Second cache tier: another instance may already hold this catalog.
	var tiered []model.FormattedVideo
	if found, err := h.redis.Get(c.Context(), cache.ChannelVideosKey(channelID), &tiered); err == nil && found {
		Metrics.CacheHits.Inc()
		h.cache.Set(cache.ChannelVideosKey(channelID), tiered)
	}

	fetch := func(ctx context.Context, pageToken string) (*model.PageResult, error) {
		page, err := client.FetchVideoPage(ctx, channelID, pageToken, opts)
		if err == nil {
			Metrics.PagesFetched.Inc()
			Metrics.VideosFetched.Add(float64(len(page.Videos)))
		}
		return page, err
	}
	recoverFn := func(ctx context.Context, videoIDs []string) []model.FormattedVideo {
		return client.SpecificVideos(ctx, videoIDs)
	}

	result, err := h.driver.FetchAll(c.Context(), channelID, fetch, recoverFn)
	if err != nil {
		return fail(c, err)
	}

	if !result.FromCache && !result.Partial {
		if err := h.redis.Set(c.Context(), cache.ChannelVideosKey(channelID), result.Videos); err != nil {
			log.Warn().Err(err).Msg("redis tier set failed")
		}
	}

	videos := result.Videos
	if period := fiber.Query[string](c, "period"); period != "" {
		videos = stats.FilterByPeriod(videos, period)
	}

	var allStats *model.ChannelStats
	if len(videos) > 0 {
		allStats, _ = stats.Calculate(videos)
	}

	log.Info().Str("channelId", channelID).Int("videos", len(videos)).
		Bool("fromCache", result.FromCache).Msg("full catalog served")

	return c.JSON(model.AllVideosResponse{
		Success:   true,
		Videos:    videos,
		Stats:     allStats,
		Partial:   result.Partial,
		Truncated: result.Truncated,
		Message:   result.Message,
	})
}

// resolveChannelID resolves and caches the URL-to-ID mapping. Direct
// /channel/ URLs resolve without network activity, so caching them is free
// but harmless.
func (h *VideoHandler) resolveChannelID(ctx context.Context, client *youtube.Client, channelURL string) (string, error) {
	key := cache.ChannelIDKey(channelURL)
	if id, ok := h.cache.Get(key).(string); ok {
		Metrics.CacheHits.Inc()
		return id, nil
	}
	Metrics.CacheMisses.Inc()

	id, err := client.ResolveChannelID(ctx, channelURL)
	if err != nil {
		return "", err
	}
	h.cache.Set(key, id)
	return id, nil
}

// fetchPage serves one playlist page, cached per page token and filter flags.
func (h *VideoHandler) fetchPage(ctx context.Context, client *youtube.Client, channelID, pageToken string, opts youtube.PageOptions) (*model.PageResult, error) {
	key := cache.ChannelVideosPageKey(channelID, pageKeySuffix(pageToken, opts))
	if page, ok := h.cache.Get(key).(*model.PageResult); ok {
		Metrics.CacheHits.Inc()
		return page, nil
	}
	Metrics.CacheMisses.Inc()

	page, err := client.FetchVideoPage(ctx, channelID, pageToken, opts)
	if err != nil {
		return nil, err
	}
	Metrics.PagesFetched.Inc()
	Metrics.VideosFetched.Add(float64(len(page.Videos)))

	// Partial pages stay out of the cache so a retry can complete them.
	if page.Method == youtube.MethodPlaylistItems {
		h.cache.Set(key, page)
	}
	return page, nil
}

func pageKeySuffix(pageToken string, opts youtube.PageOptions) string {
	suffix := pageToken
	if opts.IncludeDeleted {
		suffix += ":d"
	}
	if opts.IncludeRestricted {
		suffix += ":r"
	}
	return suffix
}
