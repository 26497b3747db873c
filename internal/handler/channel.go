package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tatsumix0801/tube-get/internal/cache"
	"github.com/tatsumix0801/tube-get/internal/model"
	"github.com/tatsumix0801/tube-get/internal/stats"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// ChannelHandler serves channel metadata and image-URL routes.
type ChannelHandler struct {
	cache *cache.Cache
}

func NewChannelHandler(c *cache.Cache) *ChannelHandler {
	return &ChannelHandler{cache: c}
}

// GetChannel handles GET /api/youtube/channel?url=&apiKey=
func (h *ChannelHandler) GetChannel(c fiber.Ctx) error {
	channelURL := fiber.Query[string](c, "url")
	if channelURL == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelURLRequired))
	}

	client, err := youtube.NewClient(c.Context(), apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	channelID, err := client.ResolveChannelID(c.Context(), channelURL)
	if err != nil {
		return fail(c, err)
	}

	key := cache.ChannelInfoKey(channelID)
	if info, ok := h.cache.Get(key).(*model.ChannelInfo); ok {
		Metrics.CacheHits.Inc()
		return c.JSON(fiber.Map{"success": true, "channel": info})
	}
	Metrics.CacheMisses.Inc()

	info, err := client.ChannelInfo(c.Context(), channelID)
	if err != nil {
		return fail(c, err)
	}
	h.cache.Set(key, info)

	return c.JSON(fiber.Map{"success": true, "channel": info})
}

// GetChannelImages handles GET /api/youtube/channel/images?channelId=&apiKey=
func (h *ChannelHandler) GetChannelImages(c fiber.Ctx) error {
	channelID := fiber.Query[string](c, "channelId")
	if channelID == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelIDRequired))
	}

	client, err := youtube.NewClient(c.Context(), apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	images, err := client.ChannelImageURLs(c.Context(), channelID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "images": images})
}

// CheckChannel handles GET /api/youtube/channel/check?channelUrl=&apiKey= —
// reports whether any recent video spread well.
func (h *ChannelHandler) CheckChannel(c fiber.Ctx) error {
	key := fiber.Query[string](c, "channelUrl")
	if key == "" {
		return fail(c, youtube.NewValidationError(youtube.MsgChannelURLRequired))
	}

	client, err := youtube.NewClient(c.Context(), apiKeyFrom(c))
	if err != nil {
		return fail(c, err)
	}

	channelID, err := client.ResolveChannelID(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}

	videos, ok := h.cache.Get(cache.ChannelVideosKey(channelID)).([]model.FormattedVideo)
	if !ok {
		// Without a cached catalog, judge from the newest page only.
		page, err := client.FetchVideoPage(c.Context(), channelID, "", youtube.DefaultPageOptions())
		if err != nil {
			return fail(c, err)
		}
		videos = page.Videos
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"isGoodChannel": stats.IsGoodChannel(videos),
	})
}
