package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/tatsumix0801/tube-get/internal/auth"
	"github.com/tatsumix0801/tube-get/internal/handler"
	"github.com/tatsumix0801/tube-get/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Video   *handler.VideoHandler
	Channel *handler.ChannelHandler
	Auth    *handler.AuthHandler
	Export  *handler.ExportHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given
// Fiber app. authGate enables the session guard on the data routes.
func Setup(app *fiber.App, h *Handlers, sessions *auth.Store, corsOrigins string, authGate bool) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics, no auth needed
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api")

	// Login gate
	authLimiter := middleware.NewAuthRateLimiter()
	api.Post("/auth", h.Auth.Login, authLimiter.Handler())
	api.Post("/logout", h.Auth.Logout)
	api.Get("/auth/check", h.Auth.Check)

	guard := middleware.NewAuthGuard(sessions, authGate)
	videoLimiter := middleware.NewVideoRateLimiter()
	exportLimiter := middleware.NewExportRateLimiter()

	// YouTube data routes
	yt := api.Group("/youtube", guard, videoLimiter.Handler())
	yt.Post("/apikey", h.Auth.ValidateAPIKey)
	yt.Get("/channel", h.Channel.GetChannel)
	yt.Get("/channel/images", h.Channel.GetChannelImages)
	yt.Get("/channel/check", h.Channel.CheckChannel)
	yt.Get("/videos", h.Video.GetVideos)
	yt.Get("/videos/all", h.Video.GetAllVideos)

	// Export routes
	exp := api.Group("/export", guard, exportLimiter.Handler())
	exp.Post("/csv", h.Export.ExportCSV)
	exp.Post("/excel", h.Export.ExportExcel)
	exp.Post("/pdf", h.Export.ExportPDF)
	exp.Get("/thumbnails", h.Export.ExportThumbnails)
}
