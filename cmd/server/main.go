package main

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tatsumix0801/tube-get/internal/auth"
	"github.com/tatsumix0801/tube-get/internal/cache"
	"github.com/tatsumix0801/tube-get/internal/config"
	"github.com/tatsumix0801/tube-get/internal/fetcher"
	"github.com/tatsumix0801/tube-get/internal/handler"
	"github.com/tatsumix0801/tube-get/internal/middleware"
	"github.com/tatsumix0801/tube-get/internal/router"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "tube-get")
	handler.InitMetrics()

	memCache := cache.New(cfg.CacheTTL)
	redisTier := cache.NewRedisTier(cfg.RedisURL, cfg.CacheTTL)
	defer redisTier.Close()

	driverOpts := fetcher.DefaultOptions()
	driverOpts.MaxPages = cfg.MaxPages
	driverOpts.MaxVideos = cfg.MaxVideos
	driverOpts.PageTimeout = cfg.PageTimeout
	driverOpts.KnownMissingIDs = cfg.KnownMissingVideoIDs
	driver := fetcher.New(memCache, driverOpts)

	sessions := auth.NewStore(cfg.AdminPassword, cfg.SessionTTL)

	app := fiber.New(fiber.Config{
		AppName:      "tube-get API",
		ServerHeader: "tube-get",
		BodyLimit:    50 * 1024 * 1024, // export payloads carry full video lists
	})

	h := &router.Handlers{
		Video:   handler.NewVideoHandler(cfg, memCache, redisTier, driver),
		Channel: handler.NewChannelHandler(memCache),
		Auth:    handler.NewAuthHandler(sessions, cfg.Environment == "production"),
		Export:  handler.NewExportHandler(),
		Health:  handler.NewHealthHandler(redisTier.Client()),
	}
	router.Setup(app, h, sessions, cfg.CORSOrigins, cfg.AdminPassword != "")

	middleware.Logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("tube-get backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		middleware.Logger.Fatal().Err(err).Msg("server exited")
	}
}
