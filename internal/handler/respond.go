// Package handler contains the Fiber HTTP handlers for the API surface.
package handler

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v3"

	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// hashIP shortens an IP to an irreversible prefix for log correlation.
func hashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])[:12]
}

// fail writes the failure envelope for err, mapping the error category to an
// HTTP status. Every error body is {"success": false, "error": "<localized>"}.
func fail(c fiber.Ctx, err error) error {
	apiErr := youtube.Classify(err)

	status := fiber.StatusInternalServerError
	category := "unknown"
	switch apiErr.Category {
	case youtube.CategoryValidation:
		status, category = fiber.StatusBadRequest, "validation"
	case youtube.CategoryAuth:
		status, category = fiber.StatusUnauthorized, "auth"
	case youtube.CategoryNotFound:
		status, category = fiber.StatusNotFound, "not_found"
	case youtube.CategoryQuota:
		status, category = fiber.StatusTooManyRequests, "quota"
	case youtube.CategoryNetwork:
		status, category = fiber.StatusBadGateway, "network"
	}
	Metrics.APIErrors.WithLabelValues(category).Inc()

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   apiErr.Message,
	})
}

// apiKeyFrom pulls the operator-supplied API key from the query string or the
// X-API-Key header.
func apiKeyFrom(c fiber.Ctx) string {
	if k := fiber.Query[string](c, "apiKey"); k != "" {
		return k
	}
	return c.Get("X-API-Key")
}
