package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/tatsumix0801/tube-get/internal/auth"
	"github.com/tatsumix0801/tube-get/internal/youtube"
)

// AuthHandler serves the shared-password login gate and API key validation.
type AuthHandler struct {
	store  *auth.Store
	secure bool
}

// NewAuthHandler creates the auth handler. secure controls the session
// cookie's Secure flag (off for local development over plain HTTP).
func NewAuthHandler(store *auth.Store, secure bool) *AuthHandler {
	return &AuthHandler{store: store, secure: secure}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth {password}.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, youtube.NewValidationError(youtube.MsgPasswordRequired))
	}

	id, err := h.store.Login(req.Password)
	if err != nil {
		log.Warn().Str("ip_hash", hashIP(c.IP())).Msg("login rejected")
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    id,
		Expires:  time.Now().Add(h.store.TTL()),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"success": true})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if id := c.Cookies(auth.SessionCookie); id != "" {
		h.store.Logout(id)
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"success": true})
}

// Check handles GET /api/auth/check — reports whether the caller holds a
// valid session.
func (h *AuthHandler) Check(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":       true,
		"authenticated": h.store.Valid(c.Cookies(auth.SessionCookie)),
	})
}

type apiKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// ValidateAPIKey handles POST /api/youtube/apikey {apiKey} — probes the key
// against the YouTube API without storing it server-side.
func (h *AuthHandler) ValidateAPIKey(c fiber.Ctx) error {
	var req apiKeyRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(c, youtube.ErrAPIKeyRequired)
	}

	client, err := youtube.NewClient(c.Context(), req.APIKey)
	if err != nil {
		return fail(c, err)
	}
	if err := client.ValidateAPIKey(c.Context()); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "valid": true})
}
