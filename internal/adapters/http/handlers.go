// Package http contains the echo handlers for the public API.
package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daywise/core/internal/application/services"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/notify"
	"github.com/daywise/core/internal/ports"
)

// identityContextKey is where the auth middleware stores the resolved identity.
const identityContextKey = "identity"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Registration failed", "error", err, "email", req.Email)
		if strings.Contains(err.Error(), "already exists") {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Registration failed")
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// Anonymous issues a guest session. Tasks created under it live in memory
// only and vanish on sign-out.
func (h *AuthHandler) Anonymous(c echo.Context) error {
	response, err := h.authService.Anonymous(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Guest sign-in failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Guest sign-in failed")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout handles sign-out for the current identity
func (h *AuthHandler) Logout(c echo.Context) error {
	identity := identityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}

	if err := h.authService.Logout(c.Request().Context(), *identity); err != nil {
		h.logger.Errorw("Logout failed", "error", err, "owner", identity.Owner.String())
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Signed out"})
}

// NotificationHandler exposes the pending notification queue.
type NotificationHandler struct {
	notifier *notify.Notifier
	logger   *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifier *notify.Notifier, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// Drain returns and clears the caller's pending notifications.
func (h *NotificationHandler) Drain(c echo.Context) error {
	identity := identityFromContext(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}

	return c.JSON(http.StatusOK, h.notifier.Drain(identity.Owner))
}

// identityFromContext returns the identity the auth middleware resolved, or
// nil when the request is unauthenticated.
func identityFromContext(c echo.Context) *ports.Identity {
	identity, ok := c.Get(identityContextKey).(*ports.Identity)
	if !ok {
		return nil
	}
	return identity
}
