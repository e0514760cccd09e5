package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daywise/core/internal/application/services"
)

// authMiddleware validates bearer tokens and stores the resolved identity in
// the request context. Ephemeral (guest) identities pass through like any
// other; the owner key they carry is what keeps their data local.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			identity, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.Warnw("Invalid token", "error", err, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("identity", identity)

			return next(c)
		}
	}
}
