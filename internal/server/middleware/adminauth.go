package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"iana-intake/internal/common/auth"
	"iana-intake/internal/common/logger"
	"iana-intake/internal/models"
	"iana-intake/internal/store"
)

// AdminUsers resolves a verified identity-provider subject to a staff record.
type AdminUsers interface {
	GetBySubject(ctx context.Context, subjectID string) (*models.AdminUser, error)
}

// adminUserKey is the echo context key holding the authenticated staff user.
const adminUserKey = "adminUser"

// AdminAuth verifies the Bearer token against the identity provider and
// requires a staff record whose role is exactly "admin". All checks run on
// every request; there is no session cache, so a revoked token or demoted
// record takes effect immediately.
func AdminAuth(verifier auth.Verifier, users AdminUsers, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access denied"})
			}

			subject, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				log.WithError(err).Warn("admin token verification failed", nil)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access denied"})
			}

			user, err := users.GetBySubject(c.Request().Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
				}
				log.WithError(err).Error("admin user lookup failed", nil)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
			if user.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied"})
			}

			c.Set(adminUserKey, user)
			return next(c)
		}
	}
}

// AdminUserFrom returns the staff user stashed by AdminAuth, if any.
func AdminUserFrom(c echo.Context) *models.AdminUser {
	user, _ := c.Get(adminUserKey).(*models.AdminUser)
	return user
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
