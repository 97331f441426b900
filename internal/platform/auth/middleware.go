package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UserLoader resolves the authenticated user and their effective
// privileges from the session's user id.
type UserLoader interface {
	LoadSessionUser(ctx context.Context, userID uuid.UUID) (*SessionUser, error)
}

// SessionMiddleware authenticates requests from the session cookie.
// The cookie carries a signed token whose "sid" claim is the row id of
// a sessions table entry; the entry must exist and be unexpired.
func SessionMiddleware(secret string, store SessionStore, loader UserLoader, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			sessionID, err := ParseToken(secret, cookie.Value)
			if err != nil {
				logger.Debug().Err(err).Msg("invalid session token")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			sess, err := store.GetByID(c.Request().Context(), sessionID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}
			if time.Now().After(sess.ExpiresAt) {
				_ = store.Delete(c.Request().Context(), sess.ID)
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			user, err := loader.LoadSessionUser(c.Request().Context(), sess.UserID)
			if err != nil {
				logger.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("session user lookup failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			ctx := WithUser(c.Request().Context(), user)
			ctx = context.WithValue(ctx, sessionIDKey, sess.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DevAuthMiddleware injects a fixed admin identity. Development only.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := &SessionUser{
				ID:    uuid.MustParse("00000000-0000-0000-0000-000000000001"),
				Email: "dev@localhost",
				Name:  "Dev Admin",
				Role:  RoleAdmin,
			}
			ctx := WithUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
