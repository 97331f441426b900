package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole allows only users whose role is in the given set.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c.Request().Context())
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !allowed[user.Role] {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// RequireAdmin allows only ADMIN users.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin)
}

// RequirePrivilege allows users holding the named privilege. ADMIN users
// pass regardless, since the admin role implies every privilege.
func RequirePrivilege(privilege string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFromContext(c.Request().Context())
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if user.Role != RoleAdmin && !user.HasPrivilege(privilege) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}
