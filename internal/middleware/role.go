package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
)

// RequireRole enforces that the authenticated account's role is a
// member of the operation's allowed set. It is a pure check with no
// side effects and assumes JWTAuth ran earlier in the chain. A missing
// or unknown role is treated the same as a disallowed one.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(model.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
