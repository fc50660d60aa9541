// Package middleware contains reusable HTTP middleware: bearer token
// verification, role gating, rate limiting and response caching.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
	"hallbooking/internal/repository"
	"hallbooking/internal/utils"
)

// AccountSource resolves account ids to accounts. Implemented by
// repository.UserRepo; kept as an interface so tests can stub it.
type AccountSource interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates the Bearer access token and injects the identity
// into the request context under "user_id" (uint64) and "role"
// (model.Role). The embedded id is re-resolved against the account
// store on every request: a deactivated account loses access
// immediately, even while its access token is cryptographically valid.
func JWTAuth(secret string, accounts AccountSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err == utils.ErrTokenExpired {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			defer cancel()
			u, err := accounts.GetByID(ctx, claims.UserID)
			if err == repository.ErrNotFound {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account inactive"})
			}
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account inactive"})
			}

			// The stored role is authoritative over the claim: a role
			// change takes effect without waiting for token expiry.
			c.Set(ctxUserID, u.ID)
			c.Set(ctxRole, u.Role)
			return next(c)
		}
	}
}
