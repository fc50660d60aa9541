// Package handler defines the HTTP handlers.
package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
	"hallbooking/internal/repository"
)

// dbTimeout bounds every per-request database call.
const dbTimeout = 5 * time.Second

// getUserID extracts the user_id placed in the context by the JWT
// middleware.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentRole extracts the role placed in the context by the JWT
// middleware. Empty when absent.
func currentRole(c echo.Context) model.Role {
	switch t := c.Get("role").(type) {
	case model.Role:
		return t
	case string:
		return model.Role(t)
	}
	return ""
}

// paramID parses the :id route parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// storageError distinguishes a storage timeout from any other internal
// failure. A timed-out or unreachable database is a 503 so clients can
// retry, not a generic 500.
func storageError(c echo.Context, err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

// notFoundOr maps repository.ErrNotFound to a 404 and everything else
// through storageError.
func notFoundOr(c echo.Context, err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return storageError(c, err, msg)
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validDate accepts calendar dates in YYYY-MM-DD form only.
func validDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
