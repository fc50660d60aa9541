package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/config"
	"hallbooking/internal/model"
	"hallbooking/internal/repository"
)

// UserHandler exposes account management for admins plus self-service
// profile updates.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, u UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u}
}

type updateUserReq struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// List returns every account, including retired ones. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return storageError(c, err, "list users failed")
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id": u.ID, "name": u.Name, "login": u.Login,
			"role": u.Role, "is_active": u.IsActive,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Update patches an account. Self-service for name and password; role
// changes require ADMIN. Admins may patch any account.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role := currentRole(c)
	if id != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	patch := repository.UserPatch{Name: req.Name, Password: req.Password}
	if req.Role != nil {
		if role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		r := strings.ToUpper(strings.TrimSpace(*req.Role))
		if !model.ValidRole(r) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		mr := model.Role(r)
		patch.Role = &mr
	}
	if patch.Name == nil && patch.Password == nil && patch.Role == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
	}
	if patch.Password != nil && *patch.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Update(ctx, id, patch, h.Cfg.BcryptCost); err != nil {
		return notFoundOr(c, err, "update user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Deactivate retires an account (soft delete). Admin only. The
// account's sessions die on the next authenticated request because the
// JWT middleware re-resolves accounts against storage.
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Deactivate(ctx, id); err != nil {
		return notFoundOr(c, err, "deactivate user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deactivated"})
}
