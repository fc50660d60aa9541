package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
)

// ShiftHandler exposes the shift catalog (fixed daily time windows).
type ShiftHandler struct {
	Shifts ShiftStore
}

func NewShiftHandler(s ShiftStore) *ShiftHandler { return &ShiftHandler{Shifts: s} }

type shiftReq struct {
	Position  uint32 `json:"position"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type shiftResp struct {
	ID        uint64 `json:"id"`
	Position  uint32 `json:"position"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func validClock(s string) bool {
	_, err := time.Parse("15:04:05", s)
	return err == nil
}

func (req shiftReq) validate() string {
	if !validClock(req.StartTime) || !validClock(req.EndTime) {
		return "start_time/end_time must be HH:MM:SS"
	}
	if req.StartTime >= req.EndTime {
		return "start_time must precede end_time"
	}
	return ""
}

// List returns active shifts in display order.
func (h *ShiftHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	shifts, err := h.Shifts.List(ctx)
	if err != nil {
		return storageError(c, err, "list shifts failed")
	}
	out := make([]shiftResp, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, shiftResp{ID: s.ID, Position: s.Position, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one active shift.
func (h *ShiftHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Shifts.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(c, err, "load shift failed")
	}
	return c.JSON(http.StatusOK, shiftResp{ID: s.ID, Position: s.Position, StartTime: s.StartTime, EndTime: s.EndTime})
}

// Create adds a shift to the catalog.
func (h *ShiftHandler) Create(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Shifts.Create(ctx, model.Shift{Position: req.Position, StartTime: req.StartTime, EndTime: req.EndTime})
	if err != nil {
		return storageError(c, err, "create shift failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update replaces the mutable fields of an active shift.
func (h *ShiftHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err = h.Shifts.Update(ctx, model.Shift{ID: id, Position: req.Position, StartTime: req.StartTime, EndTime: req.EndTime})
	if err != nil {
		return notFoundOr(c, err, "update shift failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Delete retires a shift (soft delete).
func (h *ShiftHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Shifts.Delete(ctx, id); err != nil {
		return notFoundOr(c, err, "delete shift failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
