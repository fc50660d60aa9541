package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
)

// HallHandler exposes the hall catalog. Reads are public; mutations
// are gated to ADMIN and STAFF in the router.
type HallHandler struct {
	Halls HallStore
}

func NewHallHandler(h HallStore) *HallHandler { return &HallHandler{Halls: h} }

type hallReq struct {
	Title     string   `json:"title"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Capacity  uint32   `json:"capacity"`
	Price     float64  `json:"price"`
}

type hallResp struct {
	ID        uint64   `json:"id"`
	Title     string   `json:"title"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Capacity  uint32   `json:"capacity"`
	Price     float64  `json:"price"`
}

func toHallResp(h model.Hall) hallResp {
	return hallResp{
		ID: h.ID, Title: h.Title, Address: h.Address,
		Latitude: h.Latitude, Longitude: h.Longitude,
		Capacity: h.Capacity, Price: h.Price,
	}
}

func (req hallReq) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title required"
	}
	if strings.TrimSpace(req.Address) == "" {
		return "address required"
	}
	if req.Capacity == 0 {
		return "capacity must be positive"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

// List returns all active halls.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	halls, err := h.Halls.List(ctx)
	if err != nil {
		return storageError(c, err, "list halls failed")
	}
	out := make([]hallResp, 0, len(halls))
	for _, hl := range halls {
		out = append(out, toHallResp(hl))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one active hall.
func (h *HallHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hl, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(c, err, "load hall failed")
	}
	return c.JSON(http.StatusOK, toHallResp(hl))
}

// Create adds a hall to the catalog.
func (h *HallHandler) Create(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Halls.Create(ctx, model.Hall{
		Title: strings.TrimSpace(req.Title), Address: strings.TrimSpace(req.Address),
		Latitude: req.Latitude, Longitude: req.Longitude,
		Capacity: req.Capacity, Price: req.Price,
	})
	if err != nil {
		return storageError(c, err, "create hall failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update replaces the mutable fields of an active hall.
func (h *HallHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err = h.Halls.Update(ctx, model.Hall{
		ID: id, Title: strings.TrimSpace(req.Title), Address: strings.TrimSpace(req.Address),
		Latitude: req.Latitude, Longitude: req.Longitude,
		Capacity: req.Capacity, Price: req.Price,
	})
	if err != nil {
		return notFoundOr(c, err, "update hall failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Delete retires a hall (soft delete). Existing bookings keep their
// hall reference.
func (h *HallHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Halls.Delete(ctx, id); err != nil {
		return notFoundOr(c, err, "delete hall failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
