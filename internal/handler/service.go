package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
)

// ServiceHandler exposes the catalog of priced add-on services.
type ServiceHandler struct {
	Services ServiceStore
}

func NewServiceHandler(s ServiceStore) *ServiceHandler { return &ServiceHandler{Services: s} }

type serviceReq struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type serviceResp struct {
	ID          uint64  `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (req serviceReq) validate() string {
	if strings.TrimSpace(req.Description) == "" {
		return "description required"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

// List returns all active services.
func (h *ServiceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	services, err := h.Services.List(ctx)
	if err != nil {
		return storageError(c, err, "list services failed")
	}
	out := make([]serviceResp, 0, len(services))
	for _, s := range services {
		out = append(out, serviceResp{ID: s.ID, Description: s.Description, Price: s.Price})
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one active service.
func (h *ServiceHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Services.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(c, err, "load service failed")
	}
	return c.JSON(http.StatusOK, serviceResp{ID: s.ID, Description: s.Description, Price: s.Price})
}

// Create adds a service to the catalog.
func (h *ServiceHandler) Create(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Services.Create(ctx, model.Service{Description: strings.TrimSpace(req.Description), Price: req.Price})
	if err != nil {
		return storageError(c, err, "create service failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update replaces the mutable fields of an active service. Existing
// attachments keep their snapshotted price.
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err = h.Services.Update(ctx, model.Service{ID: id, Description: strings.TrimSpace(req.Description), Price: req.Price})
	if err != nil {
		return notFoundOr(c, err, "update service failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Delete retires a service (soft delete).
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Services.Delete(ctx, id); err != nil {
		return notFoundOr(c, err, "delete service failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
