package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hallbooking/internal/model"
	"hallbooking/internal/queue"
	"hallbooking/internal/repository"
)

// Publisher emits a booking created event. Failures are the caller's
// to ignore; a booking is never rolled back over one.
type Publisher func(ctx context.Context, ev queue.BookingCreatedEvent) error

// BookingHandler implements the booking engine endpoints. The slot
// invariant itself lives in storage; the handler validates input,
// snapshots prices, and maps storage rejections to HTTP statuses.
type BookingHandler struct {
	Bookings    BookingStore
	Attachments AttachmentStore
	Halls       HallStore
	Shifts      ShiftStore
	Services    ServiceStore
	Users       UserStore
	Publish     Publisher // optional, nil disables events
}

func NewBookingHandler(b BookingStore, a AttachmentStore, halls HallStore, shifts ShiftStore, services ServiceStore, users UserStore, pub Publisher) *BookingHandler {
	return &BookingHandler{
		Bookings: b, Attachments: a,
		Halls: halls, Shifts: shifts, Services: services, Users: users,
		Publish: pub,
	}
}

// ----- DTOs -----

type bookingServiceReq struct {
	ServiceID uint64 `json:"service_id"`
	Quantity  uint32 `json:"quantity"`
}

type createBookingReq struct {
	HallID     uint64              `json:"hall_id"`
	Date       string              `json:"date"`
	ShiftID    uint64              `json:"shift_id"`
	Theme      string              `json:"theme"`
	TotalPrice float64             `json:"total_price"`
	Services   []bookingServiceReq `json:"services"`
}

type modifyBookingReq struct {
	Date       *string  `json:"date"`
	ShiftID    *uint64  `json:"shift_id"`
	Theme      *string  `json:"theme"`
	TotalPrice *float64 `json:"total_price"`
}

type attachReq struct {
	ServiceID uint64 `json:"service_id"`
	Quantity  uint32 `json:"quantity"`
}

// Create books a hall for a date and shift. The reservation is a
// single atomic insert: when two requests race for the same triple,
// storage rejects the loser and the handler answers 409 slot_taken.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Theme = strings.TrimSpace(req.Theme)
	if !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Theme == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme required"})
	}
	if req.TotalPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_price must not be negative"})
	}
	if req.HallID == 0 || req.ShiftID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id/shift_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, req.HallID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown hall"})
		}
		return storageError(c, err, "load hall failed")
	}
	shift, err := h.Shifts.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown shift"})
		}
		return storageError(c, err, "load shift failed")
	}

	// Snapshot current service prices; the attachment keeps this price
	// even when the catalog changes later.
	attachments := make([]repository.AttachmentRecord, 0, len(req.Services))
	for _, sr := range req.Services {
		if sr.Quantity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "service quantity must be positive"})
		}
		svc, err := h.Services.GetByID(ctx, sr.ServiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
			}
			return storageError(c, err, "load service failed")
		}
		attachments = append(attachments, repository.AttachmentRecord{
			ServiceID: svc.ID, Quantity: sr.Quantity, Price: svc.Price,
		})
	}

	b := model.Booking{
		Date: req.Date, HallID: req.HallID, ShiftID: req.ShiftID,
		UserID: uid, Theme: req.Theme, TotalPrice: req.TotalPrice,
	}
	if err := h.Bookings.Create(ctx, &b, attachments); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot_taken"})
		}
		return storageError(c, err, "create booking failed")
	}

	h.publishCreated(ctx, b, hall, shift)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          b.ID,
		"date":        b.Date,
		"hall_id":     b.HallID,
		"shift_id":    b.ShiftID,
		"theme":       b.Theme,
		"total_price": b.TotalPrice,
	})
}

// publishCreated emits the notification event after commit. Best
// effort: every failure here is logged and dropped.
func (h *BookingHandler) publishCreated(ctx context.Context, b model.Booking, hall model.Hall, shift model.Shift) {
	if h.Publish == nil {
		return
	}
	u, err := h.Users.GetByID(ctx, b.UserID)
	if err != nil {
		log.Printf("booking %d: load customer for event failed: %v", b.ID, err)
		return
	}
	ev := queue.BookingCreatedEvent{
		BookingID:     b.ID,
		UserID:        b.UserID,
		CustomerName:  u.Name,
		CustomerEmail: u.Login,
		HallID:        hall.ID,
		HallTitle:     hall.Title,
		Date:          b.Date,
		ShiftID:       shift.ID,
		ShiftStart:    shift.StartTime,
		ShiftEnd:      shift.EndTime,
		Theme:         b.Theme,
		TotalPrice:    b.TotalPrice,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Publish(pubCtx, ev); err != nil {
			log.Printf("booking %d: publish event failed: %v", b.ID, err)
		}
	}()
}

// Availability reports whether a (hall, date, shift) triple is free.
// Purely informational: creation never trusts this read and relies on
// the storage constraint instead, so the answer may be stale by the
// time a booking attempt lands.
func (h *BookingHandler) Availability(c echo.Context) error {
	hallID, err1 := strconv.ParseUint(c.QueryParam("hall_id"), 10, 64)
	shiftID, err2 := strconv.ParseUint(c.QueryParam("shift_id"), 10, 64)
	date := c.QueryParam("date")
	if err1 != nil || err2 != nil || !validDate(date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id, shift_id and date (YYYY-MM-DD) required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	free, err := h.Bookings.IsAvailable(ctx, hallID, date, shiftID)
	if err != nil {
		return storageError(c, err, "availability check failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hall_id": hallID, "date": date, "shift_id": shiftID, "available": free,
	})
}

// Modify patches an active booking. Only date, shift, theme and total
// price are modifiable; hall and owner never change. Moving the slot
// is revalidated by the same storage constraint as creation.
func (h *BookingHandler) Modify(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req modifyBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Date == nil && req.ShiftID == nil && req.Theme == nil && req.TotalPrice == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Date != nil && !validDate(*req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if req.Theme != nil && strings.TrimSpace(*req.Theme) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme must not be empty"})
	}
	if req.TotalPrice != nil && *req.TotalPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_price must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if req.ShiftID != nil {
		if _, err := h.Shifts.GetByID(ctx, *req.ShiftID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown shift"})
			}
			return storageError(c, err, "load shift failed")
		}
	}

	patch := repository.BookingPatch{
		Date: req.Date, ShiftID: req.ShiftID,
		Theme: req.Theme, TotalPrice: req.TotalPrice,
	}
	if err := h.Bookings.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot_taken"})
		}
		return notFoundOr(c, err, "update booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}

// Cancel releases an active booking's slot. The row is kept as a
// tombstone; the freed triple is immediately bookable again. A second
// cancel finds no active row and answers 404.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Bookings.Release(ctx, id); err != nil {
		return notFoundOr(c, err, "cancel booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

// List returns active bookings. Customers see their own; staff and
// admins see everything.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var details []repository.BookingDetail
	if currentRole(c) == model.RoleCustomer {
		details, err = h.Bookings.ListByUser(ctx, uid)
	} else {
		details, err = h.Bookings.ListAll(ctx)
	}
	if err != nil {
		return storageError(c, err, "list bookings failed")
	}
	return c.JSON(http.StatusOK, details)
}

// Get returns one active booking. Customers cannot see other
// accounts' bookings; those answer 404 rather than confirming the
// slot is held.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(c, err, "load booking failed")
	}
	if currentRole(c) == model.RoleCustomer && d.UserID != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, d)
}

// visibleBooking loads a booking and applies the customer visibility
// rule shared by the attachment endpoints.
func (h *BookingHandler) visibleBooking(ctx context.Context, c echo.Context, id uint64) (repository.BookingDetail, bool, error) {
	d, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return repository.BookingDetail{}, false, notFoundOr(c, err, "load booking failed")
	}
	uid, err := getUserID(c)
	if err != nil {
		return repository.BookingDetail{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if currentRole(c) == model.RoleCustomer && d.UserID != uid {
		return repository.BookingDetail{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return d, true, nil
}

// AttachService adds a priced add-on to an active booking, snapshotting
// the service's current price. The same service may be attached again.
func (h *BookingHandler) AttachService(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req attachReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, ok, resp := h.visibleBooking(ctx, c, id); !ok {
		return resp
	}
	svc, err := h.Services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
		}
		return storageError(c, err, "load service failed")
	}

	attID, err := h.Attachments.Attach(ctx, id, svc.ID, req.Quantity, svc.Price)
	if err != nil {
		return storageError(c, err, "attach service failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": attID, "price": svc.Price})
}

// ListServices returns the active attachments of one booking.
func (h *BookingHandler) ListServices(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, ok, resp := h.visibleBooking(ctx, c, id); !ok {
		return resp
	}
	atts, err := h.Attachments.ListForBooking(ctx, id)
	if err != nil {
		return storageError(c, err, "list attachments failed")
	}
	return c.JSON(http.StatusOK, atts)
}

// DetachService soft-deletes one attachment and echoes the detached
// line. Works regardless of the owning booking's state.
func (h *BookingHandler) DetachService(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	att, err := h.Attachments.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(c, err, "detach service failed")
	}
	if err := h.Attachments.Detach(ctx, id); err != nil {
		return notFoundOr(c, err, "detach service failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "detached",
		"id":         att.ID,
		"booking_id": att.BookingID,
		"service_id": att.ServiceID,
		"quantity":   att.Quantity,
		"price":      att.Price,
	})
}
