package handler

import (
	"context"
	"time"

	"hallbooking/internal/model"
	"hallbooking/internal/repository"
)

// Store interfaces decouple the handlers from the MySQL repositories
// so the HTTP layer can be tested with mocks. The repository types
// satisfy them directly.

// UserStore provides account persistence.
type UserStore interface {
	Create(ctx context.Context, name, login, password string, role model.Role, cost int) (uint64, error)
	GetByLogin(ctx context.Context, login string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Update(ctx context.Context, id uint64, patch repository.UserPatch, cost int) error
	Deactivate(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
}

// TokenStore provides refresh token persistence and revocation.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// BookingStore provides booking persistence. Create and Update surface
// repository.ErrSlotTaken when the (hall, date, shift) triple is
// already held by another active booking.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking, services []repository.AttachmentRecord) error
	Update(ctx context.Context, id uint64, patch repository.BookingPatch) error
	Release(ctx context.Context, id uint64) error
	IsAvailable(ctx context.Context, hallID uint64, date string, shiftID uint64) (bool, error)
	ListAll(ctx context.Context) ([]repository.BookingDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
	GetByID(ctx context.Context, id uint64) (repository.BookingDetail, error)
}

// AttachmentStore provides booking service attachments.
type AttachmentStore interface {
	Attach(ctx context.Context, bookingID, serviceID uint64, quantity uint32, price float64) (uint64, error)
	ListForBooking(ctx context.Context, bookingID uint64) ([]repository.AttachmentDetail, error)
	GetByID(ctx context.Context, id uint64) (model.BookingService, error)
	Detach(ctx context.Context, id uint64) error
}

// HallStore provides hall catalog persistence.
type HallStore interface {
	List(ctx context.Context) ([]model.Hall, error)
	GetByID(ctx context.Context, id uint64) (model.Hall, error)
	Create(ctx context.Context, h model.Hall) (uint64, error)
	Update(ctx context.Context, h model.Hall) error
	Delete(ctx context.Context, id uint64) error
}

// ShiftStore provides shift catalog persistence.
type ShiftStore interface {
	List(ctx context.Context) ([]model.Shift, error)
	GetByID(ctx context.Context, id uint64) (model.Shift, error)
	Create(ctx context.Context, s model.Shift) (uint64, error)
	Update(ctx context.Context, s model.Shift) error
	Delete(ctx context.Context, id uint64) error
}

// ServiceStore provides service catalog persistence.
type ServiceStore interface {
	List(ctx context.Context) ([]model.Service, error)
	GetByID(ctx context.Context, id uint64) (model.Service, error)
	Create(ctx context.Context, s model.Service) (uint64, error)
	Update(ctx context.Context, s model.Service) error
	Delete(ctx context.Context, id uint64) error
}
