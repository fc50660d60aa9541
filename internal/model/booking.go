package model

import "time"

// Booking allocates one hall for one date and one shift to one
// account. Among rows where Released is zero, the (hall, date, shift)
// triple is unique; cancellation stores the row's own id in Released,
// which both tombstones the row and frees the triple for a brand-new
// booking. A released booking is never reactivated.
//
// Fields:
//  ID         – primary key identifier.
//  Date       – booked calendar date, "YYYY-MM-DD".
//  HallID     – booked hall.
//  ShiftID    – booked shift.
//  UserID     – owning account.
//  Theme      – party theme / description text.
//  TotalPrice – agreed total, snapshot at creation.
//  Released   – 0 while active; equals ID once cancelled.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Booking struct {
	ID         uint64    // bookings.id
	Date       string    // bookings.booking_date
	HallID     uint64    // bookings.hall_id
	ShiftID    uint64    // bookings.shift_id
	UserID     uint64    // bookings.user_id
	Theme      string    // bookings.theme
	TotalPrice float64   // bookings.total_price
	Released   uint64    // bookings.released
	CreatedAt  time.Time // bookings.created_at
	UpdatedAt  time.Time // bookings.updated_at
}

// IsActive reports whether the booking still holds its slot.
func (b Booking) IsActive() bool { return b.Released == 0 }

// BookingService is a priced add-on attached to a booking. Price is a
// snapshot of the service price at attach time, not a live reference.
// The same service may be attached more than once.
type BookingService struct {
	ID        uint64    // booking_services.id
	BookingID uint64    // booking_services.booking_id
	ServiceID uint64    // booking_services.service_id
	Quantity  uint32    // booking_services.quantity
	Price     float64   // booking_services.price
	IsActive  bool      // booking_services.is_active
	CreatedAt time.Time // booking_services.created_at
}
