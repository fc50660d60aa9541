package repository

import (
	"context"
	"database/sql"

	"hallbooking/internal/model"
)

// BookingServiceRepo records priced add-ons tied to bookings. There is
// deliberately no uniqueness constraint across attachments: a booking
// may carry the same service twice, tracked via quantity or separate
// rows. Detaching is a soft delete and has no effect on the booking's
// slot.
type BookingServiceRepo struct{ DB *sql.DB }

func NewBookingServiceRepo(db *sql.DB) *BookingServiceRepo { return &BookingServiceRepo{DB: db} }

// Attach adds a service line to a booking using the given price
// snapshot and returns the attachment ID.
func (r *BookingServiceRepo) Attach(ctx context.Context, bookingID, serviceID uint64, quantity uint32, price float64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO booking_services (booking_id, service_id, quantity, price, is_active) VALUES (?,?,?,?,1)",
		bookingID, serviceID, quantity, price)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// AttachmentDetail is an attachment joined with its service label.
type AttachmentDetail struct {
	ID          uint64  `json:"id"`
	BookingID   uint64  `json:"booking_id"`
	ServiceID   uint64  `json:"service_id"`
	Description string  `json:"description"`
	Quantity    uint32  `json:"quantity"`
	Price       float64 `json:"price"`
}

// ListForBooking returns the active attachments of one booking.
func (r *BookingServiceRepo) ListForBooking(ctx context.Context, bookingID uint64) ([]AttachmentDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT bs.id, bs.booking_id, bs.service_id, s.description, bs.quantity, bs.price
		 FROM booking_services bs
		 JOIN services s ON s.id = bs.service_id
		 WHERE bs.booking_id=? AND bs.is_active=1
		 ORDER BY bs.id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]AttachmentDetail, 0)
	for rows.Next() {
		var a AttachmentDetail
		if err := rows.Scan(&a.ID, &a.BookingID, &a.ServiceID, &a.Description, &a.Quantity, &a.Price); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// GetByID returns one active attachment, ErrNotFound otherwise.
func (r *BookingServiceRepo) GetByID(ctx context.Context, id uint64) (model.BookingService, error) {
	var a model.BookingService
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, booking_id, service_id, quantity, price, is_active, created_at
		 FROM booking_services WHERE id=? AND is_active=1 LIMIT 1`, id).
		Scan(&a.ID, &a.BookingID, &a.ServiceID, &a.Quantity, &a.Price, &a.IsActive, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

// Detach soft-deletes an attachment independently of booking state.
func (r *BookingServiceRepo) Detach(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE booking_services SET is_active=0 WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
