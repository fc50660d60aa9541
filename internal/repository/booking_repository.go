package repository

import (
	"context"
	"database/sql"
	"strings"

	"hallbooking/internal/model"
)

// BookingRepo is the availability ledger and booking store. The
// (hall, date, shift) invariant lives in the database: the bookings
// table carries UNIQUE KEY (hall_id, booking_date, shift_id, released)
// and active rows all hold released=0, so reserving a slot is a single
// INSERT that either commits or bounces with a duplicate-key error.
// MySQL has no partial unique indexes; storing the row's own id in
// `released` on cancellation is what frees the key for the next row.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) DB() *sql.DB { return r.db }

// AttachmentRecord is one service line inserted together with a new
// booking. Price is the snapshot taken by the caller.
type AttachmentRecord struct {
	ServiceID uint64
	Quantity  uint32
	Price     float64
}

// Create atomically reserves the slot and persists the booking plus
// its initial service attachments in one transaction. A duplicate-key
// rejection on the slot key surfaces as ErrSlotTaken; nothing is
// written in that case. The generated ID is stored on b.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, services []AttachmentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (booking_date, hall_id, shift_id, user_id, theme, total_price, released)
		 VALUES (?,?,?,?,?,?,0)`,
		b.Date, b.HallID, b.ShiftID, b.UserID, b.Theme, b.TotalPrice)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(services) > 0 {
		q := "INSERT INTO booking_services (booking_id, service_id, quantity, price, is_active) VALUES "
		args := make([]interface{}, 0, len(services)*4)
		for i, s := range services {
			if i > 0 {
				q += ","
			}
			q += "(?,?,?,?,1)"
			args = append(args, b.ID, s.ServiceID, s.Quantity, s.Price)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookingPatch carries the whitelisted modifiable fields. Nil fields
// are left untouched; date and shift changes move the slot key and are
// therefore re-validated by the same unique constraint.
type BookingPatch struct {
	Date       *string
	ShiftID    *uint64
	Theme      *string
	TotalPrice *float64
}

// Update applies a patch to an active booking. ErrNotFound when the
// booking is absent or already released; ErrSlotTaken when the new
// (hall, date, shift) triple collides with another active booking.
func (r *BookingRepo) Update(ctx context.Context, id uint64, patch BookingPatch) error {
	var exists uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM bookings WHERE id=? AND released=0 LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if patch.Date != nil {
		sets = append(sets, "booking_date=?")
		args = append(args, *patch.Date)
	}
	if patch.ShiftID != nil {
		sets = append(sets, "shift_id=?")
		args = append(args, *patch.ShiftID)
	}
	if patch.Theme != nil {
		sets = append(sets, "theme=?")
		args = append(args, *patch.Theme)
	}
	if patch.TotalPrice != nil {
		sets = append(sets, "total_price=?")
		args = append(args, *patch.TotalPrice)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err = r.db.ExecContext(ctx,
		"UPDATE bookings SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=? AND released=0",
		args...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// Release cancels a booking: released takes the row's own id, which
// tombstones the row and frees the slot key in the same statement.
// ErrNotFound when the booking is absent or already released, so a
// second cancellation is visible to the caller.
func (r *BookingRepo) Release(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET released=id, updated_at=NOW() WHERE id=? AND released=0", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// IsAvailable reports whether no active booking holds the triple.
// This is a read-only convenience for availability displays; Reserve
// correctness never depends on it.
func (r *BookingRepo) IsAvailable(ctx context.Context, hallID uint64, date string, shiftID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE hall_id=? AND booking_date=? AND shift_id=? AND released=0",
		hallID, date, shiftID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// BookingDetail is a booking joined with its customer, hall and shift
// labels, as returned to clients.
type BookingDetail struct {
	ID         uint64  `json:"id"`
	Date       string  `json:"date"`
	HallID     uint64  `json:"hall_id"`
	HallTitle  string  `json:"hall_title"`
	ShiftID    uint64  `json:"shift_id"`
	ShiftStart string  `json:"shift_start"`
	ShiftEnd   string  `json:"shift_end"`
	UserID     uint64  `json:"user_id"`
	Customer   string  `json:"customer"`
	Theme      string  `json:"theme"`
	TotalPrice float64 `json:"total_price"`
	CreatedAt  string  `json:"created_at"`
}

const detailQuery = `SELECT b.id, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.hall_id, h.title,
       b.shift_id, s.start_time, s.end_time, b.user_id, u.name, b.theme, b.total_price, b.created_at
FROM bookings b
JOIN halls h ON h.id = b.hall_id
JOIN shifts s ON s.id = b.shift_id
JOIN users u ON u.id = b.user_id
WHERE b.released = 0`

func (r *BookingRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanDetail(row rowScanner) (BookingDetail, error) {
	var (
		d         BookingDetail
		createdAt sql.NullTime
	)
	err := row.Scan(&d.ID, &d.Date, &d.HallID, &d.HallTitle,
		&d.ShiftID, &d.ShiftStart, &d.ShiftEnd, &d.UserID, &d.Customer,
		&d.Theme, &d.TotalPrice, &createdAt)
	if err != nil {
		return d, err
	}
	if createdAt.Valid {
		d.CreatedAt = createdAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return d, nil
}

// ListAll returns every active booking system-wide, newest date first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailQuery+" ORDER BY b.booking_date DESC")
}

// ListByUser returns the active bookings owned by one account.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	return r.queryDetails(ctx, detailQuery+" AND b.user_id = ? ORDER BY b.booking_date DESC", userID)
}

// GetByID returns one active booking. ErrNotFound covers both absent
// and released rows, so clients cannot distinguish the two.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (BookingDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+" AND b.id = ?", id))
	if err == sql.ErrNoRows {
		return d, ErrNotFound
	}
	return d, err
}
