package repository

import (
	"context"
	"database/sql"

	"hallbooking/internal/model"
)

// ShiftRepo provides CRUD for the shift catalog (the fixed time
// windows shared by all halls and dates).
type ShiftRepo struct{ DB *sql.DB }

func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{DB: db} }

const shiftCols = "id,position,start_time,end_time,is_active,created_at,updated_at"

// List returns active shifts in display order.
func (r *ShiftRepo) List(ctx context.Context) ([]model.Shift, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+shiftCols+" FROM shifts WHERE is_active=1 ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shifts := make([]model.Shift, 0)
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(&s.ID, &s.Position, &s.StartTime, &s.EndTime,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// GetByID returns one active shift, ErrNotFound otherwise.
func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (model.Shift, error) {
	var s model.Shift
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+shiftCols+" FROM shifts WHERE id=? AND is_active=1 LIMIT 1", id).
		Scan(&s.ID, &s.Position, &s.StartTime, &s.EndTime, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// Create inserts a shift and returns its ID.
func (r *ShiftRepo) Create(ctx context.Context, s model.Shift) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO shifts (position, start_time, end_time, is_active) VALUES (?,?,?,1)",
		s.Position, s.StartTime, s.EndTime)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the mutable fields of an active shift.
func (r *ShiftRepo) Update(ctx context.Context, s model.Shift) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE shifts SET position=?, start_time=?, end_time=?, updated_at=NOW() WHERE id=? AND is_active=1",
		s.Position, s.StartTime, s.EndTime, s.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete soft-deletes a shift.
func (r *ShiftRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE shifts SET is_active=0, updated_at=NOW() WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
