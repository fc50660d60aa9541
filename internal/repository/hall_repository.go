package repository

import (
	"context"
	"database/sql"

	"hallbooking/internal/model"
)

// HallRepo provides CRUD for the hall catalog. Reads are scoped to
// active rows; deletion is a soft delete.
type HallRepo struct{ DB *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

const hallCols = "id,title,address,latitude,longitude,capacity,price,is_active,created_at,updated_at"

// List returns all active halls.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+hallCols+" FROM halls WHERE is_active=1 ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Title, &h.Address, &h.Latitude, &h.Longitude,
			&h.Capacity, &h.Price, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

// GetByID returns one active hall, ErrNotFound otherwise.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	var h model.Hall
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+hallCols+" FROM halls WHERE id=? AND is_active=1 LIMIT 1", id).
		Scan(&h.ID, &h.Title, &h.Address, &h.Latitude, &h.Longitude,
			&h.Capacity, &h.Price, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return h, ErrNotFound
	}
	return h, err
}

// Create inserts a hall and returns its ID.
func (r *HallRepo) Create(ctx context.Context, h model.Hall) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO halls (title, address, latitude, longitude, capacity, price, is_active) VALUES (?,?,?,?,?,?,1)",
		h.Title, h.Address, h.Latitude, h.Longitude, h.Capacity, h.Price)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the mutable fields of an active hall.
func (r *HallRepo) Update(ctx context.Context, h model.Hall) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE halls SET title=?, address=?, latitude=?, longitude=?, capacity=?, price=?, updated_at=NOW()
		 WHERE id=? AND is_active=1`,
		h.Title, h.Address, h.Latitude, h.Longitude, h.Capacity, h.Price, h.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete soft-deletes a hall. Existing bookings keep their rows.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE halls SET is_active=0, updated_at=NOW() WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
