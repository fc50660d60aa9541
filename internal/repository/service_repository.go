package repository

import (
	"context"
	"database/sql"

	"hallbooking/internal/model"
)

// ServiceRepo provides CRUD for the add-on service catalog.
type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

const serviceCols = "id,description,price,is_active,created_at,updated_at"

// List returns all active services.
func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+serviceCols+" FROM services WHERE is_active=1 ORDER BY description")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	services := make([]model.Service, 0)
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Description, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetByID returns one active service, ErrNotFound otherwise.
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+serviceCols+" FROM services WHERE id=? AND is_active=1 LIMIT 1", id).
		Scan(&s.ID, &s.Description, &s.Price, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// Create inserts a service and returns its ID.
func (r *ServiceRepo) Create(ctx context.Context, s model.Service) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO services (description, price, is_active) VALUES (?,?,1)",
		s.Description, s.Price)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the mutable fields of an active service. Changing
// the price never touches existing attachments: those keep the
// snapshot taken when they were created.
func (r *ServiceRepo) Update(ctx context.Context, s model.Service) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE services SET description=?, price=?, updated_at=NOW() WHERE id=? AND is_active=1",
		s.Description, s.Price, s.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete soft-deletes a service.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE services SET is_active=0, updated_at=NOW() WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
