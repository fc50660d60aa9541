package repository

import (
	"context"
	"database/sql"
	"strings"

	"hallbooking/internal/model"
	"hallbooking/internal/utils"
)

// UserRepo persists accounts. Logins are unique among active rows:
// retirement (is_active=0) frees the login for a new registration.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,login,password_hash,role,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Create registers an account and returns its ID. The login is
// normalized to lower case and checked against active rows first.
func (r *UserRepo) Create(ctx context.Context, name, login, password string, role model.Role, cost int) (uint64, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if _, err := r.GetByLogin(ctx, login); err == nil {
		return 0, ErrLoginExists
	} else if err != ErrNotFound {
		return 0, err
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, login, password_hash, role, is_active) VALUES (?,?,?,?,1)",
		name, login, hash, string(role))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByLogin fetches an active account by normalized login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (model.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE login=? AND is_active=1 LIMIT 1", login))
}

// GetByID fetches an account by id regardless of active state; the
// caller decides whether an inactive account is acceptable.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UserPatch carries optional account changes. Nil fields are left
// untouched. Password is re-hashed before storage.
type UserPatch struct {
	Name     *string
	Password *string
	Role     *model.Role
}

// Update applies a patch to an active account.
func (r *UserRepo) Update(ctx context.Context, id uint64, patch UserPatch, cost int) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if patch.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *patch.Name)
	}
	if patch.Password != nil {
		hash, err := utils.HashPassword(*patch.Password, cost)
		if err != nil {
			return err
		}
		sets = append(sets, "password_hash=?")
		args = append(args, hash)
	}
	if patch.Role != nil {
		sets = append(sets, "role=?")
		args = append(args, string(*patch.Role))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+", updated_at=NOW() WHERE id=? AND is_active=1",
		args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Deactivate retires an account. Idempotence is not offered here: a
// second call reports ErrNotFound like any other soft-deleted row.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=0, updated_at=NOW() WHERE id=? AND is_active=1", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// List returns all accounts, active and retired, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// requireAffected maps "zero rows matched" onto ErrNotFound. The DSN
// sets clientFoundRows, so an update that re-submits a row's current
// values still counts as a match.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
