package model

import "time"

// Role enumerates the closed set of account roles. The same string
// values are stored in the `users.role` column and carried in the
// JWT "role" claim, so there is exactly one encoding everywhere.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// User represents an account record as stored in the `users` table.
// Accounts are never hard-deleted; retirement flips IsActive to false,
// which also frees the login name for reuse.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Name         – display name.
//  Login        – login name, unique among active accounts.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of ADMIN, STAFF, CUSTOMER.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Login        string    // users.login
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
