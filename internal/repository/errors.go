// Package repository implements the persistence layer on top of
// database/sql. Sentinel errors defined here let handlers map storage
// outcomes to HTTP statuses without inspecting driver errors. The most
// important one is ErrSlotTaken: it is produced only from a genuine
// duplicate-key rejection by MySQL, never from a prior availability
// read, so two concurrent reservations of the same slot can never both
// succeed.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrSlotTaken is returned when inserting or moving a booking collides
// with the unique (hall, date, shift) key of another active booking.
// Handlers translate it into HTTP 409.
var ErrSlotTaken = errors.New("slot already booked")

// ErrNotFound is returned when the requested row does not exist or has
// been soft-deleted. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrLoginExists is returned when registering a login name that an
// active account already uses. Handlers translate it into HTTP 409.
var ErrLoginExists = errors.New("login already exists")

const mysqlDupEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate-key
// rejection (error 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDupEntry
}
