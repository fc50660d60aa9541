package model

import "time"

// Hall represents a bookable venue as stored in the `halls` table.
// A hall is one axis of the booking key (hall, date, shift).
//
// Fields:
//  ID        – primary key identifier.
//  Title     – display title, unique among active halls.
//  Address   – street address.
//  Latitude  – geographic latitude (nil when not captured).
//  Longitude – geographic longitude (nil when not captured).
//  Capacity  – maximum number of guests.
//  Price     – base rental price.
//  IsActive  – whether the hall is offered for booking.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Hall struct {
	ID        uint64    // halls.id
	Title     string    // halls.title
	Address   string    // halls.address
	Latitude  *float64  // halls.latitude (nullable)
	Longitude *float64  // halls.longitude (nullable)
	Capacity  uint32    // halls.capacity
	Price     float64   // halls.price
	IsActive  bool      // halls.is_active
	CreatedAt time.Time // halls.created_at
	UpdatedAt time.Time // halls.updated_at
}
