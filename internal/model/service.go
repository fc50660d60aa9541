package model

import "time"

// Service is a priced add-on from the catalog (catering, DJ, ...).
//
// Fields:
//  ID          – primary key identifier.
//  Description – human readable label.
//  Price       – current unit price; bookings snapshot it at attach time.
//  IsActive    – whether the service can be attached.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Service struct {
	ID          uint64    // services.id
	Description string    // services.description
	Price       float64   // services.price
	IsActive    bool      // services.is_active
	CreatedAt   time.Time // services.created_at
	UpdatedAt   time.Time // services.updated_at
}
