package model

import "time"

// Shift is a fixed catalog time window (e.g. Morning 09:00–13:00)
// reused across all halls and dates. It is not date-specific; the
// date axis lives on the booking itself.
//
// Fields:
//  ID        – primary key identifier.
//  Position  – display order among shifts.
//  StartTime – window start, "HH:MM:SS".
//  EndTime   – window end, "HH:MM:SS".
//  IsActive  – whether the shift can be booked.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Shift struct {
	ID        uint64    // shifts.id
	Position  uint32    // shifts.position
	StartTime string    // shifts.start_time
	EndTime   string    // shifts.end_time
	IsActive  bool      // shifts.is_active
	CreatedAt time.Time // shifts.created_at
	UpdatedAt time.Time // shifts.updated_at
}
