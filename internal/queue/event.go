// Package queue defines the message payloads exchanged over the
// broker and the background consumer that turns them into emails.
package queue

// BookingCreatedEvent is published after a booking commits. It carries
// enough for downstream consumers to notify or log without querying
// the primary database. Delivery is best effort: a booking is never
// rolled back because its event could not be published.
type BookingCreatedEvent struct {
	BookingID     uint64  `json:"booking_id"`
	UserID        uint64  `json:"user_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	HallID        uint64  `json:"hall_id"`
	HallTitle     string  `json:"hall_title"`
	Date          string  `json:"date"`
	ShiftID       uint64  `json:"shift_id"`
	ShiftStart    string  `json:"shift_start"`
	ShiftEnd      string  `json:"shift_end"`
	Theme         string  `json:"theme"`
	TotalPrice    float64 `json:"total_price"`
	CreatedAt     string  `json:"created_at"`
}
