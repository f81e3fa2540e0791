// Package queue defines the booking event payloads exchanged over
// the message broker, the publisher that emits them and the
// background consumer that records them.
package queue

// BookingCreatedEvent is published after a booking has been admitted
// and committed. It carries enough detail for downstream consumers
// to log, notify or feed analytics without querying the database.
type BookingCreatedEvent struct {
	BookingID      string `json:"booking_id"`
	UserID         uint64 `json:"user_id"`
	RoomID         uint64 `json:"room_id"`
	HotelName      string `json:"hotel_name"`
	RoomNumber     string `json:"room_number"`
	CheckInDate    string `json:"check_in_date"`
	CheckOutDate   string `json:"check_out_date"`
	NumberOfGuests uint32 `json:"number_of_guests"`
	TotalCents     uint32 `json:"total_cents"`
	CreatedAt      string `json:"created_at"`
}

// BookingCancelledEvent is published after a booking transitions to
// CANCELLED and its calendar slot has been released.
type BookingCancelledEvent struct {
	BookingID    string `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RoomID       uint64 `json:"room_id"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	CancelledAt  string `json:"cancelled_at"`
}

// Queue names. Both queues are declared durable by publisher and
// consumer alike so declaration order never matters.
const (
	CreatedQueue   = "booking.created"
	CancelledQueue = "booking.cancelled"
)
