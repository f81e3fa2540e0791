package model

import "time"

// Booking statuses. Only PENDING and CONFIRMED bookings occupy a
// room's calendar; CANCELLED and COMPLETED are terminal and never
// block other bookings. The service layer drives only the CANCELLED
// transition; CONFIRMED and COMPLETED are set by external
// collaborators (payment confirmation, stay completion).
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Payment statuses tracked on a booking. They are recorded but have
// no effect on calendar conflicts.
const (
	PaymentUnpaid   = "UNPAID"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

// Booking records a user's stay in a room over a half-open date
// range [CheckInDate, CheckOutDate): the check-out day itself is
// free, so back-to-back stays never conflict. Bookings are never
// physically deleted; cancellation flips the status.
//
// Fields:
//  ID              – opaque UUID identifier, generated on creation.
//  UserID          – owning user; immutable after creation.
//  RoomID          – booked room; immutable after creation.
//  CheckInDate     – first night of the stay (inclusive).
//  CheckOutDate    – departure day (exclusive).
//  NumberOfGuests  – guest count, at least 1.
//  TotalCents      – total price in cents, computed by the caller.
//  Status          – lifecycle state (see constants above).
//  PaymentStatus   – payment state (UNPAID, PAID, REFUNDED).
//  SpecialRequests – optional free text, no semantic effect.
//  CreatedAt       – creation timestamp (server-assigned).
//  UpdatedAt       – last update timestamp (server-assigned).
type Booking struct {
	ID              string    // bookings.id (CHAR(36) UUID)
	UserID          uint64    // bookings.user_id
	RoomID          uint64    // bookings.room_id
	CheckInDate     time.Time // bookings.check_in_date (DATE, UTC midnight)
	CheckOutDate    time.Time // bookings.check_out_date (DATE, UTC midnight)
	NumberOfGuests  uint32    // bookings.number_of_guests
	TotalCents      uint32    // bookings.total_cents
	Status          string    // bookings.status
	PaymentStatus   string    // bookings.payment_status
	SpecialRequests *string   // bookings.special_requests (nullable)
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}

// Blocking reports whether the booking occupies its room's calendar
// and therefore participates in conflict checks.
func (b *Booking) Blocking() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Terminal reports whether the booking is in a state that permits no
// further transitions.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}
