package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// Store is the storage capability the booking core depends on. The
// MySQL implementation lives in the repository package; tests supply
// an in-memory fake. Reads outside a transaction use read-committed
// semantics; the admission critical section runs inside InTx.
type Store interface {
	// InTx runs fn inside a single transaction. A nil return commits,
	// any error rolls back and is returned unchanged. Implementations
	// must guarantee that LockRoom serializes concurrent transactions
	// touching the same room so that a conflict check and the
	// subsequent insert are atomic with respect to other admissions.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// FindBookingByID returns the booking or ErrNotFound.
	FindBookingByID(ctx context.Context, id string) (*model.Booking, error)

	// FindBookingDetail returns the booking enriched with user, room
	// and hotel summaries, or ErrNotFound.
	FindBookingDetail(ctx context.Context, id string) (*BookingDetail, error)

	// ListBookingsByUser returns the user's bookings ordered by
	// creation time descending (newest first).
	ListBookingsByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error)
}

// Tx is the transactional surface available inside Store.InTx.
type Tx interface {
	// LockRoom acquires the per-room admission lock and verifies the
	// room exists, returning ErrNotFound for an unknown room. All
	// conflict checks and inserts for a room must happen after this
	// call within the same transaction.
	LockRoom(ctx context.Context, roomID uint64) error

	// CountOverlapping counts PENDING/CONFIRMED bookings for roomID
	// whose [check_in, check_out) interval overlaps [checkIn,
	// checkOut). excludeID, when non-empty, names a booking to
	// ignore; used when re-checking during an update.
	CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID string) (int, error)

	// InsertBooking persists a new booking row.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// FindBookingForUpdate loads a booking with a row lock so that a
	// status transition cannot race another writer. Returns
	// ErrNotFound when no such booking exists.
	FindBookingForUpdate(ctx context.Context, id string) (*model.Booking, error)

	// UpdateBookingStatus sets the booking's status and updated_at.
	UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}

// BookingDetail is a booking joined with display summaries of its
// user, room and hotel. Returned by Get for rendering; the embedded
// booking fields are authoritative.
type BookingDetail struct {
	Booking   model.Booking `json:"booking"`
	UserName  string        `json:"user_name"`
	UserEmail string        `json:"user_email"`
	RoomNum   string        `json:"room_number"`
	HotelName string        `json:"hotel_name"`
	HotelCity string        `json:"hotel_city"`
}
