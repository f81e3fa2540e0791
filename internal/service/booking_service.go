package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// BookingService orchestrates validation, conflict checking and
// atomic commit for booking operations. It receives the resolved
// caller identity as an explicit argument on every call; there is no
// ambient principal lookup inside the core. Concurrency correctness
// rests entirely on the Store's transaction discipline: the
// check-then-insert sequence in Create runs inside a single
// transaction holding the room's admission lock.
type BookingService struct {
	store   Store
	checker *ConflictChecker

	// now is swappable in tests so the past check-in rule can be
	// exercised against fixed dates.
	now func() time.Time
}

// NewBookingService constructs a BookingService over the given store.
func NewBookingService(store Store, checker *ConflictChecker) *BookingService {
	if store == nil || checker == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{store: store, checker: checker, now: time.Now}
}

// CreateBookingInput carries the caller-validated parameters of an
// admission request. TotalCents is computed by the boundary (nights
// times the room's nightly price) and is opaque to the core.
type CreateBookingInput struct {
	UserID          uint64
	RoomID          uint64
	CheckIn         time.Time
	CheckOut        time.Time
	NumberOfGuests  uint32
	TotalCents      uint32
	SpecialRequests *string
}

// Create admits a new booking. Validation runs in a fixed order and
// the first failure wins: valid calendar dates, check-in before
// check-out, check-in not in the past, at least one guest. The
// conflict re-check and the insert then execute atomically inside
// one transaction; two concurrent admissions for overlapping ranges
// on the same room cannot both succeed. On success the booking is
// returned with status PENDING, payment status UNPAID and server
// timestamps. A failed Create leaves no booking behind.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return nil, fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	checkIn := dateOnly(in.CheckIn)
	checkOut := dateOnly(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	if checkIn.Before(dateOnly(s.now().UTC())) {
		return nil, fmt.Errorf("%w: check-in date is in the past", ErrValidation)
	}
	if in.NumberOfGuests < 1 {
		return nil, fmt.Errorf("%w: number of guests must be at least 1", ErrValidation)
	}

	now := s.now().UTC()
	b := &model.Booking{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		RoomID:          in.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  in.NumberOfGuests,
		TotalCents:      in.TotalCents,
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentUnpaid,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.store.InTx(ctx, func(tx Tx) error {
		if err := tx.LockRoom(ctx, b.RoomID); err != nil {
			return err
		}
		conflict, err := s.checker.HasConflict(ctx, tx, b.RoomID, checkIn, checkOut, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
		return tx.InsertBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Get returns the booking enriched with user, room and hotel
// summaries. It fails with ErrNotFound when the id is unknown and
// with ErrForbidden when the booking belongs to a different user;
// admins get no bypass here.
func (s *BookingService) Get(ctx context.Context, bookingID string, requestingUserID uint64) (*BookingDetail, error) {
	b, err := s.store.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != requestingUserID {
		return nil, ErrForbidden
	}
	return s.store.FindBookingDetail(ctx, bookingID)
}

// Cancel transitions a booking to CANCELLED. NotFound and ownership
// rules match Get. Cancelling a booking already in CANCELLED or
// COMPLETED fails with ErrInvalidState; the terminal states permit
// no transitions. The row lock, state check and update run in one
// transaction so a concurrent writer cannot interleave. After a
// successful cancel the room's calendar slot is released: subsequent
// admissions no longer see this booking.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, requestingUserID uint64) (*model.Booking, error) {
	var cancelled *model.Booking
	err := s.store.InTx(ctx, func(tx Tx) error {
		b, err := tx.FindBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.UserID != requestingUserID {
			return ErrForbidden
		}
		if b.Terminal() {
			return ErrInvalidState
		}
		now := s.now().UTC()
		if err := tx.UpdateBookingStatus(ctx, b.ID, model.BookingCancelled, now); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		b.UpdatedAt = now
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ListByUser returns the user's bookings newest first. limit and
// offset page through the result; a non-positive limit falls back to
// a default page size.
func (s *BookingService) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListBookingsByUser(ctx, userID, limit, offset)
}

// dateOnly truncates a timestamp to its UTC calendar date. Booking
// intervals are whole days; intra-day times never matter.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
