package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// seedBooking inserts a booking row directly into the store with the
// given status, bypassing admission validation.
func seedBooking(t *testing.T, store *memStore, id string, roomID uint64, in, out time.Time, status string) {
	t.Helper()
	err := store.InTx(context.Background(), func(tx Tx) error {
		return tx.InsertBooking(context.Background(), &model.Booking{
			ID: id, UserID: 7, RoomID: roomID,
			CheckInDate: in, CheckOutDate: out,
			NumberOfGuests: 1, Status: status, PaymentStatus: model.PaymentUnpaid,
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
		})
	})
	require.NoError(t, err)
}

func TestHasConflictHalfOpenIntervals(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 101, HotelID: 1, RoomNumber: "101"})
	checker := NewConflictChecker()
	ctx := context.Background()

	// Existing blocking booking: [Jun 10, Jun 15).
	seedBooking(t, store, "existing", 101, date(2025, time.June, 10), date(2025, time.June, 15), model.BookingConfirmed)

	cases := []struct {
		name     string
		in, out  time.Time
		conflict bool
	}{
		{"fully before", date(2025, time.June, 1), date(2025, time.June, 5), false},
		{"touching start", date(2025, time.June, 5), date(2025, time.June, 10), false},
		{"overlapping start", date(2025, time.June, 8), date(2025, time.June, 11), true},
		{"contained", date(2025, time.June, 11), date(2025, time.June, 13), true},
		{"containing", date(2025, time.June, 9), date(2025, time.June, 16), true},
		{"overlapping end", date(2025, time.June, 14), date(2025, time.June, 18), true},
		{"touching end", date(2025, time.June, 15), date(2025, time.June, 20), false},
		{"fully after", date(2025, time.June, 20), date(2025, time.June, 25), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.InTx(ctx, func(tx Tx) error {
				got, err := checker.HasConflict(ctx, tx, 101, tc.in, tc.out, "")
				require.NoError(t, err)
				assert.Equal(t, tc.conflict, got)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestHasConflictStatusScope(t *testing.T) {
	store := newMemStore()
	store.addRoom(model.Room{ID: 101, HotelID: 1, RoomNumber: "101"})
	checker := NewConflictChecker()
	ctx := context.Background()

	in, out := date(2025, time.June, 1), date(2025, time.June, 5)
	seedBooking(t, store, "cancelled", 101, in, out, model.BookingCancelled)
	seedBooking(t, store, "completed", 101, in, out, model.BookingCompleted)

	err := store.InTx(ctx, func(tx Tx) error {
		got, err := checker.HasConflict(ctx, tx, 101, in, out, "")
		require.NoError(t, err)
		assert.False(t, got, "non-blocking statuses must not conflict")
		return nil
	})
	require.NoError(t, err)

	seedBooking(t, store, "pending", 101, in, out, model.BookingPending)
	err = store.InTx(ctx, func(tx Tx) error {
		got, err := checker.HasConflict(ctx, tx, 101, in, out, "")
		require.NoError(t, err)
		assert.True(t, got, "PENDING holds the calendar slot")

		// The exclusion id lets a reschedule ignore its own row.
		got, err = checker.HasConflict(ctx, tx, 101, in, out, "pending")
		require.NoError(t, err)
		assert.False(t, got)
		return nil
	})
	require.NoError(t, err)
}
