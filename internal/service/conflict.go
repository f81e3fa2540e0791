package service

import (
	"context"
	"time"
)

// ConflictChecker decides whether a candidate [checkIn, checkOut)
// interval collides with an existing blocking booking for a room.
// Two half-open intervals [a1,a2) and [b1,b2) overlap iff
// a1 < b2 && b1 < a2, so bookings that merely touch at a boundary
// (back-to-back stays) never conflict. The check is a pure read; it
// has no side effects.
type ConflictChecker struct{}

// NewConflictChecker returns a ConflictChecker.
func NewConflictChecker() *ConflictChecker { return &ConflictChecker{} }

// HasConflict reports whether any PENDING or CONFIRMED booking for
// roomID overlaps [checkIn, checkOut). excludeID, when non-empty,
// ignores the named booking; this lets a reschedule re-check skip the
// record being modified. The tx must already hold the room's
// admission lock when the result guards an insert.
func (cc *ConflictChecker) HasConflict(ctx context.Context, tx Tx, roomID uint64, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	n, err := tx.CountOverlapping(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
