package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
	"github.com/iliyamo/hotel-booking-backend/internal/service"
)

// BookingRepo is the MySQL implementation of service.Store. The
// admission critical section relies on InnoDB row locks: LockRoom
// takes SELECT ... FOR UPDATE on the room row, which serializes
// concurrent admission transactions for the same room, making the
// conflict check and the insert atomic with respect to each other.
// Driver errors are mapped into the service error taxonomy here so
// no MySQL detail leaks past this package.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, room_id, check_in_date, check_out_date,
	number_of_guests, total_cents, status, payment_status, special_requests,
	created_at, updated_at`

// InTx runs fn inside a single transaction, committing on nil and
// rolling back otherwise. Commit errors are mapped like any other
// driver error; a deadlock victim surfaces as ErrTransient so the
// caller may retry.
func (r *BookingRepo) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	if err := fn(&bookingTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	return nil
}

// FindBookingByID returns the booking or service.ErrNotFound.
func (r *BookingRepo) FindBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// FindBookingDetail loads the booking joined with its user, room and
// hotel summaries for display.
func (r *BookingRepo) FindBookingDetail(ctx context.Context, id string) (*service.BookingDetail, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.check_in_date, b.check_out_date,
	                  b.number_of_guests, b.total_cents, b.status, b.payment_status,
	                  b.special_requests, b.created_at, b.updated_at,
	                  u.full_name, u.email, r.room_number, h.name, h.city
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           JOIN rooms r ON r.id = b.room_id
	           JOIN hotels h ON h.id = r.hotel_id
	           WHERE b.id = ?`
	var det service.BookingDetail
	var requests sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.Booking.ID, &det.Booking.UserID, &det.Booking.RoomID,
		&det.Booking.CheckInDate, &det.Booking.CheckOutDate,
		&det.Booking.NumberOfGuests, &det.Booking.TotalCents,
		&det.Booking.Status, &det.Booking.PaymentStatus,
		&requests, &det.Booking.CreatedAt, &det.Booking.UpdatedAt,
		&det.UserName, &det.UserEmail, &det.RoomNum, &det.HotelName, &det.HotelCity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, mapDBError(err)
	}
	if requests.Valid {
		s := requests.String
		det.Booking.SpecialRequests = &s
	}
	return &det, nil
}

// ListBookingsByUser returns the user's bookings newest first.
func (r *BookingRepo) ListBookingsByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError(err)
	}
	return out, nil
}

// CountOverlappingNow is the read-only variant used by the public
// availability endpoint. It runs outside any transaction and takes
// no locks, so its answer is advisory only; admission re-checks
// under the room lock.
func (r *BookingRepo) CountOverlappingNow(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
		   AND check_in_date < ? AND ? < check_out_date`,
		roomID, checkOut, checkIn).Scan(&n)
	if err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

// bookingTx implements service.Tx over *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

func (t *bookingTx) LockRoom(ctx context.Context, roomID uint64) error {
	var id uint64
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return service.ErrNotFound
	}
	if err != nil {
		return mapDBError(err)
	}
	return nil
}

func (t *bookingTx) CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID string) (int, error) {
	q := `SELECT COUNT(*) FROM bookings
	      WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
	        AND check_in_date < ? AND ? < check_out_date`
	args := []interface{}{roomID, checkOut, checkIn}
	if excludeID != "" {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var n int
	if err := t.tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, mapDBError(err)
	}
	return n, nil
}

func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, room_id, check_in_date, check_out_date,
		   number_of_guests, total_cents, status, payment_status, special_requests,
		   created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.RoomID, b.CheckInDate, b.CheckOutDate,
		b.NumberOfGuests, b.TotalCents, b.Status, b.PaymentStatus,
		b.SpecialRequests, b.CreatedAt, b.UpdatedAt)
	return mapDBError(err)
}

func (t *bookingTx) FindBookingForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id)
	return scanBooking(row)
}

func (t *bookingTx) UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id)
	return mapDBError(err)
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s scanner) (*model.Booking, error) {
	var b model.Booking
	var requests sql.NullString
	err := s.Scan(&b.ID, &b.UserID, &b.RoomID, &b.CheckInDate, &b.CheckOutDate,
		&b.NumberOfGuests, &b.TotalCents, &b.Status, &b.PaymentStatus,
		&requests, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, mapDBError(err)
	}
	if requests.Valid {
		str := requests.String
		b.SpecialRequests = &str
	}
	return &b, nil
}

// MySQL error numbers that matter to the core: 1062 duplicate key
// (the storage-level uniqueness guard rejecting an admission), 1205
// lock wait timeout and 1213 deadlock (transient, safe to retry).
const (
	mysqlErrDupEntry        = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return service.ErrTransient
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDupEntry:
			return service.ErrConflict
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return service.ErrTransient
		}
	}
	return err
}
