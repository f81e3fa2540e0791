package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// RoomRepo reads the room catalog. Nightly price and capacity feed
// the boundary's pricing step and guest-count check.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID fetches a room; sql.ErrNoRows when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var rm model.Room
	err := r.db.QueryRowContext(ctx,
		"SELECT id, hotel_id, room_number, capacity, price_cents, created_at, updated_at FROM rooms WHERE id=? LIMIT 1",
		id).Scan(&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.Capacity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// ListByHotel returns the rooms of a hotel ordered by room number.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, hotel_id, room_number, capacity, price_cents, created_at, updated_at FROM rooms WHERE hotel_id=? ORDER BY room_number",
		hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.RoomNumber, &rm.Capacity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}
