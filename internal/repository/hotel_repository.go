package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// HotelRepo reads the hotel catalog. The API never writes hotels;
// rows are seeded by operators.
type HotelRepo struct{ db *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// List returns all hotels ordered by name.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, city, address, stars, created_at, updated_at FROM hotels ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Stars, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// GetByID fetches a single hotel; sql.ErrNoRows when absent.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	var h model.Hotel
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, city, address, stars, created_at, updated_at FROM hotels WHERE id=? LIMIT 1",
		id).Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Stars, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}
