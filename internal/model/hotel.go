package model

import "time"

// Hotel represents a property that owns bookable rooms. The catalog
// is read-only from the API's point of view; rows are seeded by
// operators directly in the database.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the hotel.
//  City      – city the hotel is located in.
//  Address   – street address.
//  Stars     – star rating (1–5).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   string    // hotels.address
	Stars     uint8     // hotels.stars
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
