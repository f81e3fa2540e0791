package model

import "time"

// Room represents a bookable room within a hotel. Each room has a
// nightly price used by the boundary to compute booking totals and a
// capacity that limits the number of guests per booking. The pair
// (hotel_id, room_number) is unique.
//
// Fields:
//  ID         – primary key identifier.
//  HotelID    – hotel the room belongs to.
//  RoomNumber – human-facing room number (e.g. "101").
//  Capacity   – maximum number of guests.
//  PriceCents – nightly price in cents.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	HotelID    uint64    // rooms.hotel_id
	RoomNumber string    // rooms.room_number
	Capacity   uint32    // rooms.capacity
	PriceCents uint32    // rooms.price_cents
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
