package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// memStore is an in-memory Store used by the tests in this package.
// A single mutex serializes transactions, which mirrors the per-room
// admission lock of the MySQL implementation closely enough for the
// concurrency properties under test. Transactions operate on a copy
// of the booking map and swap it in only on commit, so a failed
// transaction leaves no partial state behind.
type memStore struct {
	mu       sync.Mutex
	rooms    map[uint64]model.Room
	users    map[uint64]model.User
	hotels   map[uint64]model.Hotel
	bookings map[string]model.Booking
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[uint64]model.Room),
		users:    make(map[uint64]model.User),
		hotels:   make(map[uint64]model.Hotel),
		bookings: make(map[string]model.Booking),
	}
}

func (s *memStore) addRoom(r model.Room)   { s.rooms[r.ID] = r }
func (s *memStore) addUser(u model.User)   { s.users[u.ID] = u }
func (s *memStore) addHotel(h model.Hotel) { s.hotels[h.ID] = h }

type memTx struct {
	store    *memStore
	bookings map[string]model.Booking
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memTx{store: s, bookings: make(map[string]model.Booking, len(s.bookings))}
	for id, b := range s.bookings {
		tx.bookings[id] = b
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.bookings = tx.bookings
	return nil
}

func (tx *memTx) LockRoom(ctx context.Context, roomID uint64) error {
	if _, ok := tx.store.rooms[roomID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (tx *memTx) CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID string) (int, error) {
	n := 0
	for _, b := range tx.bookings {
		if b.RoomID != roomID || b.ID == excludeID || !b.Blocking() {
			continue
		}
		if b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate) {
			n++
		}
	}
	return n, nil
}

func (tx *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	tx.bookings[b.ID] = *b
	return nil
}

func (tx *memTx) FindBookingForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := tx.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (tx *memTx) UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	b, ok := tx.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	tx.bookings[id] = b
	return nil
}

func (s *memStore) FindBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *memStore) FindBookingDetail(ctx context.Context, id string) (*BookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	det := &BookingDetail{Booking: b}
	if u, ok := s.users[b.UserID]; ok {
		det.UserName = u.FullName
		det.UserEmail = u.Email
	}
	if r, ok := s.rooms[b.RoomID]; ok {
		det.RoomNum = r.RoomNumber
		if h, ok := s.hotels[r.HotelID]; ok {
			det.HotelName = h.Name
			det.HotelCity = h.City
		}
	}
	return det, nil
}

func (s *memStore) ListBookingsByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []model.Booking{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
