package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
	"github.com/iliyamo/hotel-booking-backend/internal/service"
)

// fakeStore is an in-memory service.Store for exercising the HTTP
// boundary without a database.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[uint64]model.Room
	bookings map[string]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[uint64]model.Room),
		bookings: make(map[string]*model.Booking),
	}
}

func (s *fakeStore) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&fakeTx{s: s})
}

func (s *fakeStore) FindBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) FindBookingDetail(ctx context.Context, id string) (*service.BookingDetail, error) {
	b, err := s.FindBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &service.BookingDetail{
		Booking:   *b,
		UserName:  "Alice Jones",
		UserEmail: "alice@example.com",
		RoomNum:   "101",
		HotelName: "Seaview",
		HotelCity: "Porto",
	}, nil
}

func (s *fakeStore) ListBookingsByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

type fakeTx struct{ s *fakeStore }

func (t *fakeTx) LockRoom(ctx context.Context, roomID uint64) error {
	if _, ok := t.s.rooms[roomID]; !ok {
		return service.ErrNotFound
	}
	return nil
}

func (t *fakeTx) CountOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID string) (int, error) {
	n := 0
	for _, b := range t.s.bookings {
		if b.RoomID != roomID || b.ID == excludeID || !b.Blocking() {
			continue
		}
		if b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate) {
			n++
		}
	}
	return n, nil
}

func (t *fakeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	cp := *b
	t.s.bookings[b.ID] = &cp
	return nil
}

func (t *fakeTx) FindBookingForUpdate(ctx context.Context, id string) (*model.Booking, error) {
	b, ok := t.s.bookings[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (t *fakeTx) UpdateBookingStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	b, ok := t.s.bookings[id]
	if !ok {
		return service.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	return nil
}

type fakeRooms struct{ rooms map[uint64]model.Room }

func (f *fakeRooms) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return model.Room{}, sql.ErrNoRows
	}
	return r, nil
}

type fakeHotels struct{}

func (fakeHotels) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	return model.Hotel{ID: id, Name: "Seaview", City: "Porto"}, nil
}

func newTestHandler(t *testing.T) (*BookingHandler, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.rooms[101] = model.Room{ID: 101, HotelID: 1, RoomNumber: "101", Capacity: 2, PriceCents: 9000}
	svc := service.NewBookingService(store, service.NewConflictChecker())
	h := NewBookingHandler(svc, &fakeRooms{rooms: store.rooms}, fakeHotels{}, nil)
	return h, store
}

func doJSON(h echo.HandlerFunc, method, target, body string, userID uint64, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(userID)) // JWT claims decode numbers as float64
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func createBody(roomID uint64, in, out string, guests uint32) string {
	return fmt.Sprintf(`{"room_id":%d,"check_in_date":%q,"check_out_date":%q,"number_of_guests":%d}`, roomID, in, out, guests)
}

func TestCreateBookingSuccess(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-01", "2199-06-04", 2), 7)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.UserID)
	assert.Equal(t, model.BookingPending, resp.Status)
	assert.Equal(t, model.PaymentUnpaid, resp.PaymentStatus)
	assert.Equal(t, uint32(3*9000), resp.TotalCents, "three nights at the room rate")
	assert.NotEmpty(t, resp.ID)
}

func TestCreateBookingStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"room_id":`, http.StatusBadRequest},
		{"missing room", createBody(0, "2199-06-01", "2199-06-04", 2), http.StatusBadRequest},
		{"bad date format", createBody(101, "01/06/2199", "2199-06-04", 2), http.StatusBadRequest},
		{"unknown room", createBody(999, "2199-06-01", "2199-06-04", 2), http.StatusNotFound},
		{"over capacity", createBody(101, "2199-06-01", "2199-06-04", 5), http.StatusBadRequest},
		{"inverted range", createBody(101, "2199-06-04", "2199-06-01", 2), http.StatusBadRequest},
		{"past check-in", createBody(101, "2001-06-01", "2001-06-04", 2), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", tc.body, 7)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateBookingConflictAnswers409(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-01", "2199-06-05", 2), 7)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-03", "2199-06-07", 1), 8)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	// Back-to-back stays share a boundary day without colliding.
	rec = doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-05", "2199-06-07", 1), 8)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestGetBooking(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-01", "2199-06-04", 2), 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(h.GetBooking, http.MethodGet, "/v1/bookings/"+created.ID, "", 7, "id", created.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"hotel_name":"Seaview"`)

	// Another authenticated user must not see the booking.
	rec = doJSON(h.GetBooking, http.MethodGet, "/v1/bookings/"+created.ID, "", 8, "id", created.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(h.GetBooking, http.MethodGet, "/v1/bookings/nope", "", 7, "id", "not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(h.GetBooking, http.MethodGet, "/v1/bookings/x", "", 7, "id", "3b1e7a9c-9f5f-4a43-8a30-000000000000")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBooking(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, "2199-06-01", "2199-06-04", 2), 7)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(h.CancelBooking, http.MethodDelete, "/v1/bookings/"+created.ID, "", 7, "id", created.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cancelled bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, model.BookingCancelled, cancelled.Status)

	// Cancelling again hits the terminal-state rule.
	rec = doJSON(h.CancelBooking, http.MethodDelete, "/v1/bookings/"+created.ID, "", 7, "id", created.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListMyBookings(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, d := range []string{"2199-06-01", "2199-07-01"} {
		end := d[:len(d)-2] + "04"
		rec := doJSON(h.CreateBooking, http.MethodPost, "/v1/bookings", createBody(101, d, end, 1), 7)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(h.ListMyBookings, http.MethodGet, "/v1/my-bookings", "", 7)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []bookingResp `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)

	rec = doJSON(h.ListMyBookings, http.MethodGet, "/v1/my-bookings", "", 8)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
}
