package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-backend/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: hotel
// and room catalogs plus a read-only availability probe. These are
// the routes worth putting behind the Redis response cache.
type PublicHandler struct {
	Hotels   *repository.HotelRepo
	Rooms    *repository.RoomRepo
	Bookings *repository.BookingRepo
}

func NewPublicHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, bookings *repository.BookingRepo) *PublicHandler {
	if hotels == nil || rooms == nil || bookings == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Hotels: hotels, Rooms: rooms, Bookings: bookings}
}

// ListHotels handles GET /v1/hotels.
func (h *PublicHandler) ListHotels(c echo.Context) error {
	hotels, err := h.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
	}
	type hotelPart struct {
		ID      uint64 `json:"id"`
		Name    string `json:"name"`
		City    string `json:"city"`
		Address string `json:"address"`
		Stars   uint8  `json:"stars"`
	}
	out := make([]hotelPart, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, hotelPart{ID: ht.ID, Name: ht.Name, City: ht.City, Address: ht.Address, Stars: ht.Stars})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListRoomsByHotel handles GET /v1/hotels/:id/rooms.
func (h *PublicHandler) ListRoomsByHotel(c echo.Context) error {
	hotelID, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
	}
	type roomPart struct {
		ID         uint64 `json:"id"`
		RoomNumber string `json:"room_number"`
		Capacity   uint32 `json:"capacity"`
		PriceCents uint32 `json:"price_cents"`
	}
	out := make([]roomPart, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomPart{ID: r.ID, RoomNumber: r.RoomNumber, Capacity: r.Capacity, PriceCents: r.PriceCents})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// RoomAvailability handles GET /v1/rooms/:id/availability?check_in=&check_out=.
// The answer is advisory: it takes no locks, and a create request
// racing this probe is still decided by the admission transaction.
func (h *PublicHandler) RoomAvailability(c echo.Context) error {
	roomID, ok := idParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	checkIn, err := time.Parse(dateLayout, c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in, want YYYY-MM-DD"})
	}
	checkOut, err := time.Parse(dateLayout, c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out, want YYYY-MM-DD"})
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	n, err := h.Bookings.CountOverlappingNow(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   roomID,
		"check_in":  checkIn.Format(dateLayout),
		"check_out": checkOut.Format(dateLayout),
		"available": n == 0,
	})
}
