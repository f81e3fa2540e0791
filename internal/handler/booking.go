package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-backend/internal/model"
	"github.com/iliyamo/hotel-booking-backend/internal/queue"
	"github.com/iliyamo/hotel-booking-backend/internal/service"
)

const dateLayout = "2006-01-02"

// RoomFinder resolves a room for capacity checks and pricing.
// *repository.RoomRepo satisfies it.
type RoomFinder interface {
	GetByID(ctx context.Context, id uint64) (model.Room, error)
}

// HotelFinder resolves a hotel for event enrichment.
// *repository.HotelRepo satisfies it.
type HotelFinder interface {
	GetByID(ctx context.Context, id uint64) (model.Hotel, error)
}

// BookingHandler adapts HTTP requests into booking service calls.
// It owns only boundary concerns: parsing and validating request
// shapes, resolving the principal from the context, computing the
// price input (nights times the room's nightly rate) and mapping
// service errors to HTTP status codes. All admission and
// state-machine rules live in the service.
type BookingHandler struct {
	Svc    *service.BookingService
	Rooms  RoomFinder
	Hotels HotelFinder
	Events *queue.Publisher
}

// NewBookingHandler constructs a BookingHandler. Events may be nil
// when no broker is configured; publishing is then skipped.
func NewBookingHandler(svc *service.BookingService, rooms RoomFinder, hotels HotelFinder, events *queue.Publisher) *BookingHandler {
	if svc == nil || rooms == nil || hotels == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Rooms: rooms, Hotels: hotels, Events: events}
}

type createBookingReq struct {
	RoomID          uint64  `json:"room_id"`
	CheckInDate     string  `json:"check_in_date"`  // YYYY-MM-DD
	CheckOutDate    string  `json:"check_out_date"` // YYYY-MM-DD
	NumberOfGuests  uint32  `json:"number_of_guests"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

type bookingResp struct {
	ID              string  `json:"id"`
	UserID          uint64  `json:"user_id"`
	RoomID          uint64  `json:"room_id"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	NumberOfGuests  uint32  `json:"number_of_guests"`
	TotalCents      uint32  `json:"total_cents"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	SpecialRequests *string `json:"special_requests,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		UserID:          b.UserID,
		RoomID:          b.RoomID,
		CheckInDate:     b.CheckInDate.Format(dateLayout),
		CheckOutDate:    b.CheckOutDate.Format(dateLayout),
		NumberOfGuests:  b.NumberOfGuests,
		TotalCents:      b.TotalCents,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateBooking handles POST /v1/bookings. It parses dates, checks
// the room's capacity, prices the stay and asks the service to admit
// the booking. 201 on success; 409 when the range collides with an
// existing PENDING/CONFIRMED booking for the room.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	checkIn, err := time.Parse(dateLayout, req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_date, want YYYY-MM-DD"})
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_date, want YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	room, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.NumberOfGuests > room.Capacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number of guests exceeds room capacity"})
	}

	// Pricing happens at the boundary; the core treats the total as
	// an opaque caller-supplied amount.
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	total := uint32(0)
	if nights > 0 {
		total = uint32(nights) * room.PriceCents
	}

	b, err := h.Svc.Create(ctx, service.CreateBookingInput{
		UserID:          userID,
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		TotalCents:      total,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return bookingError(c, err)
	}

	h.publishCreated(ctx, b, room)
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// GetBooking handles GET /v1/bookings/:id, returning the caller's
// booking enriched with user, room and hotel summaries.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	det, err := h.Svc.Get(c.Request().Context(), bookingID, userID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":        toBookingResp(&det.Booking),
		"user_name":   det.UserName,
		"user_email":  det.UserEmail,
		"room_number": det.RoomNum,
		"hotel_name":  det.HotelName,
		"hotel_city":  det.HotelCity,
	})
}

// CancelBooking handles DELETE /v1/bookings/:id. Cancelling an
// already CANCELLED or COMPLETED booking answers 409; the state
// machine rejects transitions out of terminal states.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	b, err := h.Svc.Cancel(ctx, bookingID, userID)
	if err != nil {
		return bookingError(c, err)
	}

	h.publishCancelled(ctx, b)
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// ListMyBookings handles GET /v1/my-bookings?limit=&offset= and
// returns the caller's bookings newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	items, err := h.Svc.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return bookingError(c, err)
	}
	out := make([]bookingResp, 0, len(items))
	for i := range items {
		out = append(out, toBookingResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// bookingIDParam validates the :id path parameter as a UUID. The
// boundary rejects malformed identifiers; the core never sees them.
func bookingIDParam(c echo.Context) (string, bool) {
	raw := c.Param("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// bookingError maps the service error taxonomy onto HTTP statuses:
// validation 400, ownership 403, unknown ids 404, calendar conflicts
// and terminal-state cancels 409, transient storage failures 503 and
// anything else 500.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for the selected dates"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is already cancelled or completed"})
	case errors.Is(err, service.ErrTransient):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporary failure, please retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func (h *BookingHandler) publishCreated(ctx context.Context, b *model.Booking, room model.Room) {
	if h.Events == nil {
		return
	}
	hotelName := ""
	if hotel, err := h.Hotels.GetByID(ctx, room.HotelID); err == nil {
		hotelName = hotel.Name
	}
	_ = h.Events.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		RoomID:         b.RoomID,
		HotelName:      hotelName,
		RoomNumber:     room.RoomNumber,
		CheckInDate:    b.CheckInDate.Format(dateLayout),
		CheckOutDate:   b.CheckOutDate.Format(dateLayout),
		NumberOfGuests: b.NumberOfGuests,
		TotalCents:     b.TotalCents,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *BookingHandler) publishCancelled(ctx context.Context, b *model.Booking) {
	if h.Events == nil {
		return
	}
	_ = h.Events.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:    b.ID,
		UserID:       b.UserID,
		RoomID:       b.RoomID,
		CheckInDate:  b.CheckInDate.Format(dateLayout),
		CheckOutDate: b.CheckOutDate.Format(dateLayout),
		CancelledAt:  b.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// idParam parses a numeric :id path parameter.
func idParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
