package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-backend/internal/handler"
	"github.com/iliyamo/hotel-booking-backend/internal/middleware"
	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// RegisterBookings registers the booking endpoints under /v1. Every
// route requires a valid JWT; both roles may book. limiter is the
// per-user token bucket applied to the whole group so that create,
// cancel and read traffic share one budget.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
		limiter,
	)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)
	g.GET("/my-bookings", h.ListMyBookings)
}
