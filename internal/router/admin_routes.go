package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-backend/internal/handler"
	"github.com/iliyamo/hotel-booking-backend/internal/middleware"
	"github.com/iliyamo/hotel-booking-backend/internal/model"
)

// RegisterAdmin registers the admin surface under /v1/admin. Routes
// require a valid JWT with the ADMIN role; ordinary users get 403.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/users", h.ListUsers)
}
