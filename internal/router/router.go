// Package router wires HTTP routes to their handlers and middleware.
// Registration is split by audience: unauthenticated health and
// browse routes, auth/session routes, user-scoped booking routes and
// the admin surface.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-backend/internal/handler"
	"github.com/iliyamo/hotel-booking-backend/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
// Currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login,
// refresh and logout live under /v1/auth and need no access token;
// /v1/me requires a valid JWT of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog endpoints.
// cache is the Redis response cache middleware; these routes carry
// no caller identity, which is what makes them cacheable at all.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/hotels", p.ListHotels)
	g.GET("/hotels/:id/rooms", p.ListRoomsByHotel)
	g.GET("/rooms/:id/availability", p.RoomAvailability)
}
