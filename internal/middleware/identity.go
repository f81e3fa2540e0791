package middleware

// identity.go holds helpers shared across middleware files for
// reading the authenticated identity out of the echo context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string for
// use in cache and rate-limit keys. Unauthenticated requests map to
// "anon".
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v == "" {
			return "anon"
		}
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
