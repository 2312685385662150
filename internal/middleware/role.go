package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/clothing-store/internal/service"
)

// RequireAdmin returns a middleware function that enforces that the
// authenticated customer holds the admin role.  It must run after
// JWTAuth; without a customer in the context the request is rejected
// with 401, and a non-admin customer is rejected with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cust, ok := CurrentCustomer(c)
			if !ok {
				return Unauthorized(c, "not authenticated")
			}
			if _, err := service.RequireAdmin(cust); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
			}
			return next(c)
		}
	}
}
