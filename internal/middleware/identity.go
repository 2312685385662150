package middleware

// identity.go defines the helpers that store and read the authenticated
// customer in the Echo context.  JWTAuth writes it; handlers and the rate
// limiter read it.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clothing-store/internal/model"
)

// customerKey is the echo.Context key holding the resolved model.Customer.
const customerKey = "customer"

// SetCustomer stores the authenticated customer in the context.
func SetCustomer(c echo.Context, cust model.Customer) { c.Set(customerKey, cust) }

// CurrentCustomer returns the customer stored by JWTAuth.  ok is false on
// routes that are not behind JWTAuth.
func CurrentCustomer(c echo.Context) (model.Customer, bool) {
	cust, ok := c.Get(customerKey).(model.Customer)
	return cust, ok
}

// identity returns a stable identifier for the caller, "anon" when no
// customer is authenticated.
func identity(c echo.Context) string {
	if cust, ok := CurrentCustomer(c); ok {
		return strconv.FormatUint(cust.ID, 10)
	}
	return "anon"
}
