package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/model"
	"github.com/iliyamo/clothing-store/internal/service"
)

// Resolver maps a raw access token to the customer it names.
type Resolver interface {
	Resolve(ctx context.Context, raw string) (model.Customer, error)
}

// Unauthorized writes the 401 response used for every authentication
// failure, including the WWW-Authenticate challenge.
func Unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// loads the customer named by its subject and stores it in the request
// context.  Handlers read it back with CurrentCustomer.  A missing,
// invalid or expired token, or a subject that no longer exists, is
// answered with 401.
func JWTAuth(auth Resolver, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return Unauthorized(c, "not authenticated")
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			cust, err := auth.Resolve(ctx, strings.TrimSpace(raw))
			if errors.Is(err, service.ErrSession) {
				return Unauthorized(c, service.ErrSession.Error())
			}
			if err != nil {
				log.Error("resolve access token", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}

			SetCustomer(c, cust)
			return next(c)
		}
	}
}
