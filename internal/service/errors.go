// Package service implements the store's business operations on top of
// the repositories: authentication, order placement, catalog management,
// customer administration and statistics.
package service

import "errors"

// Sentinel errors returned by the services.  Handlers map them to HTTP
// status codes; anything else is treated as a persistence failure.
var (
	ErrValidation         = errors.New("invalid request")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrSession            = errors.New("could not validate credentials")
	ErrForbidden          = errors.New("admin privileges required")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("invalid product or insufficient stock")
)

// OrderError is returned for every failed order placement.  Err is the
// cause; the message is the cause's message so it can be shown to the
// client unchanged.
type OrderError struct {
	ProductID uint64
	Quantity  int
	Err       error
}

func (e *OrderError) Error() string { return e.Err.Error() }

func (e *OrderError) Unwrap() error { return e.Err }
