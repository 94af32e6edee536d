package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("invalid state")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrPersistence        = errors.New("persistence failure")

	// ErrUnresolvableProduct reports order lines whose product has no price.
	ErrUnresolvableProduct = errors.New("unresolvable product")
)

// ErrInvalidStatus is returned for status names outside the order lifecycle.
// It matches ErrInvalidInput as well.
var ErrInvalidStatus = fmt.Errorf("%w: invalid order status", ErrInvalidInput)
