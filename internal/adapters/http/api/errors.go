// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the HTTP layer.
var (
	// ErrBadRequest indicates a request body that could not be parsed.
	ErrBadRequest = errors.New("bad request")

	// ErrValidation indicates a request that parsed but failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrServe indicates a failure while serving a response.
	ErrServe = errors.New("serve failed")
)

// NewKind returns kind annotated with the operation that produced it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind joins a sentinel kind with the underlying cause so callers can
// match on the kind while logs keep the detail.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
