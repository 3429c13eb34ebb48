package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEntity signals a catalog entity that violates its invariants.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidCatalog signals a catalog that cannot be assembled (duplicate ids, bad source data).
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrCatalogNotFound signals a missing catalog in the configured source.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidFilter signals a bad filter dimension descriptor.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnknownFunction signals a function invocation with no registered handler.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrPlatformAPI signals a failed call to the platform Web API.
	ErrPlatformAPI = errors.New("platform api error")
	// ErrMalformedEvent signals an inbound platform event that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrInvalidSignature signals an inbound request that failed signature verification.
	ErrInvalidSignature = errors.New("invalid request signature")
)

// PlatformError carries the error code returned by the platform Web API (`"ok": false`).
type PlatformError struct {
	Method string
	Code   string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPlatformAPI.Error(), e.Method, e.Code)
}

func (e *PlatformError) Unwrap() error { return ErrPlatformAPI }

// NewPlatformError creates a platform API error for the given method and error code.
func NewPlatformError(method, code string) error {
	return &PlatformError{Method: method, Code: code}
}
