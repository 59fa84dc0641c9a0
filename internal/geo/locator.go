package geo

import (
	"context"
	"errors"
)

// Classified geolocation failures. Each maps to a distinct user-facing
// message; anything else from a locator is treated as unavailable.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location information unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

// Coordinates is a resolved position. Locators are trusted to produce
// valid ranges; coordinates pass through to the weather client unvalidated.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Locator resolves the caller's current position.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}
