package controller

import (
	"errors"

	"github.com/jmalden/weatherdesk/internal/client"
	"github.com/jmalden/weatherdesk/internal/geo"
	"github.com/jmalden/weatherdesk/internal/validation"
)

// User-facing wording. Each error kind keeps a distinct message; tests
// pin these strings as part of the product surface.
const (
	msgEmptyQuery     = "Please enter a city name"
	msgShortQuery     = "Please enter at least 2 characters"
	msgLongQuery      = "Please enter a shorter place name"
	msgPlaceNotFound  = "City not found. Please check the spelling and try again."
	msgInvalidAPIKey  = "Invalid API key. Please check your OpenWeatherMap API key."
	msgRateLimited    = "Too many requests. Please try again later."
	msgFetchFailed    = "Failed to fetch weather data. Please try again later."
	msgNetworkFailure = "Network error. Please check your connection and try again."
	msgGeoDenied      = "Location permission denied"
	msgGeoUnavailable = "Location information unavailable"
	msgGeoTimeout     = "Location request timed out"
)

func validationText(err error) string {
	switch {
	case errors.Is(err, validation.ErrQueryEmpty):
		return msgEmptyQuery
	case errors.Is(err, validation.ErrQueryTooShort):
		return msgShortQuery
	default:
		return msgLongQuery
	}
}

func fetchText(err error) string {
	switch {
	case errors.Is(err, client.ErrPlaceNotFound):
		return msgPlaceNotFound
	case errors.Is(err, client.ErrInvalidAPIKey):
		return msgInvalidAPIKey
	case errors.Is(err, client.ErrRateLimited):
		return msgRateLimited
	case errors.Is(err, client.ErrNetwork):
		return msgNetworkFailure
	default:
		return msgFetchFailed
	}
}

func geoText(err error) string {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return msgGeoDenied
	case errors.Is(err, geo.ErrTimeout):
		return msgGeoTimeout
	default:
		return msgGeoUnavailable
	}
}

func geoResultLabel(err error) string {
	switch {
	case errors.Is(err, geo.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, geo.ErrTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}
