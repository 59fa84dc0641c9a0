package view

import (
	"github.com/google/uuid"

	"github.com/jmalden/weatherdesk/internal/models"
)

// Message is a user-facing notice. The identity lets a delayed dismissal
// be matched against the message it was scheduled for, so a stale timer
// never clears a newer message.
type Message struct {
	ID   uuid.UUID
	Text string
}

// WeatherVM carries the pre-formatted display fields for one snapshot.
// All rounding happens when the view model is built; the canonical
// snapshot is never mutated by display concerns.
type WeatherVM struct {
	City        string
	Country     string
	ObservedAt  string
	IconURL     string
	Description string
	Temperature string // e.g. "18°C"
	FeelsLike   string
	Humidity    string // e.g. "60%"
	Wind        string // e.g. "3.4 m/s S"
	Pressure    string // e.g. "1012 hPa"
	Visibility  string // e.g. "10.0 km", "N/A" when unknown
}

// TemperatureVM carries only the unit-dependent fields, for re-rendering
// after a unit switch without refetching.
type TemperatureVM struct {
	Unit        models.Unit
	Temperature string
	FeelsLike   string
}

// View receives render instructions from the controller and turns them
// into whatever surface the frontend draws. Implementations emit user
// intents back to the controller and must reject new submissions while
// loading is on; they never mutate app state themselves.
type View interface {
	SetLoading(on bool)
	RenderWeather(vm WeatherVM)
	RenderTemperature(vm TemperatureVM)
	SetUnit(u models.Unit)
	SetQueryText(s string)
	ClearQueryText()
	ShowMessage(msg Message)
	DismissMessage(id uuid.UUID)
}
