package models

import "time"

// Unit is the temperature unit used for display. Snapshots always store
// Celsius; conversion to the display unit happens at render time.
type Unit string

const (
	UnitCelsius    Unit = "celsius"
	UnitFahrenheit Unit = "fahrenheit"
)

// ParseUnit returns the Unit for a stored or user-supplied string.
// Unknown values fall back to Celsius.
func ParseUnit(s string) Unit {
	if Unit(s) == UnitFahrenheit {
		return UnitFahrenheit
	}
	return UnitCelsius
}

// Snapshot is one normalized current-conditions reading. Optional fields
// are pointers so an absent value serializes as an explicit null rather
// than a zero that could be mistaken for a real reading.
type Snapshot struct {
	City          string    `json:"city"`
	Country       string    `json:"country"`
	ObservedAt    time.Time `json:"observedAt"`
	ConditionCode string    `json:"conditionCode"`
	ConditionText string    `json:"conditionText"`
	TempC         float64   `json:"tempC"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	HumidityPct   int       `json:"humidityPct"`
	WindSpeedMS   float64   `json:"windSpeedMS"`
	WindDeg       *int      `json:"windDeg"`
	PressureHPa   int       `json:"pressureHPa"`
	VisibilityM   *int      `json:"visibilityM"`
}

// Clone returns a deep copy, duplicating the optional-field pointers so
// callers never share mutable state through a snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.WindDeg != nil {
		d := *s.WindDeg
		out.WindDeg = &d
	}
	if s.VisibilityM != nil {
		v := *s.VisibilityM
		out.VisibilityM = &v
	}
	return out
}

// Record is the durable shadow of the app state: the last snapshot, the
// last query, the unit preference and the write timestamp. A record older
// than the store TTL at load time is discarded in its entirety.
type Record struct {
	Snapshot   *Snapshot `json:"weatherData"`
	LastSearch string    `json:"lastSearch"`
	Unit       Unit      `json:"currentUnit"`
	SavedAt    time.Time `json:"timestamp"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.Snapshot != nil {
		s := r.Snapshot.Clone()
		out.Snapshot = &s
	}
	return out
}
