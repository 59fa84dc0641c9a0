package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmalden/weatherdesk/internal/models"
)

func TestFormatTemp(t *testing.T) {
	tests := []struct {
		celsius float64
		unit    models.Unit
		want    string
	}{
		{0, models.UnitCelsius, "0°C"},
		{0, models.UnitFahrenheit, "32°F"},
		{100, models.UnitFahrenheit, "212°F"},
		{-40, models.UnitCelsius, "-40°C"},
		{-40, models.UnitFahrenheit, "-40°F"},
		{18.2, models.UnitCelsius, "18°C"},
		{18.2, models.UnitFahrenheit, "65°F"}, // 64.76, rounded once at render time
		{18.5, models.UnitCelsius, "19°C"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTemp(tt.celsius, tt.unit), "formatTemp(%v, %v)", tt.celsius, tt.unit)
	}
}

func TestFormatWind(t *testing.T) {
	deg := 200
	withDir := models.Snapshot{WindSpeedMS: 3.4, WindDeg: &deg}
	assert.Equal(t, "3.4 m/s S", formatWind(withDir))

	noDir := models.Snapshot{WindSpeedMS: 3.4}
	assert.Equal(t, "3.4 m/s", formatWind(noDir), "absent direction omits the compass label")

	calm := models.Snapshot{WindSpeedMS: 0}
	assert.Equal(t, "0.0 m/s", formatWind(calm))
}

func TestFormatVisibility(t *testing.T) {
	vis := 10000
	assert.Equal(t, "10.0 km", formatVisibility(&vis))

	// 850/1000 is 0.84999... in binary, so %.1f prints 0.8.
	short := 850
	assert.Equal(t, "0.8 km", formatVisibility(&short))

	belowKM := 900
	assert.Equal(t, "0.9 km", formatVisibility(&belowKM))

	assert.Equal(t, "N/A", formatVisibility(nil), "unknown visibility is N/A, never zero")
}

func TestBuildWeatherVM_NoIconCode(t *testing.T) {
	snap := parisSnapshot()
	snap.ConditionCode = ""
	vm := buildWeatherVM(snap, models.UnitCelsius, "https://openweathermap.org/img/wn")
	assert.Empty(t, vm.IconURL)
}
