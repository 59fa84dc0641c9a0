package units

import (
	"math"
	"testing"
)

// TestCelsiusToFahrenheit verifies the conversion formula at the
// well-known fixed points, including the -40 crossover. Non-integral
// rows like 18.2 are not exactly representable in binary, so the
// comparison allows a tiny tolerance.
func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		celsius    float64
		fahrenheit float64
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{37, 98.6},
		{18.2, 64.76},
	}
	for _, tt := range tests {
		if got := CelsiusToFahrenheit(tt.celsius); math.Abs(got-tt.fahrenheit) > 1e-9 {
			t.Errorf("CelsiusToFahrenheit(%v) = %v, want %v", tt.celsius, got, tt.fahrenheit)
		}
	}
}

// TestCompassPoint verifies the 8-point mapping, including the rounding
// boundary at 22.5 degrees and the wrap-around at 337.5 degrees.
func TestCompassPoint(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22.5, "NE"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{200, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{337.5, "N"},
		{359, "N"},
		{360, "N"},
		{405, "NE"},
	}
	for _, tt := range tests {
		if got := CompassPoint(tt.deg); got != tt.want {
			t.Errorf("CompassPoint(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}
