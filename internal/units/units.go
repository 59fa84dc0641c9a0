package units

import "math"

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CelsiusToFahrenheit converts a temperature in Celsius to Fahrenheit.
// Pure and total. Callers round for display; the converter never rounds,
// so repeated conversions do not accumulate rounding error.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// CompassPoint maps a wind direction in degrees to one of 8 compass
// labels by dividing by 45 and rounding to the nearest sector. Boundary
// angles round up (22.5 -> NE) and the top sector wraps (337.5 -> N).
func CompassPoint(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Round(d/45)) % 8
	return compassPoints[idx]
}
