package controller

import (
	"fmt"
	"math"

	"github.com/jmalden/weatherdesk/internal/models"
	"github.com/jmalden/weatherdesk/internal/units"
	"github.com/jmalden/weatherdesk/internal/view"
)

// buildWeatherVM turns a canonical snapshot into display fields. Unknown
// optional values render as "N/A", never as a fake zero reading.
func buildWeatherVM(snap models.Snapshot, unit models.Unit, iconBaseURL string) view.WeatherVM {
	vm := view.WeatherVM{
		City:        snap.City,
		Country:     snap.Country,
		ObservedAt:  snap.ObservedAt.Format("Monday, January 2, 2006, 3:04 PM"),
		Description: snap.ConditionText,
		Temperature: formatTemp(snap.TempC, unit),
		FeelsLike:   formatTemp(snap.FeelsLikeC, unit),
		Humidity:    fmt.Sprintf("%d%%", snap.HumidityPct),
		Wind:        formatWind(snap),
		Pressure:    fmt.Sprintf("%d hPa", snap.PressureHPa),
		Visibility:  formatVisibility(snap.VisibilityM),
	}
	if snap.ConditionCode != "" {
		vm.IconURL = fmt.Sprintf("%s/%s@4x.png", iconBaseURL, snap.ConditionCode)
	}
	return vm
}

func buildTemperatureVM(snap models.Snapshot, unit models.Unit) view.TemperatureVM {
	return view.TemperatureVM{
		Unit:        unit,
		Temperature: formatTemp(snap.TempC, unit),
		FeelsLike:   formatTemp(snap.FeelsLikeC, unit),
	}
}

// formatTemp rounds at render time only, always converting from the
// canonical Celsius value, so repeated unit switches never accumulate
// rounding error.
func formatTemp(celsius float64, unit models.Unit) string {
	if unit == models.UnitFahrenheit {
		return fmt.Sprintf("%d°F", int(math.Round(units.CelsiusToFahrenheit(celsius))))
	}
	return fmt.Sprintf("%d°C", int(math.Round(celsius)))
}

func formatWind(snap models.Snapshot) string {
	s := fmt.Sprintf("%.1f m/s", snap.WindSpeedMS)
	if snap.WindDeg != nil {
		s += " " + units.CompassPoint(float64(*snap.WindDeg))
	}
	return s
}

func formatVisibility(meters *int) string {
	if meters == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f km", float64(*meters)/1000)
}
