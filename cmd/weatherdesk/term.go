package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/jmalden/weatherdesk/internal/models"
	"github.com/jmalden/weatherdesk/internal/view"
)

// termView renders controller instructions to a terminal. Output already
// printed cannot be retracted, so dismissals only drop the tracked
// message identity. The input loop consults Loading to reject intents
// while a lookup is in flight.
type termView struct {
	out io.Writer

	mu        sync.Mutex
	loading   bool
	unit      models.Unit
	queryText string
	activeMsg uuid.UUID
}

func newTermView(out io.Writer) *termView {
	return &termView{out: out, unit: models.UnitCelsius}
}

func (v *termView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *termView) QueryText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queryText
}

func (v *termView) SetLoading(on bool) {
	v.mu.Lock()
	v.loading = on
	v.mu.Unlock()
	if on {
		fmt.Fprintln(v.out, "Loading...")
	}
}

func (v *termView) RenderWeather(vm view.WeatherVM) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "\n%s, %s\n", vm.City, vm.Country)
	fmt.Fprintf(v.out, "%s\n", vm.ObservedAt)
	if vm.IconURL != "" {
		fmt.Fprintf(v.out, "%s (%s)\n", vm.Description, vm.IconURL)
	} else {
		fmt.Fprintf(v.out, "%s\n", vm.Description)
	}
	fmt.Fprintf(v.out, "Temperature: %s (feels like %s)\n", vm.Temperature, vm.FeelsLike)
	fmt.Fprintf(v.out, "Humidity:    %s\n", vm.Humidity)
	fmt.Fprintf(v.out, "Wind:        %s\n", vm.Wind)
	fmt.Fprintf(v.out, "Pressure:    %s\n", vm.Pressure)
	fmt.Fprintf(v.out, "Visibility:  %s\n\n", vm.Visibility)
}

func (v *termView) RenderTemperature(vm view.TemperatureVM) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "Temperature: %s (feels like %s)\n", vm.Temperature, vm.FeelsLike)
}

func (v *termView) SetUnit(u models.Unit) {
	v.mu.Lock()
	v.unit = u
	v.mu.Unlock()
}

func (v *termView) SetQueryText(s string) {
	v.mu.Lock()
	v.queryText = s
	v.mu.Unlock()
}

func (v *termView) ClearQueryText() {
	v.mu.Lock()
	v.queryText = ""
	v.mu.Unlock()
}

func (v *termView) ShowMessage(msg view.Message) {
	v.mu.Lock()
	v.activeMsg = msg.ID
	v.mu.Unlock()
	fmt.Fprintf(v.out, "! %s\n", msg.Text)
}

func (v *termView) DismissMessage(id uuid.UUID) {
	v.mu.Lock()
	if v.activeMsg == id {
		v.activeMsg = uuid.Nil
	}
	v.mu.Unlock()
}
