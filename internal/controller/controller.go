package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jmalden/weatherdesk/internal/client"
	"github.com/jmalden/weatherdesk/internal/geo"
	"github.com/jmalden/weatherdesk/internal/models"
	"github.com/jmalden/weatherdesk/internal/observability"
	"github.com/jmalden/weatherdesk/internal/store"
	"github.com/jmalden/weatherdesk/internal/validation"
	"github.com/jmalden/weatherdesk/internal/view"
)

// Mode is the externally observable controller mode. The view disables
// submissions while loading; the controller itself does not arbitrate
// concurrent intents.
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
)

// AppState is the process-wide application state. It is owned exclusively
// by the Controller: the view and the weather client never mutate it, and
// the store only ever sees copies.
type AppState struct {
	Unit       models.Unit
	Snapshot   *models.Snapshot
	LastSearch string
}

// Options tunes controller behavior. Zero values select the defaults.
type Options struct {
	IconBaseURL     string
	QueryMinLength  int
	QueryMaxLength  int
	MessageDuration time.Duration
	Clock           clockwork.Clock
}

const (
	defaultIconBaseURL     = "https://openweathermap.org/img/wn"
	defaultQueryMinLength  = 2
	defaultQueryMaxLength  = 128
	defaultMessageDuration = 5 * time.Second
)

// Controller orchestrates the fetch-display-cache pipeline: it accepts
// user intents, drives the weather client, updates app state, writes the
// store and emits render instructions to the view.
type Controller struct {
	client  client.WeatherClient
	store   store.Store
	locator geo.Locator
	view    view.View
	logger  *zap.Logger
	clock   clockwork.Clock

	iconBaseURL     string
	queryMinLen     int
	queryMaxLen     int
	messageDuration time.Duration

	mu         sync.Mutex
	state      AppState
	mode       Mode
	currentMsg uuid.UUID // zero when no message is showing
}

// New creates a Controller with fresh app state (Celsius, no snapshot).
func New(wc client.WeatherClient, st store.Store, loc geo.Locator, v view.View, logger *zap.Logger, opts Options) *Controller {
	if opts.IconBaseURL == "" {
		opts.IconBaseURL = defaultIconBaseURL
	}
	if opts.QueryMinLength <= 0 {
		opts.QueryMinLength = defaultQueryMinLength
	}
	if opts.QueryMaxLength <= 0 {
		opts.QueryMaxLength = defaultQueryMaxLength
	}
	if opts.MessageDuration <= 0 {
		opts.MessageDuration = defaultMessageDuration
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Controller{
		client:          wc,
		store:           st,
		locator:         loc,
		view:            v,
		logger:          logger,
		clock:           opts.Clock,
		iconBaseURL:     opts.IconBaseURL,
		queryMinLen:     opts.QueryMinLength,
		queryMaxLen:     opts.QueryMaxLength,
		messageDuration: opts.MessageDuration,
		state:           AppState{Unit: models.UnitCelsius},
	}
}

// Mode returns the current controller mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State returns a copy of the app state.
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.state
	if c.state.Snapshot != nil {
		s := c.state.Snapshot.Clone()
		out.Snapshot = &s
	}
	return out
}

// Search handles the search-by-name intent. Validation failures are
// reported without any network call; otherwise exactly one fetch is
// issued and the controller is back in Idle when it resolves, success
// or failure.
func (c *Controller) Search(ctx context.Context, rawInput string) {
	q, err := validation.ValidateQuery(rawInput, c.queryMinLen, c.queryMaxLen)
	if err != nil {
		c.showMessage("validation", validationText(err))
		return
	}
	c.clearMessage()

	observability.LookupsTotal.WithLabelValues("name").Inc()
	c.setLoading(true)
	snap, err := c.client.FetchByName(ctx, q)
	c.setLoading(false)
	if err != nil {
		c.reportFetchError(err)
		return
	}
	c.applySnapshot(snap, q)
}

// SearchByCurrentLocation resolves the caller's position through the
// geolocation collaborator and fetches by coordinates. The resolved
// place overwrites the visible query text as "<city>, <country>".
func (c *Controller) SearchByCurrentLocation(ctx context.Context) {
	c.setLoading(true)
	coords, err := c.locator.Locate(ctx)
	if err != nil {
		c.setLoading(false)
		observability.GeolocateTotal.WithLabelValues(geoResultLabel(err)).Inc()
		c.logger.Warn("geolocation failed", zap.Error(err))
		c.showMessage("geolocation", geoText(err))
		return
	}
	observability.GeolocateTotal.WithLabelValues("success").Inc()

	observability.LookupsTotal.WithLabelValues("coords").Inc()
	snap, err := c.client.FetchByCoords(ctx, coords.Lat, coords.Lon)
	c.setLoading(false)
	if err != nil {
		c.reportFetchError(err)
		return
	}

	q := fmt.Sprintf("%s, %s", snap.City, snap.Country)
	c.applySnapshot(snap, q)
	c.view.SetQueryText(q)
}

// SetUnit switches the display unit. Idempotent: repeating the current
// unit does nothing. A change re-renders only the temperature-dependent
// fields, without refetching, and persists the new preference.
func (c *Controller) SetUnit(u models.Unit) {
	c.mu.Lock()
	if c.state.Unit == u {
		c.mu.Unlock()
		return
	}
	c.state.Unit = u
	snap := c.state.Snapshot
	c.mu.Unlock()

	observability.UnitSwitchesTotal.Inc()
	c.view.SetUnit(u)
	if snap != nil {
		c.view.RenderTemperature(buildTemperatureVM(*snap, u))
	}
	c.persist()
}

// RestoreFromStore replays the persisted record into app state at
// startup, with no network call. Store problems are recovered silently;
// they never surface to the user.
func (c *Controller) RestoreFromStore() {
	rec, err := c.store.Load()
	if err != nil {
		observability.RecordStoreOp("load", "error")
		c.logger.Warn("state restore failed", zap.Error(err))
		return
	}
	if rec == nil {
		observability.RecordStoreOp("load", "miss")
		return
	}
	observability.RecordStoreOp("load", "success")

	c.mu.Lock()
	c.state.Unit = models.ParseUnit(string(rec.Unit))
	c.state.LastSearch = rec.LastSearch
	if rec.Snapshot != nil {
		s := rec.Snapshot.Clone()
		c.state.Snapshot = &s
	}
	unit := c.state.Unit
	snap := c.state.Snapshot
	c.mu.Unlock()

	c.view.SetUnit(unit)
	if rec.LastSearch != "" {
		c.view.SetQueryText(rec.LastSearch)
	}
	if snap != nil {
		c.view.RenderWeather(buildWeatherVM(*snap, unit, c.iconBaseURL))
	}
}

// Clear handles the clear intent: it clears only the visible query text,
// leaving the last search, the snapshot and the persisted record alone.
func (c *Controller) Clear() {
	c.view.ClearQueryText()
}

func (c *Controller) setLoading(on bool) {
	c.mu.Lock()
	if on {
		c.mode = ModeLoading
	} else {
		c.mode = ModeIdle
	}
	c.mu.Unlock()
	c.view.SetLoading(on)
}

// applySnapshot commits a successful fetch: mutate state, persist, then
// emit the render instruction, in that order.
func (c *Controller) applySnapshot(snap models.Snapshot, query string) {
	c.mu.Lock()
	s := snap.Clone()
	c.state.Snapshot = &s
	c.state.LastSearch = query
	unit := c.state.Unit
	c.mu.Unlock()

	c.clearMessage()
	c.persist()
	c.view.RenderWeather(buildWeatherVM(snap, unit, c.iconBaseURL))
}

// persist writes a copy of the app state to the store. Store errors are
// the one class that must never reach the user.
func (c *Controller) persist() {
	c.mu.Lock()
	rec := models.Record{
		LastSearch: c.state.LastSearch,
		Unit:       c.state.Unit,
		SavedAt:    c.clock.Now(),
	}
	if c.state.Snapshot != nil {
		s := c.state.Snapshot.Clone()
		rec.Snapshot = &s
	}
	c.mu.Unlock()

	if err := c.store.Save(rec); err != nil {
		observability.RecordStoreOp("save", "error")
		c.logger.Warn("state persist failed", zap.Error(err))
		return
	}
	observability.RecordStoreOp("save", "success")
}

func (c *Controller) reportFetchError(err error) {
	category := client.CategorizeError(err)
	observability.WeatherAPIErrorsTotal.WithLabelValues(string(category)).Inc()
	c.logger.Warn("weather fetch failed", zap.Error(err))
	c.showMessage("fetch", fetchText(err))
}

// showMessage displays a user-facing message and schedules its dismissal.
// The scheduled task is tied to the message identity: if a newer message
// or a successful render supersedes it, the stale timer is a no-op.
func (c *Controller) showMessage(kind, text string) {
	id := uuid.New()
	c.mu.Lock()
	c.currentMsg = id
	c.mu.Unlock()

	observability.MessagesShownTotal.WithLabelValues(kind).Inc()
	c.view.ShowMessage(view.Message{ID: id, Text: text})

	timer := c.clock.After(c.messageDuration)
	go func() {
		<-timer
		c.mu.Lock()
		active := c.currentMsg == id
		if active {
			c.currentMsg = uuid.Nil
		}
		c.mu.Unlock()
		if active {
			c.view.DismissMessage(id)
		}
	}()
}

// clearMessage dismisses the active message, if any, marking every
// outstanding dismissal timer stale.
func (c *Controller) clearMessage() {
	c.mu.Lock()
	id := c.currentMsg
	c.currentMsg = uuid.Nil
	c.mu.Unlock()
	if id != uuid.Nil {
		c.view.DismissMessage(id)
	}
}
