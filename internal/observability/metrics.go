package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Weather lookups by intent source (name or coords). Watch for: usage volume.
	LookupsTotal *prometheus.CounterVec

	// OpenWeatherMap API call rate. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per request. Watch for: p95 > 2s (upstream degradation).
	WeatherAPIDuration *prometheus.HistogramVec

	// Weather API errors by stable category (see client.CategorizeError).
	WeatherAPIErrorsTotal *prometheus.CounterVec

	// Persistence store operations. result is success, miss, expired, corrupt or error.
	StoreOpsTotal *prometheus.CounterVec

	// Unit toggles that changed the display unit (idempotent repeats excluded).
	UnitSwitchesTotal prometheus.Counter

	// Geolocation resolutions by outcome (success, denied, unavailable, timeout).
	GeolocateTotal *prometheus.CounterVec

	// User-facing messages shown, by kind (validation, fetch, geolocation).
	MessagesShownTotal *prometheus.CounterVec

	// Diagnostics server request rate.
	HTTPRequestsTotal *prometheus.CounterVec

	// Diagnostics server latency per request.
	HTTPRequestDuration *prometheus.HistogramVec

	// Diagnostics requests denied by the rate limiter (429).
	RateLimitDeniedTotal prometheus.Counter
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookupsTotal",
			Help: "Total number of weather lookups by intent source",
		},
		[]string{"source"},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiErrorsTotal",
			Help: "Weather API errors by category",
		},
		[]string{"category"},
	)
	StoreOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storeOpsTotal",
			Help: "Persistence store operations by result",
		},
		[]string{"op", "result"},
	)
	UnitSwitchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "unitSwitchesTotal",
			Help: "Total number of display unit changes",
		},
	)
	GeolocateTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geolocateTotal",
			Help: "Geolocation resolutions by outcome",
		},
		[]string{"result"},
	)
	MessagesShownTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messagesShownTotal",
			Help: "User-facing messages shown, by kind",
		},
		[]string{"kind"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of diagnostics HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "Diagnostics HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of diagnostics requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		LookupsTotal,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIErrorsTotal,
		StoreOpsTotal, UnitSwitchesTotal, GeolocateTotal, MessagesShownTotal,
		HTTPRequestsTotal, HTTPRequestDuration, RateLimitDeniedTotal,
	)
}

// RecordStoreOp records one persistence store operation outcome.
func RecordStoreOp(op, result string) {
	StoreOpsTotal.WithLabelValues(op, result).Inc()
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
