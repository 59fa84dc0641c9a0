package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jmalden/weatherdesk/internal/models"
	"github.com/jmalden/weatherdesk/internal/observability"
)

// WeatherClient fetches current conditions by place name or coordinates.
// Each call issues exactly one HTTP GET; there are no retries, and no
// timeout beyond the transport's own.
type WeatherClient interface {
	FetchByName(ctx context.Context, name string) (models.Snapshot, error)
	FetchByCoords(ctx context.Context, lat, lon float64) (models.Snapshot, error)
}

var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrPlaceNotFound = errors.New("place not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrUpstream      = errors.New("upstream failure")
	ErrNetwork       = errors.New("network failure")
)

// OpenWeatherClient queries the OpenWeatherMap current-weather endpoint
// with units=metric, so snapshot temperatures are always Celsius.
type OpenWeatherClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}

	return &OpenWeatherClient{
		apiKey: apiKey,
		apiURL: apiURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// currentWeatherResponse mirrors the subset of the OpenWeatherMap payload
// the app renders. Optional fields are pointers so an absent value is
// distinguishable from a real zero.
type currentWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Icon        string `json:"icon"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   *int    `json:"deg"`
	} `json:"wind"`
	Visibility *int `json:"visibility"`
}

// FetchByName fetches current conditions for a place name. The caller has
// already validated the name (non-empty after trim, minimum length).
func (c *OpenWeatherClient) FetchByName(ctx context.Context, name string) (models.Snapshot, error) {
	params := url.Values{}
	params.Set("q", name)
	return c.fetch(ctx, params)
}

// FetchByCoords fetches current conditions for a coordinate pair. The
// geolocation collaborator is trusted to produce valid ranges.
func (c *OpenWeatherClient) FetchByCoords(ctx context.Context, lat, lon float64) (models.Snapshot, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.fetch(ctx, params)
}

func (c *OpenWeatherClient) fetch(ctx context.Context, params url.Values) (models.Snapshot, error) {
	start := time.Now()

	req, err := c.buildRequest(ctx, params)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.Snapshot{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return models.Snapshot{}, fmt.Errorf("%w: request timeout: %v", ErrNetwork, err)
		}
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if err := c.handleErrorResponse(resp); err != nil {
		return models.Snapshot{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("read response body: %w", err)
	}

	var apiResp currentWeatherResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return models.Snapshot{}, fmt.Errorf("parse response: %w", err)
	}

	return mapResponse(apiResp), nil
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *OpenWeatherClient) handleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: HTTP 401", ErrInvalidAPIKey)
	case http.StatusNotFound:
		return fmt.Errorf("%w", ErrPlaceNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w", ErrRateLimited)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	return nil
}

// mapResponse normalizes the API payload into a Snapshot. The API does not
// echo a usable local time, so the observation instant defaults to the
// retrieval time. Absent optional fields stay nil, never zero.
func mapResponse(apiResp currentWeatherResponse) models.Snapshot {
	snap := models.Snapshot{
		City:        apiResp.Name,
		Country:     apiResp.Sys.Country,
		ObservedAt:  time.Now(),
		TempC:       apiResp.Main.Temp,
		FeelsLikeC:  apiResp.Main.FeelsLike,
		HumidityPct: apiResp.Main.Humidity,
		WindSpeedMS: apiResp.Wind.Speed,
		PressureHPa: apiResp.Main.Pressure,
	}

	if len(apiResp.Weather) > 0 {
		snap.ConditionCode = apiResp.Weather[0].Icon
		snap.ConditionText = apiResp.Weather[0].Description
	}
	if apiResp.Wind.Deg != nil {
		d := *apiResp.Wind.Deg
		snap.WindDeg = &d
	}
	if apiResp.Visibility != nil {
		v := *apiResp.Visibility
		snap.VisibilityM = &v
	}

	return snap
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
