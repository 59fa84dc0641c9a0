package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// IPLocator resolves the process's approximate position from its public
// IP using an ip-api style endpoint. It stands in for the browser
// geolocation prompt: a terminal process has no permission dialog, so a
// blocked or failing endpoint maps onto the same classified failures.
type IPLocator struct {
	apiURL string
	client *http.Client
}

// NewIPLocator creates an IPLocator against apiURL (e.g.
// "http://ip-api.com/json"). timeout bounds the single lookup request.
func NewIPLocator(apiURL string, timeout time.Duration) *IPLocator {
	return &IPLocator{
		apiURL: apiURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate implements Locator. Failures are classified: transport timeouts
// map to ErrTimeout, an HTTP 403 to ErrPermissionDenied, and everything
// else to ErrUnavailable.
func (l *IPLocator) Locate(ctx context.Context) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", l.apiURL, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Coordinates{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return Coordinates{}, fmt.Errorf("%w: HTTP 403", ErrPermissionDenied)
	}
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var apiResp ipAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Coordinates{}, fmt.Errorf("%w: parse response: %v", ErrUnavailable, err)
	}
	if apiResp.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, apiResp.Message)
	}

	return Coordinates{Lat: apiResp.Lat, Lon: apiResp.Lon}, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
