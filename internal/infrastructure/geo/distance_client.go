// Package geo wraps the external distance-matrix service the engine uses for
// road distance and travel time between a vendor's dispatch point and a
// delivery destination.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/velora/shipping-engine/internal/api/metrics"
	"github.com/velora/shipping-engine/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const statusOK = "OK"

// Config captures the settings for the distance provider. The credential is
// injected here; the client holds no process-global state.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each round trip so a slow provider cannot stall callers
	// indefinitely. Defaults to 10s.
	Timeout time.Duration
}

// DistanceClient calls the distance-matrix endpoint and normalizes its
// response into a domain.DistanceResult. It implements ports.DistanceProvider.
type DistanceClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
	log     zerolog.Logger
}

func NewDistanceClient(cfg Config, log zerolog.Logger) *DistanceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DistanceClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
		log:     log,
	}
}

// --- Wire types ---

type matrixValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type matrixElement struct {
	Status            string      `json:"status"`
	Distance          matrixValue `json:"distance"`
	Duration          matrixValue `json:"duration"`
	DurationInTraffic matrixValue `json:"duration_in_traffic"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Rows         []matrixRow `json:"rows"`
}

// GetDistance performs one round trip to the provider. Any transport failure,
// non-success request status, or non-success element status surfaces as
// domain.ErrDistanceProvider; a failed lookup never degrades to distance zero.
// No retries happen here; retrying is a caller-level decision.
func (c *DistanceClient) GetDistance(ctx context.Context, origin, destination domain.Location) (*domain.DistanceResult, error) {
	reqURL, err := c.buildURL(origin, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDistanceProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDistanceProvider, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
		c.log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("distance provider unreachable")
		return nil, fmt.Errorf("%w: %v", domain.ErrDistanceProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
		c.log.Error().Int("status_code", resp.StatusCode).Msg("distance provider returned non-200")
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrDistanceProvider, resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrDistanceProvider, err)
	}

	if body.Status != statusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(body.Status).Inc()
		c.log.Warn().Str("status", body.Status).Str("error_message", body.ErrorMessage).Msg("distance request rejected by provider")
		return nil, fmt.Errorf("%w: request status %s", domain.ErrDistanceProvider, body.Status)
	}

	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("empty_response").Inc()
		return nil, fmt.Errorf("%w: empty response", domain.ErrDistanceProvider)
	}

	element := body.Rows[0].Elements[0]
	if element.Status != statusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(element.Status).Inc()
		c.log.Warn().Str("element_status", element.Status).Msg("no route between origin and destination")
		return nil, fmt.Errorf("%w: element status %s", domain.ErrDistanceProvider, element.Status)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(statusOK).Inc()
	c.log.Debug().
		Int("distance_m", element.Distance.Value).
		Int("duration_s", element.Duration.Value).
		Dur("elapsed", time.Since(start)).
		Msg("distance fetched")

	return &domain.DistanceResult{
		DistanceMeters:           element.Distance.Value,
		DurationSeconds:          element.Duration.Value,
		DurationInTrafficSeconds: element.DurationInTraffic.Value,
		FetchedAt:                c.now().UTC(),
	}, nil
}

// buildURL assembles the distance-matrix request with a live-traffic hint.
func (c *DistanceClient) buildURL(origin, destination domain.Location) (string, error) {
	u, err := url.Parse(c.baseURL + "/distancematrix/json")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("origins", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	q.Set("destinations", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	q.Set("departure_time", "now")
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
