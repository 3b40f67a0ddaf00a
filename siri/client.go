package siri

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/theoremus-urban-solutions/siri-stop-finder/config"
)

// Client fetches SIRI-Lite documents over HTTP and implements the
// search engine's data source contract. Every request carries the
// provider account key. Each call is bounded by the configured HTTP
// timeout and is never retried.
type Client struct {
	baseURL    string
	accountKey string
	httpClient *http.Client
	limiter    *rate.Limiter // nil when throttling is disabled
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.ProviderConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accountKey: cfg.AccountKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// FetchLineCatalog retrieves the full lines-discovery catalog.
func (c *Client) FetchLineCatalog() ([]LineAnnouncement, error) {
	var doc linesDiscoveryResponse
	if err := c.get("lines-discovery.json", url.Values{}, &doc); err != nil {
		return nil, err
	}
	lines := doc.announcements()
	log.Debug().Int("lines", len(lines)).Msg("fetched line catalog")
	return lines, nil
}

// FetchStopCatalog retrieves the stop points inside box.
func (c *Client) FetchStopCatalog(box BoundingBox) ([]StopAnnouncement, error) {
	params := url.Values{}
	params.Set("BoundingBox.UpperLeft.longitude", formatCoord(box.West))
	params.Set("BoundingBox.UpperLeft.latitude", formatCoord(box.North))
	params.Set("BoundingBox.LowerRight.longitude", formatCoord(box.East))
	params.Set("BoundingBox.LowerRight.latitude", formatCoord(box.South))

	var doc stopPointsDiscoveryResponse
	if err := c.get("stoppoints-discovery.json", params, &doc); err != nil {
		return nil, err
	}
	stops := doc.announcements()
	log.Debug().Int("stops", len(stops)).Msg("fetched stop catalog")
	return stops, nil
}

// FetchDepartures retrieves upcoming visits for a stop, sorted by
// revised-or-scheduled time. lineRef narrows to one line when
// non-empty; directionRef narrows to one direction when not -1.
func (c *Client) FetchDepartures(stopPointRef, lineRef string, directionRef int, preview string, maxVisits int) ([]Visit, error) {
	params := url.Values{}
	params.Set("MonitoringRef", stopPointRef)
	params.Set("PreviewInterval", preview)
	params.Set("MaximumStopVisits", strconv.Itoa(maxVisits))
	if lineRef != "" {
		params.Set("LineRef", lineRef)
	}
	if directionRef != -1 {
		params.Set("DirectionRef", strconv.Itoa(directionRef))
	}

	var doc stopMonitoringResponse
	if err := c.get("stop-monitoring.json", params, &doc); err != nil {
		return nil, err
	}
	return doc.visits(), nil
}

func (c *Client) get(endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(context.Background()); err != nil {
			return newError(endpoint, err)
		}
	}

	params.Set("AccountKey", c.accountKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return newError(endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return newError(endpoint, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.baseURL+"/"+endpoint))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(endpoint, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
