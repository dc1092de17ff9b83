// Package client provides the Eventbrite HTTP client used to resolve an
// organizer's latest event and collect its attendees.
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
	"strings"
	"time"

	"github.com/Sternrassler/attendee-beacon/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Eventbrite client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventbrite_requests_total",
		Help: "Total Eventbrite requests by route and status",
	}, []string{"route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventbrite_request_duration_seconds",
		Help:    "Eventbrite request duration in seconds by route",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"route"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventbrite_errors_total",
		Help: "Total Eventbrite errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents bodies that could not be decoded.
	ErrorClassDecode ErrorClass = "decode"
)

const (
	// DefaultBaseURL is the Eventbrite API root.
	DefaultBaseURL = "https://www.eventbriteapi.com"

	// DefaultUserAgent identifies the client to Eventbrite.
	DefaultUserAgent = "attendee-beacon/0.1.0"

	redacted = "REDACTED"

	routeEventsSearch   = "events_search"
	routeEventAttendees = "event_attendees"
	routeOther          = "other"
)

// Client talks to the Eventbrite v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Token is sent as the "token" query parameter on every request (REQUIRED).
	Token string

	// BaseURL is the API root, e.g. "https://www.eventbriteapi.com".
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for a whole request; 0 leaves the transport default in place.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration for the given token.
func DefaultConfig(token string) Config {
	return Config{
		Token:     token,
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
	}
}

// New creates a new Eventbrite client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  log.With().Str("component", "eventbrite-client").Logger(),
	}, nil
}

// GetJSON performs one GET against rawURL and decodes the JSON body into v.
// It performs no retries.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	safeURL := redactURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &TransportError{URL: safeURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	endpoint := req.URL.Path
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(routeOf(endpoint)).Observe(time.Since(startTime).Seconds())
	}()

	err = c.do(req, safeURL, v)
	if err != nil {
		class := classOf(err)
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("error_class", string(class)).
			Msg("Eventbrite request failed")
		return err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(startTime)).
		Msg("Eventbrite request succeeded")
	return nil
}

func (c *Client) do(req *http.Request, safeURL string, v any) error {
	route := routeOf(req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(route, "network_error").Inc()
		return &TransportError{URL: safeURL, Err: stripURLError(err)}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{URL: safeURL, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			URL:        safeURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			ErrorClass: classifyStatus(resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{URL: safeURL, Err: err}
	}
	if vd, ok := v.(validator); ok {
		if err := vd.validate(); err != nil {
			return &DecodeError{URL: safeURL, Err: err}
		}
	}
	return nil
}

// LatestEventID returns the id of the last event listed by the search
// endpoint for organizerID. Only the first page of results is consulted and
// no sorting is applied.
func (c *Client) LatestEventID(ctx context.Context, organizerID string) (string, error) {
	var result EventSearchResponse
	if err := c.GetJSON(ctx, c.SearchURL(organizerID), &result); err != nil {
		return "", err
	}

	if len(result.Events) == 0 {
		c.logger.Warn().Str("organizer_id", organizerID).Msg("Event search returned no events")
		return "", fmt.Errorf("organizer %s: %w", organizerID, ErrNotFound)
	}

	event := result.Events[len(result.Events)-1]
	c.logger.Info().
		Str("organizer_id", organizerID).
		Str("event_id", event.ID).
		Str("start_utc", event.Start.UTC).
		Int("events", len(result.Events)).
		Msg("Resolved latest event")
	return event.ID, nil
}

// CollectAttendees walks every attendee page of eventID and returns the
// attendees in page order. Any failed page aborts the whole collection.
func (c *Client) CollectAttendees(ctx context.Context, eventID string) ([]Attendee, error) {
	fetcher := pagination.PageFetcherFunc[Attendee](func(ctx context.Context, page int) (pagination.Page[Attendee], error) {
		var result AttendeePage
		if err := c.GetJSON(ctx, c.AttendeesURL(eventID, page), &result); err != nil {
			return pagination.Page[Attendee]{}, err
		}
		return pagination.Page[Attendee]{
			Number: result.Pagination.PageNumber,
			Count:  result.Pagination.PageCount,
			Items:  result.Attendees,
		}, nil
	})

	attendees, err := pagination.Collect[Attendee](ctx, fetcher)
	if err != nil {
		return nil, fmt.Errorf("collect attendees of event %s: %w", eventID, err)
	}
	return attendees, nil
}

// SearchURL builds the event search URL for organizerID.
func (c *Client) SearchURL(organizerID string) string {
	q := url.Values{}
	q.Set("token", c.config.Token)
	q.Set("organizer.id", organizerID)
	return c.endpointURL("/v3/events/search/", q)
}

// AttendeesURL builds the attendees URL for one page of eventID.
func (c *Client) AttendeesURL(eventID string, page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("token", c.config.Token)
	return c.endpointURL("/v3/events/"+eventID+"/attendees/", q)
}

func (c *Client) endpointURL(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	u.RawQuery = q.Encode()
	return u.String()
}

// routeOf maps a request path to a metric label that does not carry ids.
func routeOf(path string) string {
	switch {
	case strings.HasSuffix(path, "/v3/events/search/"):
		return routeEventsSearch
	case strings.Contains(path, "/v3/events/") && strings.HasSuffix(path, "/attendees/"):
		return routeEventAttendees
	default:
		return routeOther
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// classifyStatus categorizes a non-2xx status for observability.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// redactURL hides the token query parameter so URLs can be logged.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", redacted)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// stripURLError drops the *url.Error wrapper, which embeds the full request
// URL including the token.
func stripURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
