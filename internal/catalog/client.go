package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/ebs/internal/state"
)

// Service defines the catalog operations the results pipeline consumes.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	FetchPreviousSearches(ctx context.Context) ([]PreviousSearch, error)
	Search(ctx context.Context, query string, kind SearchKind) ([]Beer, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the Epic Beer Search HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limit     int
	logger    *slog.Logger
	health    *state.Store
	tracer    trace.Tracer
}

const (
	DefaultAPIURL = "http://adamsweb.asuscomm.com:8080"

	defaultUserAgent = "ebs/0.1"
	defaultLimit     = 30
	defaultTimeout   = 10 * time.Second
	requestIDHeader  = "X-Request-ID"
)

// API endpoint paths, relative to the base URL.
const (
	PreviousSearchesPath = "/epicbeersearch/ebs_get_search.py"
	SearchPath           = "/epicbeersearch/ebs_untappd.py"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPreviousSearchLimit sets message_limit for the recent-searches endpoint.
func WithPreviousSearchLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHealth records every call outcome in store.
func WithHealth(store *state.Store) Option {
	return func(c *Client) { c.health = store }
}

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API rooted at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: defaultUserAgent,
		limit:     defaultLimit,
		logger:    slog.Default(),
		tracer:    otel.Tracer("ebs/catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPreviousSearches retrieves the most recent searches made against the catalog.
func (c *Client) FetchPreviousSearches(ctx context.Context) ([]PreviousSearch, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	ctx, span := c.tracer.Start(ctx, "catalog.FetchPreviousSearches",
		trace.WithAttributes(attribute.Int("ebs.limit", c.limit)))
	defer span.End()

	values := url.Values{}
	values.Set("message_limit", strconv.Itoa(c.limit))
	rel := &url.URL{Path: PreviousSearchesPath, RawQuery: values.Encode()}

	var payload SearchListResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("ebs.results", len(payload.PreviousSearches)))
	return payload.PreviousSearches, nil
}

// Search runs a catalog query for beers or breweries.
func (c *Client) Search(ctx context.Context, query string, kind SearchKind) ([]Beer, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	ctx, span := c.tracer.Start(ctx, "catalog.Search", trace.WithAttributes(
		attribute.String("ebs.query", query),
		attribute.String("ebs.kind", kind.String()),
	))
	defer span.End()

	values := url.Values{}
	values.Set("search", query)
	values.Set("search_type", kind.String())
	rel := &url.URL{Path: SearchPath, RawQuery: values.Encode()}

	var payload SearchResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("ebs.results", len(payload.Beers)))
	return payload.Beers, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) (err error) {
	requestID := uuid.NewString()
	start := time.Now()
	defer func() {
		c.health.Record(err)
		if err != nil {
			c.logger.Warn("catalog request failed",
				slog.String("request_id", requestID),
				slog.String("path", rel.Path),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("error", err))
			return
		}
		c.logger.Debug("catalog request complete",
			slog.String("request_id", requestID),
			slog.String("path", rel.Path),
			slog.Duration("elapsed", time.Since(start)))
	}()

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
