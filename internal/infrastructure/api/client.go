// Package api is the console's client for the warehouse backend REST API.
// Every call is a single attempt: there is no retry, no backoff and no
// client-side timeout. Cancellation flows only through the context.
package api

import (
	"bytes"
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

	"github.com/erp/console/internal/domain/warehouse"
	"github.com/erp/console/internal/infrastructure/logger"
	"github.com/erp/console/internal/infrastructure/metrics"
	"github.com/erp/console/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrRequestFailed matches every non-2xx response via errors.Is.
var ErrRequestFailed = errors.New("api: request failed")

// RequestFailedError is the single error kind the backend can produce.
// Response bodies of failed calls are never parsed.
type RequestFailedError struct {
	StatusCode int
	Status     string // status text, e.g. "Not Found"
	Method     string
	Path       string
}

func (e *RequestFailedError) Error() string {
	return "API Error: " + e.Status
}

// Is lets errors.Is(err, ErrRequestFailed) succeed.
func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Observer receives one observation per backend call.
type Observer interface {
	ObserveBackendCall(resource, method, outcome string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveBackendCall(string, string, string, time.Duration) {}

// Config configures a Client.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client // optional; defaults to a client without timeout
	Observer   Observer     // optional
	Logger     *zap.Logger  // optional
}

// Client issues JSON requests against one fixed backend origin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	observer   Observer
	logger     *zap.Logger
}

// NewClient validates the base URL and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.MaxIdleConns = 100
		transport.MaxIdleConnsPerHost = 10
		transport.IdleConnTimeout = 90 * time.Second
		httpClient = &http.Client{Transport: transport}
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		observer: observer,
		logger:   log.Named("api"),
	}
	if cfg.UserAgent != "" {
		c.headers["User-Agent"] = cfg.UserAgent
	}
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request is one call to the backend.
type Request struct {
	Method   string
	Path     string     // already escaped, starting with "/"
	Route    string     // low-cardinality template for spans, e.g. "/products/{id}"
	Resource string     // metric label: products, shelves, robots, search
	Query    url.Values // optional
	Body     any        // JSON-encoded when non-nil
}

// Do executes req once and decodes the response envelope. The data member is
// left raw for the caller to decode.
func (c *Client) Do(ctx context.Context, req Request) (*warehouse.Envelope[json.RawMessage], error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}
	ctx, span := telemetry.StartSpan(ctx, "api."+req.Method+" "+route,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.AttrHTTPMethod, req.Method),
		telemetry.WithAttribute(telemetry.AttrHTTPRoute, route),
		telemetry.WithAttribute(telemetry.AttrResource, req.Resource),
	)
	defer span.End()

	start := time.Now()
	env, status, err := c.do(ctx, req)
	elapsed := time.Since(start)

	outcome := outcomeOf(err)
	c.observer.ObserveBackendCall(req.Resource, req.Method, outcome, elapsed)
	if status != 0 {
		telemetry.SetAttribute(span, telemetry.AttrHTTPStatus, status)
	}

	log := logger.WithLogger(ctx, c.logger)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Debug("Backend call failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("outcome", outcome),
			zap.Duration("latency", elapsed),
			zap.Error(err),
		)
		return nil, err
	}
	log.Debug("Backend call",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", status),
		zap.Duration("latency", elapsed),
	)
	return env, nil
}

func (c *Client) do(ctx context.Context, req Request) (*warehouse.Envelope[json.RawMessage], int, error) {
	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, 0, fmt.Errorf("building URL: %w", err)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating HTTP request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, &RequestFailedError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Method:     req.Method,
			Path:       req.Path,
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	env := &warehouse.Envelope[json.RawMessage]{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decoding response envelope: %w", err)
	}
	return env, resp.StatusCode, nil
}

// doJSON runs req and decodes the envelope's data member into T.
func doJSON[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	env, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decoding %s %s data: %w", req.Method, req.Path, err)
	}
	return out, nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// statusText mirrors what a browser reports as statusText: the reason phrase
// without the numeric code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func outcomeOf(err error) string {
	var failed *RequestFailedError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &failed):
		return metrics.OutcomeHTTPError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeTransport
	}
}
