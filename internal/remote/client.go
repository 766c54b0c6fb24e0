// Package remote is the HTTP client for the project service REST API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/projectctl/internal/config"
	"github.com/fyrsmithlabs/projectctl/internal/logging"
	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/telemetry"
)

const (
	listPath   = "/api/projects/"
	createPath = "/api/project/"
	deletePath = "/api/project/id/"

	maxBodySize = 10 * 1024 * 1024 // 10MB
)

// Client talks to the project service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      config.Secret
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	telemetry  *telemetry.Telemetry
	tracer     trace.Tracer
	metrics    *clientMetrics
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTelemetry sets the providers for client spans and metrics. Without it
// the otel globals are used.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(c *Client) { c.telemetry = t }
}

// New creates a client for the service at cfg.BaseURL.
func New(cfg config.RemoteConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout.Duration()},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("remote")
	c.tracer = c.telemetry.Tracer(instrumentationName)
	c.metrics = newClientMetrics(c.telemetry.Meter(instrumentationName), c.logger)

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "project-service",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout.Duration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn(context.Background(), "circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			c.metrics.stateChanged(to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientFault(err) || errors.Is(err, context.Canceled)
		},
	})

	return c, nil
}

// List fetches every project.
func (c *Client) List(ctx context.Context) ([]project.Project, error) {
	target := c.baseURL + listPath
	body, err := c.exchange(ctx, "list", http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	var projects []project.Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, &TransportError{
			Op:     "list",
			Method: http.MethodGet,
			URL:    target,
			Err:    fmt.Errorf("%w: %v", ErrDecode, err),
		}
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// Create posts p as a form. The response body is ignored.
func (c *Client) Create(ctx context.Context, p project.Project) error {
	form := url.Values{}
	form.Set("name", p.Name)
	form.Set("description", p.Description)
	form.Set("startDate", p.StartDate)
	form.Set("endDate", p.EndDate)

	_, err := c.exchange(ctx, "create", http.MethodPost, c.baseURL+createPath, form)
	return err
}

// Delete removes the project with the given id. A 404 counts as success.
func (c *Client) Delete(ctx context.Context, id project.ID) error {
	target := c.baseURL + deletePath + url.PathEscape(id.String())
	_, err := c.exchange(ctx, "delete", http.MethodDelete, target, nil)

	var te *TransportError
	if errors.As(err, &te) && te.StatusCode == http.StatusNotFound {
		c.logger.Debug(ctx, "delete of unknown project", zap.String("id", id.String()))
		return nil
	}
	return err
}

// exchange sends one request through the limiter and breaker and returns the
// body of a 2xx response. A non-nil form is sent url-encoded.
func (c *Client) exchange(ctx context.Context, op, method, target string, form url.Values) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "remote."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		))
	defer span.End()

	start := time.Now()
	status := 0
	fail := func(code int, err error) error {
		return &TransportError{Op: op, Method: method, URL: target, StatusCode: code, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			err = fail(0, fmt.Errorf("rate limiter error: %w", err))
			c.finish(ctx, span, op, 0, err, start)
			return nil, err
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var reqBody io.Reader
		if form != nil {
			reqBody = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
		if err != nil {
			return nil, fail(0, fmt.Errorf("failed to create request: %w", err))
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		req.Header.Set("Accept", "application/json")
		if c.token.IsSet() {
			req.Header.Set("Authorization", "Bearer "+c.token.Value())
		}

		c.logger.Trace(ctx, "sending request", zap.String("method", method), zap.String("url", target))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fail(0, err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fail(resp.StatusCode, fmt.Errorf("%w: %s", ErrUnexpectedStatus, snippet(body)))
		}
		return body, nil
	})
	if err != nil {
		var te *TransportError
		if !errors.As(err, &te) {
			// gobreaker.ErrOpenState or ErrTooManyRequests
			err = fail(0, err)
		}
		c.finish(ctx, span, op, status, err, start)
		return nil, err
	}

	c.finish(ctx, span, op, status, nil, start)
	return result.([]byte), nil
}

func (c *Client) finish(ctx context.Context, span trace.Span, op string, status int, err error, start time.Time) {
	elapsed := time.Since(start)
	c.metrics.record(ctx, op, status, err, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug(ctx, "request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	c.logger.Debug(ctx, "request completed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed))
}

// snippet trims a response body for inclusion in an error.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
