// Request executor for the TMDB v3 REST API
package services

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL        = "https://api.themoviedb.org/3"
	defaultRequestTimeout = 5 * time.Second
	defaultRetries        = 2
	defaultBackoff        = time.Second
	defaultRateLimit      = 40
	defaultBurst          = 10

	// maxResponseBody caps how much of a response is read into memory.
	maxResponseBody = 8 << 20
)

// ExecutorConfig is the request policy for an [Executor].
type ExecutorConfig struct {
	BaseURL     string
	APIKey      string
	AccessToken string

	RequestTimeout time.Duration
	// Retries is the total number of attempts per call.
	Retries int
	// Backoff is multiplied by the attempt number to get the delay before the next attempt.
	Backoff   time.Duration
	RateLimit float64
	Burst     int
}

// ExecutorConfigFrom reads the request policy from the [tmdb] config table.
func ExecutorConfigFrom(c shared.TMDBConfig) ExecutorConfig {
	return ExecutorConfig{
		BaseURL:        c.BaseURL,
		APIKey:         c.APIKey,
		AccessToken:    c.AccessToken,
		RequestTimeout: c.RequestTimeout.Duration,
		Retries:        c.Retries,
		Backoff:        c.Backoff.Duration,
		RateLimit:      c.RateLimit,
		Burst:          c.Burst,
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Result is the outcome of one logical upstream read: either a body or an [UpstreamError].
type Result struct {
	Body json.RawMessage
	Err  *UpstreamError
}

// Ok wraps a successful body.
func Ok(body json.RawMessage) Result { return Result{Body: body} }

// Fail wraps a failure.
func Fail(err *UpstreamError) Result { return Result{Err: err} }

// OK reports whether the read succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Executor issues GET requests against TMDB with timeouts, rate limiting and bounded retry.
//
// Executor is safe for concurrent use.
type Executor struct {
	cfg        ExecutorConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	sleep      Sleeper
	logger     *log.Logger
}

// ExecutorOption configures an [Executor].
type ExecutorOption func(*Executor)

// WithHTTPClient sets the base HTTP client. Bearer authentication is layered on top of its transport.
func WithHTTPClient(c *http.Client) ExecutorOption {
	return func(e *Executor) {
		if c != nil {
			e.httpClient = c
		}
	}
}

// WithSleeper replaces the backoff wait.
func WithSleeper(s Sleeper) ExecutorOption {
	return func(e *Executor) {
		if s != nil {
			e.sleep = s
		}
	}
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(l *log.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExecutor creates an [Executor]. Zero values in cfg take the defaults.
func NewExecutor(cfg ExecutorConfig, opts ...ExecutorOption) *Executor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Retries < 1 {
		cfg.Retries = defaultRetries
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = defaultBackoff
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.Burst < 1 {
		cfg.Burst = defaultBurst
	}

	e := &Executor{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		sleep:      sleepContext,
		logger:     shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = shared.WithLogger(e.logger, "component", "executor")

	if cfg.AccessToken != "" {
		client := *e.httpClient
		client.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}),
			Base:   e.httpClient.Transport,
		}
		e.httpClient = &client
	}
	return e
}

// Configured reports whether an api key or access token is set.
func (e *Executor) Configured() bool {
	return e.cfg.APIKey != "" || e.cfg.AccessToken != ""
}

// BaseURL returns the API root requests are made against.
func (e *Executor) BaseURL() string { return e.cfg.BaseURL }

// Do performs a GET on endpoint with params, retrying every failure up to the configured attempt count.
//
// Between attempts it waits attempt * Backoff. It never returns a Go error: failures come back in [Result.Err].
func (e *Executor) Do(ctx context.Context, endpoint string, params url.Values) Result {
	if !e.Configured() {
		return Fail(&UpstreamError{Kind: KindNotConfigured, Endpoint: endpoint})
	}

	u, err := e.buildURL(endpoint, params)
	if err != nil {
		return Fail(&UpstreamError{Kind: KindUnavailable, Endpoint: endpoint, Cause: err})
	}

	last := &UpstreamError{Kind: KindUnavailable, Endpoint: endpoint}
	for attempt := 1; attempt <= e.cfg.Retries; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * e.cfg.Backoff
			e.logger.Warn("retrying upstream request", "endpoint", endpoint, "attempt", attempt, "delay", delay, "error", last.Cause)
			if err := e.sleep(ctx, delay); err != nil {
				last.Cause = errors.Join(last.Cause, err)
				break
			}
		}

		if err := e.limiter.Wait(ctx); err != nil {
			last.Cause = errors.Join(last.Cause, fmt.Errorf("rate limiter: %w", err))
			break
		}

		body, status, err := e.attempt(ctx, u)
		if err == nil {
			e.logger.Debug("upstream request succeeded", "endpoint", endpoint, "attempt", attempt)
			return Ok(body)
		}
		last = &UpstreamError{
			Kind:     KindUnavailable,
			Endpoint: endpoint,
			Attempts: attempt,
			Status:   status,
			Body:     truncateBody(body),
			Cause:    err,
		}
		if ctx.Err() != nil {
			break
		}
	}

	e.logger.Warn("upstream request failed", "endpoint", endpoint, "attempts", last.Attempts, "status", last.Status, "error", last.Cause)
	return Fail(last)
}

// Probe performs a single unretried GET /configuration.
func (e *Executor) Probe(ctx context.Context) error {
	if !e.Configured() {
		return shared.ErrNotConfigured
	}
	u, err := e.buildURL("/configuration", nil)
	if err != nil {
		return err
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	_, _, err = e.attempt(ctx, u)
	return err
}

func (e *Executor) attempt(ctx context.Context, u string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return body, resp.StatusCode, fmt.Errorf("%w: response is not JSON", shared.ErrNormalizationAnomaly)
	}
	return body, resp.StatusCode, nil
}

func (e *Executor) buildURL(endpoint string, params url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u, err := url.Parse(e.cfg.BaseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: endpoint %q: %v", shared.ErrInvalidInput, endpoint, err)
	}

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if e.cfg.APIKey != "" {
		q.Set("api_key", e.cfg.APIKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
