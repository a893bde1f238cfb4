// Package graph is a small Microsoft Graph client for the read-only Teams
// endpoints used to find call recordings. All requests go through a single
// retry wrapper that cooperates with Graph throttling (HTTP 429 + Retry-After),
// and collections are fetched by following @odata.nextLink until exhausted.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// RetryPolicy controls how throttled requests are retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per request, including the
	// first. Zero or less means DefaultRetryAttempts.
	MaxAttempts int
	// BaseDelay is the wait after the first throttled response when the server
	// sends no Retry-After header. It doubles on each further attempt.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff. Server-advertised waits are honoured as is.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the capped exponential policy used by the CLI.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultRetryAttempts,
		BaseDelay:   DefaultRetryDelay,
		MaxDelay:    DefaultMaxRetryDelay,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultRetryAttempts
	}
	return p.MaxAttempts
}

// backoff returns the wait before retrying after the n-th throttled attempt.
func (p RetryPolicy) backoff(n int) time.Duration {
	d := p.BaseDelay
	if d <= 0 {
		d = DefaultRetryDelay
	}
	for i := 1; i < n; i++ {
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			break
		}
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Client is a stateless wrapper around an authenticated *http.Client.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryPolicy
	limiter    *rate.Limiter
	logger     logger.Logger
	notice     io.Writer
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different Graph root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL == "" {
			return
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c.baseURL = baseURL
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimiter paces every request through l. A nil limiter disables pacing.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNoticeWriter sets where the human-readable throttling notice is written.
// It defaults to standard output.
func WithNoticeWriter(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.notice = w
		}
	}
}

// NewClient creates a Graph client on top of an already authenticated HTTP client.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		retry:      DefaultRetryPolicy(),
		logger:     logger.NoopLogger{},
		notice:     os.Stdout,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRateLimiter builds a limiter for WithRateLimiter. A non-positive rate
// returns nil, which disables pacing.
func NewRateLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// BaseURL returns the Graph root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiCall issues a GET for url and returns the successful response.
// Throttled responses are retried according to the client's RetryPolicy;
// every other non-2xx status is returned as an *APIError.
func (c *Client) apiCall(ctx context.Context, url string) (*http.Response, error) {
	if c.httpClient == nil {
		return nil, errors.New("HTTP client is nil, please provide a valid HTTP client")
	}

	for attempt := 1; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for request slot: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("creating request failed: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("graph request", "url", url, "attempt", attempt)
		res, err := c.httpClient.Do(req)
		if err != nil {
			return nil, transportError(err)
		}

		if res.StatusCode == http.StatusTooManyRequests {
			wait, advertised := retryAfter(res.Header, time.Now())
			drainAndClose(res)

			if attempt >= c.retry.attempts() {
				return nil, fmt.Errorf("%w: throttled %d times requesting %s", ErrRateLimitExhausted, attempt, url)
			}
			if !advertised {
				wait = c.retry.backoff(attempt)
			}

			fmt.Fprintf(c.notice, "Throttled. Retrying after %g seconds.\n", wait.Seconds())
			c.logger.Warn("graph request throttled", "url", url, "attempt", attempt, "wait", wait)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		if res.StatusCode < 200 || res.StatusCode > 299 {
			return nil, newAPIError(res, url)
		}
		return res, nil
	}
}

// getJSON fetches url and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	res, err := c.apiCall(ctx, url)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s failed: %w", url, err)
	}
	return nil
}

// retryAfter reads the Retry-After header, in seconds or as an HTTP date.
// The boolean is false when the header is absent or unusable.
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

// newAPIError consumes the body of a failed response.
func newAPIError(res *http.Response, url string) error {
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var graphError struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		URL:        url,
	}
	if err := json.Unmarshal(body, &graphError); err == nil {
		apiErr.Code = graphError.Error.Code
		apiErr.Message = graphError.Error.Message
	}
	return apiErr
}

// transportError classifies errors returned by http.Client.Do. Token refresh
// failures surface here as *oauth2.RetrieveError.
func transportError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("network error: %w", err)
}

func drainAndClose(res *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
	res.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
