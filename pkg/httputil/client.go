package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/logger"
	"github.com/wonny/epaforecast/pkg/redis"
)

const (
	userAgent = "epaforecast/1.0 (+https://github.com/wonny/epaforecast)"

	// 시즌 CSV 한 개는 수 MB; 이보다 크면 잘못된 응답으로 간주
	maxBodyBytes = 128 << 20
)

// Client downloads provider payloads
// ⭐ SSOT: 모든 외부 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient   *http.Client
	logger       *logger.Logger
	retry        RetryConfig
	rateLimiter  *redis.RateLimiter
	rateLimitCfg redis.RateLimitConfig
}

// RetryConfig controls retries of transient failures (5xx, 429, transport errors)
type RetryConfig struct {
	MaxRetries   int // 0 = 실패 즉시 전파
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	URL        string
	StatusCode int
	RetryAfter time.Duration // 429/503의 Retry-After (없으면 0)
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// New creates a client from the provider config
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(cfg *config.Config, log *logger.Logger) *Client {
	timeout := cfg.Provider.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithField("module", "httputil"),
		retry: RetryConfig{
			MaxRetries:   cfg.Provider.MaxRetries,
			InitialDelay: time.Second,
			MaxDelay:     10 * time.Second,
		},
	}
}

// WithRetry overrides the retry policy
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retry.MaxRetries = maxRetries
	c.retry.InitialDelay = initialDelay
	return c
}

// DisableRetry makes every failure propagate on the first attempt
func (c *Client) DisableRetry() *Client {
	c.retry.MaxRetries = 0
	return c
}

// WithRateLimiter applies a shared (Redis) budget before every attempt
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.rateLimiter = limiter
	c.rateLimitCfg = cfg
	return c
}

// GetBytes downloads url and returns the body of a 2xx response
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	delay := c.retry.InitialDelay

	for attempt := 0; ; attempt++ {
		body, err := c.getOnce(ctx, url)
		if err == nil {
			c.logger.WithFields(map[string]interface{}{
				"url":      url,
				"bytes":    len(body),
				"attempts": attempt + 1,
				"duration": time.Since(start),
			}).Debug("HTTP download completed")
			return body, nil
		}

		if attempt >= c.retry.MaxRetries || !retryable(err) {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"url":      url,
				"attempts": attempt + 1,
			}).Warn("HTTP download failed")
			return nil, err
		}

		wait := delay
		var se *StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			wait = se.RetryAfter
		}
		if wait > c.retry.MaxDelay {
			wait = c.retry.MaxDelay
		}

		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   wait,
			"url":     url,
		}).Warn("Retrying HTTP request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx, c.rateLimitCfg); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, maxBodyBytes)
	}
	return body, nil
}

// retryable reports whether err is worth another attempt
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return IsRetryableError(se.StatusCode)
	}
	return true
}

// IsRetryableError checks if a status code should be retried (5xx, 429)
func IsRetryableError(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}

// parseRetryAfter reads the delay-seconds form of Retry-After
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
