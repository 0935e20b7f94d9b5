package nflverse

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/httputil"
	"github.com/wonny/epaforecast/pkg/logger"
	"github.com/wonny/epaforecast/pkg/redis"
)

// Client handles communication with the nflverse data releases
// ⭐ SSOT: nflverse 원천 데이터 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
	releaseTag string
}

// NewClient creates a new nflverse client
// cache는 Redis 비활성 시 no-op
func NewClient(httpClient *httputil.Client, cache *redis.Cache, cfg config.ProviderConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		releaseTag: cfg.ReleaseTag,
	}
}

// SeasonURL returns the asset URL of one season's weekly player stats
func (c *Client) SeasonURL(season int) string {
	return fmt.Sprintf("%s/download/%s/%s_%d.csv", c.baseURL, c.releaseTag, c.releaseTag, season)
}

// assetsURL returns the release asset listing page
func (c *Client) assetsURL() string {
	return fmt.Sprintf("%s/expanded_assets/%s", c.baseURL, c.releaseTag)
}

// fetch waits for the local limiter and downloads url
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}
	return c.httpClient.GetBytes(ctx, url)
}
