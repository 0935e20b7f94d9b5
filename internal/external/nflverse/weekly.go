package nflverse

import (
	"context"
	"fmt"

	"github.com/wonny/epaforecast/pkg/redis"
)

// FetchSeasonCSV downloads the raw weekly player stats CSV for one season
// 실패는 그대로 전파 (재시도는 httputil 설정에 따름)
func (c *Client) FetchSeasonCSV(ctx context.Context, season int) ([]byte, error) {
	key := redis.SeasonCSVKey(c.releaseTag, season)

	if data, found, err := c.cache.GetBytes(ctx, key); err != nil {
		c.logger.WithError(err).Warn("Cache read failed, fetching from provider")
	} else if found {
		c.logger.WithFields(map[string]interface{}{
			"season": season,
			"bytes":  len(data),
		}).Debug("Season CSV served from cache")
		return data, nil
	}

	data, err := c.fetch(ctx, c.SeasonURL(season))
	if err != nil {
		return nil, fmt.Errorf("fetch season %d: %w", season, err)
	}

	if err := c.cache.SetBytes(ctx, key, data, redis.TTLDaily); err != nil {
		c.logger.WithError(err).Warn("Cache write failed")
	}

	c.logger.WithFields(map[string]interface{}{
		"season": season,
		"bytes":  len(data),
	}).Info("Fetched season CSV")
	return data, nil
}
