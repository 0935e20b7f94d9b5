package nflverse

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/epaforecast/pkg/redis"
)

// ListSeasons discovers which seasons are published in the release
func (c *Client) ListSeasons(ctx context.Context) ([]int, error) {
	key := redis.SeasonListKey(c.releaseTag)

	var cached []int
	if found, err := c.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	page, err := c.fetch(ctx, c.assetsURL())
	if err != nil {
		return nil, fmt.Errorf("fetch release assets: %w", err)
	}

	seasons, err := parseAssetSeasons(page, c.releaseTag)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, seasons, redis.TTLShort); err != nil {
		c.logger.WithError(err).Warn("Cache write failed")
	}

	c.logger.WithField("count", len(seasons)).Debug("Discovered seasons")
	return seasons, nil
}

// parseAssetSeasons extracts season years from asset links such as
// ".../download/player_stats/player_stats_2023.csv"
func parseAssetSeasons(page []byte, releaseTag string) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse release assets: %w", err)
	}

	assetRe := regexp.MustCompile(`/` + regexp.QuoteMeta(releaseTag) + `_(\d{4})\.csv$`)

	seen := make(map[int]bool)
	doc.Find("a[href]").Each(func(i int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := assetRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		seen[year] = true
	})

	seasons := make([]int, 0, len(seen))
	for y := range seen {
		seasons = append(seasons, y)
	}
	sort.Ints(seasons)
	return seasons, nil
}
