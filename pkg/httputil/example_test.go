package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/httputil"
	"github.com/wonny/epaforecast/pkg/logger"
)

// Example_retry downloads a release asset with two retries on 5xx/429
func Example_retry() {
	cfg := &config.Config{Provider: config.ProviderConfig{Timeout: 30 * time.Second}}
	client := httputil.New(cfg, logger.Nop()).WithRetry(2, 500*time.Millisecond)

	body, err := client.GetBytes(context.Background(),
		"https://github.com/nflverse/nflverse-data/releases/download/player_stats/player_stats_2023.csv")
	if err != nil {
		fmt.Println("download failed:", err)
		return
	}
	fmt.Println("bytes:", len(body))
}
