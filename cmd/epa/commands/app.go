package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/wonny/epaforecast/internal/brain"
	"github.com/wonny/epaforecast/internal/external/nflverse"
	"github.com/wonny/epaforecast/internal/forecast"
	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/internal/s1_clean"
	"github.com/wonny/epaforecast/internal/s2_quality"
	"github.com/wonny/epaforecast/internal/settings"
	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/database"
	"github.com/wonny/epaforecast/pkg/httputil"
	"github.com/wonny/epaforecast/pkg/logger"
	"github.com/wonny/epaforecast/pkg/redis"
)

// app holds the shared dependencies every command wires from
type app struct {
	cfg      *config.Config
	settings *settings.Config
	log      *logger.Logger
	clock    clockwork.Clock

	db    *database.DB  // nil = DATABASE_URL 미설정
	redis *redis.Client // 비활성 시 pass-through
}

// bootstrap loads env config, pipeline settings and optional backends
func bootstrap(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Pipeline settings (flag > env > defaults)
	path := settingsFile
	if path == "" {
		path = cfg.SettingsPath
	}
	st, err := settings.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	a := &app{cfg: cfg, settings: st, log: log, clock: clockwork.NewRealClock()}

	// 4. Optional Postgres
	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Debug("DATABASE_URL not set, persistence disabled")
	case err != nil:
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.db = db
	}

	// 5. Optional Redis
	rc, err := redis.New(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc

	log.WithFields(map[string]interface{}{
		"env":      cfg.Env,
		"settings": path,
		"database": a.db != nil,
		"redis":    rc.Enabled(),
	}).Debug("Bootstrap completed")

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

// provider builds the nflverse client with the shared cache and rate limiter
func (a *app) provider() *nflverse.Client {
	httpClient := httputil.New(a.cfg, a.log).
		WithRateLimiter(redis.NewRateLimiter(a.redis, "epaforecast:ratelimit"), redis.ProviderRateLimit)
	cache := redis.NewCache(a.redis, "epaforecast")
	return nflverse.NewClient(httpClient, cache, a.cfg.Provider, a.log)
}

func (a *app) acquirer() *s0_data.Acquirer {
	var store s0_data.WeeklyStore
	if a.db != nil && a.settings.Acquire.Persist {
		store = s0_data.NewRepository(a.db.Pool)
	}
	return s0_data.NewAcquirer(a.provider(), store, a.log)
}

func (a *app) cleaner() *s1_clean.Cleaner {
	return s1_clean.NewCleaner(a.settings, a.log)
}

func (a *app) validator() *s2_quality.Validator {
	return s2_quality.NewValidator(a.settings.Clean.WeekCutoff, a.log)
}

// runRegistry returns nil (untyped) when runs are not recorded
func (a *app) runRegistry() forecast.RunRegistry {
	if a.db != nil && a.settings.Model.Register {
		return forecast.NewRepository(a.db.Pool)
	}
	return nil
}

func (a *app) trainer() *forecast.Trainer {
	return forecast.NewTrainer(a.settings, a.clock, a.runRegistry(), a.log.Zerolog())
}

func (a *app) orchestrator(events brain.EventPublisher) *brain.Orchestrator {
	return brain.NewOrchestrator(a.settings,
		a.acquirer(), a.cleaner(), a.validator(), a.trainer(),
		events, a.clock, a.log)
}
