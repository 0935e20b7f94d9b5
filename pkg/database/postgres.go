package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epaforecast/pkg/config"
)

// ErrNotConfigured is returned when DATABASE_URL is empty
var ErrNotConfigured = errors.New("database not configured (DATABASE_URL is empty)")

// DB wraps the pgxpool.Pool
// ⭐ SSOT: DB 연결은 이 패키지에서만 생성
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool
// ⭐ SSOT: 유일하게 pgxpool.NewWithConfig()를 호출하는 함수
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	if !cfg.Database.Enabled() {
		return nil, ErrNotConfigured
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is accessible
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// schema is applied idempotently by EnsureSchema
const schema = `
CREATE SCHEMA IF NOT EXISTS data;
CREATE SCHEMA IF NOT EXISTS forecast;

CREATE TABLE IF NOT EXISTS data.weekly_qb_stats (
	player_id      TEXT    NOT NULL,
	season         INTEGER NOT NULL,
	week           INTEGER NOT NULL,
	season_type    TEXT    NOT NULL,
	passing_epa    DOUBLE PRECISION,
	completions    DOUBLE PRECISION,
	attempts       DOUBLE PRECISION,
	passing_yards  DOUBLE PRECISION,
	passing_tds    DOUBLE PRECISION,
	interceptions  DOUBLE PRECISION,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (player_id, season, week)
);

CREATE TABLE IF NOT EXISTS forecast.model_runs (
	id             BIGSERIAL PRIMARY KEY,
	settings_hash  TEXT             NOT NULL,
	features       TEXT[]           NOT NULL,
	weights        DOUBLE PRECISION[] NOT NULL,
	intercept      DOUBLE PRECISION NOT NULL,
	threshold      DOUBLE PRECISION NOT NULL,
	accuracy       DOUBLE PRECISION NOT NULL,
	n_train        INTEGER          NOT NULL,
	n_test         INTEGER          NOT NULL,
	iterations     INTEGER          NOT NULL,
	converged      BOOLEAN          NOT NULL,
	artifact       JSONB            NOT NULL,
	trained_at     TIMESTAMPTZ      NOT NULL
);
`

// EnsureSchema creates the tables used by the pipeline if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// HealthCheck returns health information about the database
func (db *DB) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Healthy:   false,
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status, err
	}
	status.ResponseTime = time.Since(start)

	stats := db.Pool.Stat()
	status.AcquiredConns = stats.AcquiredConns()
	status.IdleConns = stats.IdleConns()
	status.TotalConns = stats.TotalConns()

	status.Healthy = true
	return status, nil
}

// HealthStatus represents the health status of the database
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Timestamp     time.Time     `json:"timestamp"`
	ResponseTime  time.Duration `json:"response_time"`
	Error         string        `json:"error,omitempty"`
	AcquiredConns int32         `json:"acquired_conns"`
	IdleConns     int32         `json:"idle_conns"`
	TotalConns    int32         `json:"total_conns"`
}
