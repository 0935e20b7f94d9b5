package s0_data

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epaforecast/internal/contracts"
)

// Repository persists weekly QB rows to data.weekly_qb_stats
// ⭐ SSOT: 주간 스탯 저장소는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertWeekly upserts records keyed by (player_id, season, week)
func (r *Repository) UpsertWeekly(ctx context.Context, records []contracts.WeeklyQBRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO data.weekly_qb_stats
			(player_id, season, week, season_type, passing_epa, completions, attempts, passing_yards, passing_tds, interceptions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (player_id, season, week) DO UPDATE SET
			season_type = EXCLUDED.season_type,
			passing_epa = EXCLUDED.passing_epa,
			completions = EXCLUDED.completions,
			attempts = EXCLUDED.attempts,
			passing_yards = EXCLUDED.passing_yards,
			passing_tds = EXCLUDED.passing_tds,
			interceptions = EXCLUDED.interceptions,
			updated_at = NOW()`

	for _, rec := range records {
		batch.Queue(query, rec.PlayerID, rec.Season, rec.Week, rec.SeasonType,
			nullable(rec.PassingEPA), nullable(rec.Completions), nullable(rec.Attempts),
			nullable(rec.PassingYards), nullable(rec.PassingTDs), nullable(rec.Interceptions))
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return 0, err
		}
	}

	return len(records), nil
}

// CountBySeason returns the stored row count for a season
func (r *Repository) CountBySeason(ctx context.Context, season int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM data.weekly_qb_stats WHERE season = $1`, season,
	).Scan(&n)
	return n, err
}

// nullable maps NaN to SQL NULL
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
