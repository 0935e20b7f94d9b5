package forecast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/epaforecast/internal/contracts"
)

// Repository 모델 학습 이력 저장소 (forecast.model_runs)
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository 새 저장소 생성
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun 학습 결과 저장
func (r *Repository) SaveRun(ctx context.Context, a *contracts.ModelArtifact) (int64, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO forecast.model_runs
			(settings_hash, features, weights, intercept, threshold, accuracy,
			 n_train, n_test, iterations, converged, artifact, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		a.SettingsHash, a.Features, a.Weights, a.Intercept, a.Threshold, a.Accuracy,
		a.NTrain, a.NTest, a.Iterations, a.Converged, payload, a.TrainedAt,
	).Scan(&id)
	return id, err
}

// RunSummary 학습 이력 요약
type RunSummary struct {
	ID           int64     `json:"id"`
	SettingsHash string    `json:"settings_hash"`
	Accuracy     float64   `json:"accuracy"`
	NTrain       int       `json:"n_train"`
	NTest        int       `json:"n_test"`
	Converged    bool      `json:"converged"`
	TrainedAt    time.Time `json:"trained_at"`
}

// RecentRuns 최근 학습 이력 조회
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, settings_hash, accuracy, n_train, n_test, converged, trained_at
		FROM forecast.model_runs
		ORDER BY trained_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.SettingsHash, &s.Accuracy, &s.NTrain, &s.NTest, &s.Converged, &s.TrainedAt); err != nil {
			return nil, err
		}
		runs = append(runs, s)
	}
	return runs, rows.Err()
}
