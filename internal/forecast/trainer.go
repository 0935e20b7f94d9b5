package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/settings"
)

// RunRegistry 학습 이력 기록 (nil = 기록 생략)
type RunRegistry interface {
	SaveRun(ctx context.Context, artifact *contracts.ModelArtifact) (int64, error)
}

// Trainer S3 모델 학습기
// ⭐ SSOT: 라벨링/분할/학습/평가/저장 순서는 여기서만
type Trainer struct {
	cfg      *settings.Config
	clock    clockwork.Clock
	registry RunRegistry
	log      zerolog.Logger
}

// NewTrainer 새 학습기 생성
func NewTrainer(cfg *settings.Config, clock clockwork.Clock, registry RunRegistry, log zerolog.Logger) *Trainer {
	return &Trainer{
		cfg:      cfg,
		clock:    clock,
		registry: registry,
		log:      log.With().Str("component", "forecast.trainer").Logger(),
	}
}

// Train 정제 CSV로 모델 학습 후 아티팩트 저장
func (t *Trainer) Train(ctx context.Context, cleanedPath string) (*contracts.ModelArtifact, error) {
	start := time.Now()
	mc := t.cfg.Model

	ds, err := LoadDataset(cleanedPath, mc.Features)
	if err != nil {
		return nil, err
	}

	// 1. 라벨: 전체 데이터 중앙값 기준 (분할 전 계산)
	threshold := Median(ds.EPA)
	y := Labels(ds.EPA, threshold)

	// 2. 분할
	trainIdx, testIdx, err := Split(ds.Rows(), mc.TestFraction, mc.Seed)
	if err != nil {
		return nil, err
	}
	XTrain, yTrain := takeRows(ds.X, y, trainIdx)
	XTest, yTest := takeRows(ds.X, y, testIdx)

	// 3. 학습
	model := LogisticRegression{C: mc.C, MaxIterations: mc.MaxIterations}
	fit, err := model.Fit(XTrain, yTrain)
	if fit == nil {
		return nil, err
	}
	if err != nil {
		t.log.Warn().Err(err).Msg("optimizer stopped early, using last location")
	}
	if fit.Status == optimize.IterationLimit {
		t.log.Warn().
			Int("max_iterations", mc.MaxIterations).
			Msg("logistic regression did not converge, consider raising max_iterations")
	}

	// 4. 평가
	cm := Evaluate(fit, XTest, yTest)

	hash, err := settings.Hash(t.cfg)
	if err != nil {
		return nil, fmt.Errorf("hash settings: %w", err)
	}

	artifact := &contracts.ModelArtifact{
		Features:      append([]string(nil), mc.Features...),
		Weights:       fit.Weights,
		Intercept:     fit.Intercept,
		Threshold:     threshold,
		Accuracy:      cm.Accuracy(),
		Confusion:     cm,
		NTrain:        len(trainIdx),
		NTest:         len(testIdx),
		Seed:          mc.Seed,
		TestFraction:  mc.TestFraction,
		C:             mc.C,
		MaxIterations: mc.MaxIterations,
		Iterations:    fit.Iterations,
		Converged:     fit.Converged,
		SettingsHash:  hash,
		SourcePath:    cleanedPath,
		TrainedAt:     t.clock.Now().UTC(),
	}

	// 5. 저장
	if err := SaveArtifact(mc.Path, artifact); err != nil {
		return nil, err
	}

	if t.registry != nil {
		id, err := t.registry.SaveRun(ctx, artifact)
		if err != nil {
			return nil, fmt.Errorf("register model run: %w", err)
		}
		t.log.Info().Int64("run_id", id).Msg("model run registered")
	}

	t.log.Info().
		Str("input", cleanedPath).
		Str("model", mc.Path).
		Int("n_train", artifact.NTrain).
		Int("n_test", artifact.NTest).
		Float64("threshold", threshold).
		Float64("accuracy", artifact.Accuracy).
		Int("iterations", artifact.Iterations).
		Bool("converged", artifact.Converged).
		Dur("duration", time.Since(start)).
		Msg("model trained")

	return artifact, nil
}
