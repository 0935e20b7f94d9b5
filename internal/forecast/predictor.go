package forecast

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wonny/epaforecast/internal/contracts"
)

// Predictor 저장된 모델로 점수 계산
type Predictor struct {
	artifact *contracts.ModelArtifact
	index    map[string]int
	log      zerolog.Logger
}

// NewPredictor 새 예측기 생성
func NewPredictor(artifact *contracts.ModelArtifact, log zerolog.Logger) *Predictor {
	index := make(map[string]int, len(artifact.Features))
	for i, f := range artifact.Features {
		index[f] = i
	}
	return &Predictor{
		artifact: artifact,
		index:    index,
		log:      log.With().Str("component", "forecast.predictor").Logger(),
	}
}

// Artifact 로드된 모델
func (p *Predictor) Artifact() *contracts.ModelArtifact {
	return p.artifact
}

// Predict 특성 벡터(아티팩트 Features 순서) 점수 계산
func (p *Predictor) Predict(x []float64) (contracts.Prediction, error) {
	if len(x) != len(p.artifact.Weights) {
		return contracts.Prediction{}, fmt.Errorf("predict: got %d features, model expects %d", len(x), len(p.artifact.Weights))
	}

	prob := Probability(p.artifact.Weights, p.artifact.Intercept, x)
	label := 0
	if prob > 0.5 {
		label = 1
	}
	return contracts.Prediction{Probability: prob, Label: label}, nil
}

// PredictNamed 이름 → 값 맵으로 점수 계산 (누락 특성은 에러)
func (p *Predictor) PredictNamed(values map[string]float64) (contracts.Prediction, error) {
	x := make([]float64, len(p.artifact.Features))
	for name, i := range p.index {
		v, ok := values[name]
		if !ok {
			return contracts.Prediction{}, fmt.Errorf("predict: %w: %s", contracts.ErrMissingColumn, name)
		}
		x[i] = v
	}
	return p.Predict(x)
}

// PredictRecord 주간 레코드 점수 계산
func (p *Predictor) PredictRecord(rec contracts.WeeklyQBRecord) (contracts.Prediction, error) {
	values := make(map[string]float64, len(contracts.FeatureColumns()))
	for i, v := range rec.Features() {
		values[contracts.FeatureColumns()[i]] = v
	}
	pred, err := p.PredictNamed(values)
	if err != nil {
		return pred, err
	}

	p.log.Debug().
		Str("player_id", rec.PlayerID).
		Int("season", rec.Season).
		Int("week", rec.Week).
		Float64("probability", pred.Probability).
		Msg("scored record")
	return pred, nil
}
