package contracts

import "time"

// ConfusionMatrix for a binary classifier (label 1 = above median)
type ConfusionMatrix struct {
	TruePositive  int `json:"tp"`
	FalsePositive int `json:"fp"`
	TrueNegative  int `json:"tn"`
	FalseNegative int `json:"fn"`
}

// Total returns the number of scored rows
func (c ConfusionMatrix) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// Accuracy returns the share of correct predictions (0 if empty)
func (c ConfusionMatrix) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TruePositive+c.TrueNegative) / float64(total)
}

// ModelArtifact is the persisted fitted model
// ⭐ SSOT: S3 출력물, Predictor/API 입력
type ModelArtifact struct {
	Features      []string        `json:"features"`
	Weights       []float64       `json:"weights"`
	Intercept     float64         `json:"intercept"`
	Threshold     float64         `json:"threshold"` // 라벨 기준 median(passing_epa)
	Accuracy      float64         `json:"accuracy"`
	Confusion     ConfusionMatrix `json:"confusion"`
	NTrain        int             `json:"n_train"`
	NTest         int             `json:"n_test"`
	Seed          int64           `json:"seed"`
	TestFraction  float64         `json:"test_fraction"`
	C             float64         `json:"c"`
	MaxIterations int             `json:"max_iterations"`
	Iterations    int             `json:"iterations"`
	Converged     bool            `json:"converged"`
	SettingsHash  string          `json:"settings_hash"`
	SourcePath    string          `json:"source_path"`
	TrainedAt     time.Time       `json:"trained_at"`
}

// Prediction is a single scored row
type Prediction struct {
	Probability float64 `json:"probability"`
	Label       int     `json:"label"`
}
