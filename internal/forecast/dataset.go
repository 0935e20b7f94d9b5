package forecast

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/s0_data"
)

// =============================================================================
// Dataset
// =============================================================================

// Dataset 학습 입력 (특성 행렬 + passing_epa)
type Dataset struct {
	Features []string
	X        *mat.Dense
	EPA      []float64
}

// Rows 행 수
func (d *Dataset) Rows() int {
	return len(d.EPA)
}

// LoadDataset 정제 CSV에서 특성 행렬과 EPA 로드
func LoadDataset(path string, features []string) (*Dataset, error) {
	df, err := s0_data.ReadFrame(path)
	if err != nil {
		return nil, err
	}

	for _, col := range append([]string{contracts.ColPassingEPA}, features...) {
		if !s0_data.HasColumn(df, col) {
			return nil, fmt.Errorf("load dataset: %w: %s", contracts.ErrMissingColumn, col)
		}
	}

	n := df.Nrow()
	if n == 0 {
		return nil, fmt.Errorf("load dataset %s: %w", path, contracts.ErrEmptyDataset)
	}

	X := mat.NewDense(n, len(features), nil)
	for j, name := range features {
		col := df.Col(name).Float()
		for i, v := range col {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("load dataset: feature %s is missing at row %d", name, i)
			}
			X.Set(i, j, v)
		}
	}

	return &Dataset{
		Features: features,
		X:        X,
		EPA:      df.Col(contracts.ColPassingEPA).Float(),
	}, nil
}

// =============================================================================
// Labels
// =============================================================================

// Median NaN 제외 중앙값 (짝수 개면 가운데 두 값의 평균)
func Median(values []float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Labels 1 if value > threshold else 0
//
// threshold는 전체 데이터셋의 중앙값 (분할 전 계산, 라벨 누수 존재)
func Labels(values []float64, threshold float64) []float64 {
	y := make([]float64, len(values))
	for i, v := range values {
		if v > threshold {
			y[i] = 1
		}
	}
	return y
}
