package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/wonny/epaforecast/internal/contracts"
)

// Split 결정적 train/test 인덱스 분할
// test 크기 = ceil(n * testFraction), 나머지는 train
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	nTest := int(math.Ceil(float64(n) * testFraction))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, fmt.Errorf("split %d rows at %.2f: %w", n, testFraction, contracts.ErrEmptyDataset)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// takeRows 지정한 행만 복사
func takeRows(X *mat.Dense, y []float64, idx []int) (*mat.Dense, []float64) {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	labels := make([]float64, len(idx))
	for i, r := range idx {
		out.SetRow(i, X.RawRowView(r))
		labels[i] = y[r]
	}
	return out, labels
}
