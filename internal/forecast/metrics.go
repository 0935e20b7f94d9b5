package forecast

import (
	"gonum.org/v1/gonum/mat"

	"github.com/wonny/epaforecast/internal/contracts"
)

// Evaluate test 세트 혼동행렬 (P > 0.5 → 1)
func Evaluate(fit *FitResult, X mat.Matrix, y []float64) contracts.ConfusionMatrix {
	var cm contracts.ConfusionMatrix
	r, _ := X.Dims()
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, X)
		pred := Probability(fit.Weights, fit.Intercept, row) > 0.5
		actual := y[i] == 1

		switch {
		case pred && actual:
			cm.TruePositive++
		case pred && !actual:
			cm.FalsePositive++
		case !pred && !actual:
			cm.TrueNegative++
		default:
			cm.FalseNegative++
		}
	}
	return cm
}
