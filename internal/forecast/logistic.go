package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// =============================================================================
// Logistic Regression (L2, LBFGS)
// =============================================================================

// LogisticRegression L2 정규화 로지스틱 회귀 (절편은 정규화 제외)
//
// 목적 함수: mean(logloss) + ||w||² / (2·C·n)
type LogisticRegression struct {
	C             float64
	MaxIterations int
	Tolerance     float64
}

// FitResult 학습 결과
type FitResult struct {
	Weights    []float64
	Intercept  float64
	Loss       float64
	Iterations int
	Converged  bool
	Status     optimize.Status
}

// Fit X(n×k), y∈{0,1} 학습
func (m LogisticRegression) Fit(X mat.Matrix, y []float64) (*FitResult, error) {
	n, k := X.Dims()
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("fit: %d rows vs %d labels", n, len(y))
	}
	if m.C <= 0 {
		return nil, errors.New("fit: C must be > 0")
	}

	yv := mat.NewVecDense(n, y)
	penalty := 1 / (2 * m.C * float64(n))

	// params = [w_1..w_k, b]
	z := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	gw := mat.NewVecDense(k, nil)

	linear := func(params []float64) {
		z.MulVec(X, mat.NewVecDense(k, params[:k]))
		for i := 0; i < n; i++ {
			z.SetVec(i, z.AtVec(i)+params[k])
		}
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			linear(params)
			loss := 0.0
			for i := 0; i < n; i++ {
				loss += logLoss(z.AtVec(i), yv.AtVec(i))
			}
			w := params[:k]
			return loss/float64(n) + penalty*floats.Dot(w, w)
		},
		Grad: func(grad, params []float64) {
			linear(params)
			for i := 0; i < n; i++ {
				resid.SetVec(i, sigmoid(z.AtVec(i))-yv.AtVec(i))
			}
			gw.MulVec(X.T(), resid)
			for j := 0; j < k; j++ {
				grad[j] = gw.AtVec(j)/float64(n) + 2*penalty*params[j]
			}
			grad[k] = mat.Sum(resid) / float64(n)
		},
	}

	tol := m.Tolerance
	if tol <= 0 {
		tol = 1e-4
	}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIterations,
		GradientThreshold: tol,
	}

	result, err := optimize.Minimize(problem, make([]float64, k+1), settings, &optimize.LBFGS{})
	if result == nil {
		if err == nil {
			err = errors.New("optimizer returned no result")
		}
		return nil, fmt.Errorf("fit: %w", err)
	}

	fit := &FitResult{
		Weights:    append([]float64(nil), result.X[:k]...),
		Intercept:  result.X[k],
		Loss:       result.F,
		Iterations: result.Stats.MajorIterations,
		Status:     result.Status,
		Converged:  err == nil && result.Status != optimize.IterationLimit,
	}
	return fit, err
}

// Probability P(y=1 | x)
func Probability(weights []float64, intercept float64, x []float64) float64 {
	return sigmoid(floats.Dot(weights, x) + intercept)
}

// sigmoid 수치 안정 버전
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logLoss -[y·log σ(z) + (1-y)·log(1-σ(z))] = log(1+e^z) - y·z
func logLoss(z, y float64) float64 {
	return log1pExp(z) - y*z
}

func log1pExp(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
