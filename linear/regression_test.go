package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

func TestFitExactLinearData(t *testing.T) {
	// y = 2*x0 - 3*x1 + 1
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		2, 1,
		1, 2,
	})
	y := mat.NewDense(6, 1, []float64{1, 3, -2, 0, 2, -3})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	weights := lr.GetWeights()
	wantW := []float64{2, -3}
	for i, w := range weights {
		if math.Abs(w-wantW[i]) > 1e-8 {
			t.Errorf("weight[%d] = %v, want %v", i, w, wantW[i])
		}
	}
	if math.Abs(lr.GetIntercept()-1) > 1e-8 {
		t.Errorf("intercept = %v, want 1", lr.GetIntercept())
	}
}

func TestFitUnderdeterminedSystem(t *testing.T) {
	// More features than samples: the normal equations are singular but
	// the SVD solver must still return a finite minimum-norm solution.
	X := mat.NewDense(3, 5, []float64{
		1, 0, 2, -1, 0.5,
		0, 1, 1, 3, -2,
		2, 1, 0, 1, 1,
	})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// The fit must interpolate the training data exactly.
	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 1e-8 {
			t.Errorf("pred[%d] = %v, want %v", i, pred.At(i, 0), y.At(i, 0))
		}
	}
	for i, w := range lr.GetWeights() {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			t.Errorf("weight[%d] is not finite: %v", i, w)
		}
	}
}

func TestFitWithoutIntercept(t *testing.T) {
	// y = 3*x with a bias column already in X.
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
	})
	y := mat.NewDense(4, 1, []float64{5, 8, 11, 14})

	lr := NewLinearRegression(WithFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if lr.GetIntercept() != 0 {
		t.Errorf("intercept = %v, want 0", lr.GetIntercept())
	}
	weights := lr.GetWeights()
	if len(weights) != 2 {
		t.Fatalf("len(weights) = %d, want 2", len(weights))
	}
	// 2 + 3*x fitted through the explicit bias column.
	if math.Abs(weights[0]-2) > 1e-8 || math.Abs(weights[1]-3) > 1e-8 {
		t.Errorf("weights = %v, want [2 3]", weights)
	}
}

func TestPredictBeforeFit(t *testing.T) {
	lr := NewLinearRegression()
	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("expected error for unfitted model")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %T", err)
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	_, err := lr.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	if err == nil {
		t.Fatal("expected dimension error")
	}
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %T", err)
	}
}

func TestScore(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(score-1.0) > 1e-10 {
		t.Errorf("score = %v, want 1.0", score)
	}
}
