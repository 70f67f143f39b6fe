// Package model provides the shared estimator plumbing: the fitted-state
// base embedded by every estimator and the interfaces regression models
// satisfy.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for models that learn from data.
type Fitter interface {
	// Fit trains the model on the given design matrix and targets.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce point predictions.
type Predictor interface {
	// Predict returns an (n x 1) matrix of predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a regression model satisfies.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Transformer is the interface for feature transformers.
type Transformer interface {
	// Fit learns the transformation parameters from X.
	Fit(X mat.Matrix) error
	// Transform applies the learned transformation to X.
	Transform(X mat.Matrix) (mat.Matrix, error)
}
