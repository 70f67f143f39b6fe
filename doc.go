// Package gonformal provides conformal prediction intervals for regression
// in Go, together with the Monte Carlo studies that motivate them.
//
// The library implements the resampling-based interval estimators introduced
// by Foygel-Barber et al. (2020): jackknife, jackknife+, jackknife-minmax and
// their K-fold cross-validation counterparts, plus the naive split-free
// baseline. The estimator wraps any base regressor exposing Fit/Predict and
// returns, for each test point, a point prediction with lower and upper
// interval bounds targeting 1-alpha marginal coverage.
//
// # Packages
//
//   - conformal: the interval regressor and K-fold splitter
//   - linear: ordinary least-squares base learner
//   - preprocessing: feature transformers (polynomial expansion)
//   - metrics: interval and regression metrics
//   - simulation: the coverage-vs-dimension Monte Carlo harness
//   - visualization: gonum/plot figures for simulation results
//
// # Quick Start
//
// Estimate prediction intervals with the jackknife+ method:
//
//	reg := conformal.NewRegressor(
//	    func() conformal.BaseRegressor { return linear.NewLinearRegression() },
//	    conformal.WithMethod(conformal.MethodJackknifePlus),
//	    conformal.WithAlpha(0.1),
//	)
//	if err := reg.Fit(XTrain, yTrain); err != nil {
//	    log.Fatal(err)
//	}
//	intervals, err := reg.Predict(XTest)
//
// The simulation package reproduces the coverage and interval-width behavior
// of every method as the dataset dimension approaches the training size.
package gonformal
