// Package conformal implements resampling-based prediction intervals for
// regression, following Foygel-Barber et al. (2020).
//
// A Regressor wraps any base learner exposing Fit/Predict and produces, for
// each test point, a point prediction together with lower and upper interval
// bounds targeting 1-alpha marginal coverage. The supported methods are the
// naive training-residual baseline, the jackknife family (leave-one-out) and
// the cv family (K-fold): standard, plus, and minmax variants of each.
package conformal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/core/model"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// Method identifies an interval estimation strategy.
type Method string

// Supported interval estimation methods.
const (
	MethodNaive           Method = "naive"
	MethodJackknife       Method = "jackknife"
	MethodJackknifePlus   Method = "jackknife_plus"
	MethodJackknifeMinmax Method = "jackknife_minmax"
	MethodCV              Method = "cv"
	MethodCVPlus          Method = "cv_plus"
	MethodCVMinmax        Method = "cv_minmax"
)

// Methods lists every supported method in canonical order.
func Methods() []Method {
	return []Method{
		MethodNaive,
		MethodJackknife,
		MethodJackknifePlus,
		MethodJackknifeMinmax,
		MethodCV,
		MethodCVPlus,
		MethodCVMinmax,
	}
}

// ParseMethod converts a method name into a Method, rejecting unknown names.
func ParseMethod(name string) (Method, error) {
	m := Method(name)
	switch m {
	case MethodNaive, MethodJackknife, MethodJackknifePlus, MethodJackknifeMinmax,
		MethodCV, MethodCVPlus, MethodCVMinmax:
		return m, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownMethod, "method %q", name)
}

func (m Method) isJackknife() bool {
	return m == MethodJackknife || m == MethodJackknifePlus || m == MethodJackknifeMinmax
}

func (m Method) isCV() bool {
	return m == MethodCV || m == MethodCVPlus || m == MethodCVMinmax
}

func (m Method) isPlus() bool {
	return m == MethodJackknifePlus || m == MethodCVPlus
}

func (m Method) isMinmax() bool {
	return m == MethodJackknifeMinmax || m == MethodCVMinmax
}

// Aggregation selects how point predictions are produced for the plus and
// minmax methods.
type Aggregation string

const (
	// AggregationSingle predicts with the model fitted on the full
	// training set.
	AggregationSingle Aggregation = "single"
	// AggregationEnsemble predicts with the per-sample median of the
	// out-of-fold models.
	AggregationEnsemble Aggregation = "ensemble"
)

// BaseRegressor is the contract a base learner must satisfy.
type BaseRegressor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Intervals holds per-test-point predictions with interval bounds.
type Intervals struct {
	Pred  *mat.VecDense
	Lower *mat.VecDense
	Upper *mat.VecDense
}

// Len returns the number of test points.
func (iv *Intervals) Len() int {
	return iv.Pred.Len()
}

// Regressor estimates prediction intervals around a base learner.
//
// Fit trains the full-data model and the leave-one-out or out-of-fold models
// the chosen method requires, retaining the conformity residuals
// |y_i - mu_{-i}(x_i)|. Predict turns those residuals into interval bounds.
type Regressor struct {
	model.BaseEstimator

	newBase     func() BaseRegressor
	method      Method
	alpha       float64
	nSplits     int
	shuffle     bool
	seed        uint64
	aggregation Aggregation

	single     BaseRegressor
	foldModels []BaseRegressor
	sampleFold []int // training sample index -> foldModels index
	residuals  []float64
	nFeatures  int
	nTrain     int
}

// NewRegressor creates a conformal interval regressor over fresh base
// learners produced by newBase. Defaults: jackknife_plus, alpha 0.1,
// 10 splits, no shuffling, single-model point predictions.
func NewRegressor(newBase func() BaseRegressor, opts ...Option) *Regressor {
	r := &Regressor{
		newBase:     newBase,
		method:      MethodJackknifePlus,
		alpha:       0.1,
		nSplits:     10,
		shuffle:     false,
		aggregation: AggregationSingle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Method returns the configured interval estimation method.
func (r *Regressor) Method() Method {
	return r.method
}

// Alpha returns the configured miscoverage level.
func (r *Regressor) Alpha() float64 {
	return r.alpha
}

// Fit trains the estimator. Configuration errors (unknown method, alpha
// outside (0,1), too few samples per fold) surface here, matching where
// scikit-learn-style estimators validate.
func (r *Regressor) Fit(X, y mat.Matrix) error {
	if _, err := ParseMethod(string(r.method)); err != nil {
		return err
	}
	if r.alpha <= 0 || r.alpha >= 1 {
		return errors.NewValidationError("alpha", "must be strictly between 0 and 1", r.alpha)
	}

	n, c := X.Dims()
	ry, cy := y.Dims()
	if n == 0 || c == 0 {
		return errors.NewModelError("Regressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != n {
		return errors.NewDimensionError("Regressor.Fit", n, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Regressor.Fit", "y must be a column vector")
	}

	r.nFeatures = c
	r.nTrain = n

	r.single = r.newBase()
	if err := r.single.Fit(X, y); err != nil {
		return errors.Wrap(err, "fitting full-data model")
	}

	switch {
	case r.method == MethodNaive:
		if err := r.fitNaive(X, y); err != nil {
			return err
		}
	case r.method.isJackknife():
		if err := r.fitJackknife(X, y); err != nil {
			return err
		}
	case r.method.isCV():
		if err := r.fitCV(X, y); err != nil {
			return err
		}
	}

	r.SetFitted()

	return nil
}

// fitNaive computes conformity residuals on the training data itself.
func (r *Regressor) fitNaive(X, y mat.Matrix) error {
	pred, err := r.single.Predict(X)
	if err != nil {
		return errors.Wrap(err, "predicting training data")
	}

	r.residuals = make([]float64, r.nTrain)
	for i := 0; i < r.nTrain; i++ {
		r.residuals[i] = math.Abs(y.At(i, 0) - pred.At(i, 0))
	}
	r.foldModels = nil
	r.sampleFold = nil

	return nil
}

// fitJackknife fits one leave-one-out model per training sample.
func (r *Regressor) fitJackknife(X, y mat.Matrix) error {
	n := r.nTrain
	if n < 2 {
		return errors.NewValidationError("n_samples", "jackknife requires at least 2 samples", n)
	}

	r.foldModels = make([]BaseRegressor, n)
	r.sampleFold = make([]int, n)
	r.residuals = make([]float64, n)

	for i := 0; i < n; i++ {
		trainIdx := make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if j != i {
				trainIdx = append(trainIdx, j)
			}
		}

		subX, subY := subsetRows(X, y, trainIdx)
		m := r.newBase()
		if err := m.Fit(subX, subY); err != nil {
			return errors.Wrapf(err, "fitting leave-one-out model %d", i)
		}

		heldOut := subsetX(X, []int{i})
		pred, err := m.Predict(heldOut)
		if err != nil {
			return errors.Wrapf(err, "predicting held-out sample %d", i)
		}

		r.foldModels[i] = m
		r.sampleFold[i] = i
		r.residuals[i] = math.Abs(y.At(i, 0) - pred.At(0, 0))
	}

	return nil
}

// fitCV fits one model per fold and computes out-of-fold residuals.
func (r *Regressor) fitCV(X, y mat.Matrix) error {
	n := r.nTrain
	if r.nSplits < 2 {
		return errors.NewValidationError("n_splits", "must be at least 2", r.nSplits)
	}
	if r.nSplits > n {
		return errors.NewValidationError("n_splits", "cannot exceed the number of samples", r.nSplits)
	}

	folds := NewKFold(r.nSplits, r.shuffle, r.seed).Split(n)

	r.foldModels = make([]BaseRegressor, len(folds))
	r.sampleFold = make([]int, n)
	r.residuals = make([]float64, n)

	for k, fold := range folds {
		subX, subY := subsetRows(X, y, fold.TrainIndices)
		m := r.newBase()
		if err := m.Fit(subX, subY); err != nil {
			return errors.Wrapf(err, "fitting fold %d model", k)
		}
		r.foldModels[k] = m

		heldOut := subsetX(X, fold.TestIndices)
		pred, err := m.Predict(heldOut)
		if err != nil {
			return errors.Wrapf(err, "predicting fold %d hold-out", k)
		}
		for j, idx := range fold.TestIndices {
			r.sampleFold[idx] = k
			r.residuals[idx] = math.Abs(y.At(idx, 0) - pred.At(j, 0))
		}
	}

	return nil
}

// Predict returns point predictions with interval bounds for X.
func (r *Regressor) Predict(X mat.Matrix) (*Intervals, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Regressor", "Predict")
	}

	nTest, c := X.Dims()
	if c != r.nFeatures {
		return nil, errors.NewDimensionError("Regressor.Predict", r.nFeatures, c, 1)
	}

	singlePred, err := r.single.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "predicting with full-data model")
	}

	iv := &Intervals{
		Pred:  mat.NewVecDense(nTest, nil),
		Lower: mat.NewVecDense(nTest, nil),
		Upper: mat.NewVecDense(nTest, nil),
	}
	for i := 0; i < nTest; i++ {
		iv.Pred.SetVec(i, singlePred.At(i, 0))
	}

	// The standard variants center a constant-width interval on the
	// full-data prediction; only the residual quantile differs by method.
	if r.method == MethodNaive || r.method == MethodJackknife || r.method == MethodCV {
		q := quantileHigher(r.residuals, 1-r.alpha)
		for i := 0; i < nTest; i++ {
			p := iv.Pred.AtVec(i)
			iv.Lower.SetVec(i, p-q)
			iv.Upper.SetVec(i, p+q)
		}
		return iv, nil
	}

	// Plus and minmax variants need the out-of-fold model predictions,
	// expanded so each training sample contributes its own fold model.
	foldPreds := make([][]float64, len(r.foldModels))
	for k, m := range r.foldModels {
		pred, err := m.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting with fold %d model", k)
		}
		col := make([]float64, nTest)
		for i := 0; i < nTest; i++ {
			col[i] = pred.At(i, 0)
		}
		foldPreds[k] = col
	}

	perSample := make([]float64, r.nTrain)
	lowCandidates := make([]float64, r.nTrain)
	upCandidates := make([]float64, r.nTrain)
	q := quantileHigher(r.residuals, 1-r.alpha)

	for i := 0; i < nTest; i++ {
		for j := 0; j < r.nTrain; j++ {
			perSample[j] = foldPreds[r.sampleFold[j]][i]
		}

		switch {
		case r.method.isPlus():
			for j := 0; j < r.nTrain; j++ {
				lowCandidates[j] = perSample[j] - r.residuals[j]
				upCandidates[j] = perSample[j] + r.residuals[j]
			}
			iv.Lower.SetVec(i, quantileLower(lowCandidates, r.alpha))
			iv.Upper.SetVec(i, quantileHigher(upCandidates, 1-r.alpha))
		case r.method.isMinmax():
			lo, hi := perSample[0], perSample[0]
			for _, p := range perSample[1:] {
				if p < lo {
					lo = p
				}
				if p > hi {
					hi = p
				}
			}
			iv.Lower.SetVec(i, lo-q)
			iv.Upper.SetVec(i, hi+q)
		}

		if r.aggregation == AggregationEnsemble {
			iv.Pred.SetVec(i, median(perSample))
		}
	}

	return iv, nil
}

// subsetRows extracts the given rows of X and y into fresh matrices.
func subsetRows(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	_, c := X.Dims()
	subX := mat.NewDense(len(indices), c, nil)
	subY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY.Set(i, 0, y.At(idx, 0))
	}
	return subX, subY
}

// subsetX extracts the given rows of X into a fresh matrix.
func subsetX(X mat.Matrix, indices []int) mat.Matrix {
	_, c := X.Dims()
	sub := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			sub.Set(i, j, X.At(idx, j))
		}
	}
	return sub
}
