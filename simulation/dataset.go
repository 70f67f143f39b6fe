// Package simulation provides the Monte Carlo harness used to study the
// coverage and interval-width behavior of conformal interval estimators as
// the dataset dimension grows, reproducing the experimental setup of
// Foygel-Barber et al. (2020).
package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// LinearDataset is one simulated trial: linear data with a controlled
// signal-to-noise ratio.
type LinearDataset struct {
	XTrain *mat.Dense
	YTrain *mat.Dense
	XTest  *mat.Dense
	YTest  *mat.Dense
	Beta   []float64
}

// NewLinearDataset draws a linear regression trial. The coefficient vector
// is standard normal, rescaled to norm sqrt(snr) so the signal's explanatory
// power is fixed regardless of dimension; design matrices and noise are
// standard normal. Every random draw comes from rng, which keeps trials
// reproducible when the caller seeds it.
func NewLinearDataset(rng *rand.Rand, nTrain, nTest, dim int, snr float64) (*LinearDataset, error) {
	if nTrain < 1 || nTest < 1 {
		return nil, errors.NewValidationError("n_samples", "must be positive", []int{nTrain, nTest})
	}
	if dim < 1 {
		return nil, errors.NewValidationError("dimension", "must be positive", dim)
	}
	if snr <= 0 {
		return nil, errors.NewValidationError("snr", "must be positive", snr)
	}

	beta := make([]float64, dim)
	var norm float64
	for j := range beta {
		beta[j] = rng.NormFloat64()
		norm += beta[j] * beta[j]
	}
	norm = math.Sqrt(norm)
	scale := math.Sqrt(snr) / norm
	for j := range beta {
		beta[j] *= scale
	}

	ds := &LinearDataset{
		XTrain: mat.NewDense(nTrain, dim, nil),
		YTrain: mat.NewDense(nTrain, 1, nil),
		XTest:  mat.NewDense(nTest, dim, nil),
		YTest:  mat.NewDense(nTest, 1, nil),
		Beta:   beta,
	}

	fill := func(X, y *mat.Dense, n int) {
		for i := 0; i < n; i++ {
			var signal float64
			for j := 0; j < dim; j++ {
				v := rng.NormFloat64()
				X.Set(i, j, v)
				signal += v * beta[j]
			}
			y.Set(i, 0, signal+rng.NormFloat64())
		}
	}
	fill(ds.XTrain, ds.YTrain, nTrain)
	fill(ds.XTest, ds.YTest, nTest)

	return ds, nil
}

// PolynomialSignal is the noiseless target of the one-dimensional
// homoscedastic study: f(x) = 5x + 5x^4 - 9x^2.
func PolynomialSignal(x float64) float64 {
	x2 := x * x
	return 5*x + 5*x2*x2 - 9*x2
}

// Dataset1D is the one-dimensional homoscedastic study dataset: exponential
// training inputs with Gaussian noise of constant scale, and a noiseless
// test grid.
type Dataset1D struct {
	XTrain *mat.Dense
	YTrain *mat.Dense
	XTest  *mat.Dense
	YTest  []float64 // noiseless f(x) on the test grid
	Sigma  float64
	// Band is the half-width of the true 90% interval, 1.8*sigma.
	Band float64
}

// NewHomoscedastic1D draws the 1D study data: training inputs from an
// exponential distribution with scale 0.4, training targets f(x) + N(0,
// sigma^2), and an evenly spaced test grid over [0.001, 1.2).
func NewHomoscedastic1D(rng *rand.Rand, nTrain, nTest int, sigma float64) (*Dataset1D, error) {
	if nTrain < 1 || nTest < 1 {
		return nil, errors.NewValidationError("n_samples", "must be positive", []int{nTrain, nTest})
	}
	if sigma < 0 {
		return nil, errors.NewValidationError("sigma", "must be non-negative", sigma)
	}

	const q90 = 1.8

	ds := &Dataset1D{
		XTrain: mat.NewDense(nTrain, 1, nil),
		YTrain: mat.NewDense(nTrain, 1, nil),
		XTest:  mat.NewDense(nTest, 1, nil),
		YTest:  make([]float64, nTest),
		Sigma:  sigma,
		Band:   q90 * sigma,
	}

	for i := 0; i < nTrain; i++ {
		x := rng.ExpFloat64() * 0.4
		ds.XTrain.Set(i, 0, x)
		ds.YTrain.Set(i, 0, PolynomialSignal(x)+sigma*rng.NormFloat64())
	}

	lo, hi := 0.001, 1.2
	step := (hi - lo) / float64(nTest)
	for i := 0; i < nTest; i++ {
		x := lo + float64(i)*step
		ds.XTest.Set(i, 0, x)
		ds.YTest[i] = PolynomialSignal(x)
	}

	return ds, nil
}
