package conformal

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/linear"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

func newLinearBase() BaseRegressor {
	return linear.NewLinearRegression()
}

// noisyLinearData draws y = 2x + 1 + noise with a fixed seed.
func noisyLinearData(n int, sigma float64, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := rng.NormFloat64()
		X.Set(i, 0, x)
		y.Set(i, 0, 2*x+1+sigma*rng.NormFloat64())
	}
	return X, y
}

func TestRegressorUnknownMethod(t *testing.T) {
	reg := NewRegressor(newLinearBase, WithMethod("bootstrap"))
	X, y := noisyLinearData(20, 0.1, 1)

	err := reg.Fit(X, y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownMethod))
}

func TestRegressorAlphaValidation(t *testing.T) {
	X, y := noisyLinearData(20, 0.1, 1)

	for _, alpha := range []float64{0, 1, -0.5, 1.5} {
		reg := NewRegressor(newLinearBase, WithAlpha(alpha))
		err := reg.Fit(X, y)
		require.Error(t, err, "alpha=%v", alpha)

		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), "alpha=%v", alpha)
	}
}

func TestRegressorPredictBeforeFit(t *testing.T) {
	reg := NewRegressor(newLinearBase)
	_, err := reg.Predict(mat.NewDense(1, 1, []float64{0}))
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestRegressorPredictDimensionMismatch(t *testing.T) {
	X, y := noisyLinearData(20, 0.1, 1)
	reg := NewRegressor(newLinearBase, WithMethod(MethodNaive))
	require.NoError(t, reg.Fit(X, y))

	_, err := reg.Predict(mat.NewDense(2, 3, nil))
	require.Error(t, err)

	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

// TestRegressorIntervalShapes runs every method over the same data and
// checks the structural properties of the returned intervals.
func TestRegressorIntervalShapes(t *testing.T) {
	XTrain, yTrain := noisyLinearData(40, 0.5, 7)
	XTest, _ := noisyLinearData(15, 0.5, 8)

	for _, method := range Methods() {
		t.Run(string(method), func(t *testing.T) {
			reg := NewRegressor(newLinearBase,
				WithMethod(method),
				WithAlpha(0.1),
				WithNSplits(5),
			)
			require.NoError(t, reg.Fit(XTrain, yTrain))

			iv, err := reg.Predict(XTest)
			require.NoError(t, err)

			require.Equal(t, 15, iv.Len())
			require.Equal(t, 15, iv.Lower.Len())
			require.Equal(t, 15, iv.Upper.Len())

			for i := 0; i < iv.Len(); i++ {
				lo, hi := iv.Lower.AtVec(i), iv.Upper.AtVec(i)
				assert.LessOrEqual(t, lo, hi, "point %d", i)
				assert.False(t, math.IsNaN(iv.Pred.AtVec(i)), "point %d", i)
			}
		})
	}
}

// TestRegressorNoiselessData checks that intervals collapse when the base
// learner fits the data exactly.
func TestRegressorNoiselessData(t *testing.T) {
	X := mat.NewDense(20, 1, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		x := float64(i) / 10
		X.Set(i, 0, x)
		y.Set(i, 0, 3*x-2)
	}

	reg := NewRegressor(newLinearBase, WithMethod(MethodNaive), WithAlpha(0.1))
	require.NoError(t, reg.Fit(X, y))

	iv, err := reg.Predict(X)
	require.NoError(t, err)

	for i := 0; i < iv.Len(); i++ {
		assert.InDelta(t, y.At(i, 0), iv.Pred.AtVec(i), 1e-8)
		assert.InDelta(t, 0, iv.Upper.AtVec(i)-iv.Lower.AtVec(i), 1e-8)
	}
}

// TestRegressorCoverageWellSpecified checks empirical coverage lands near the
// 1-alpha target on well-specified linear data. The bound is deliberately
// loose: this is a sanity check, not a calibration test.
func TestRegressorCoverageWellSpecified(t *testing.T) {
	XTrain, yTrain := noisyLinearData(100, 1.0, 11)
	XTest, yTest := noisyLinearData(200, 1.0, 12)

	reg := NewRegressor(newLinearBase,
		WithMethod(MethodJackknifePlus),
		WithAlpha(0.1),
	)
	require.NoError(t, reg.Fit(XTrain, yTrain))

	iv, err := reg.Predict(XTest)
	require.NoError(t, err)

	covered := 0
	for i := 0; i < iv.Len(); i++ {
		v := yTest.At(i, 0)
		if iv.Lower.AtVec(i) <= v && v <= iv.Upper.AtVec(i) {
			covered++
		}
	}
	coverage := float64(covered) / float64(iv.Len())
	assert.Greater(t, coverage, 0.75, "coverage far below the 0.9 target")
}

// TestRegressorEnsembleAggregation checks the ensemble median stays close to
// the single-model prediction when the folds agree.
func TestRegressorEnsembleAggregation(t *testing.T) {
	XTrain, yTrain := noisyLinearData(60, 0.2, 21)
	XTest, _ := noisyLinearData(10, 0.2, 22)

	single := NewRegressor(newLinearBase,
		WithMethod(MethodCVPlus),
		WithNSplits(10),
		WithAggregation(AggregationSingle),
	)
	ensemble := NewRegressor(newLinearBase,
		WithMethod(MethodCVPlus),
		WithNSplits(10),
		WithAggregation(AggregationEnsemble),
	)
	require.NoError(t, single.Fit(XTrain, yTrain))
	require.NoError(t, ensemble.Fit(XTrain, yTrain))

	ivSingle, err := single.Predict(XTest)
	require.NoError(t, err)
	ivEnsemble, err := ensemble.Predict(XTest)
	require.NoError(t, err)

	for i := 0; i < ivSingle.Len(); i++ {
		assert.InDelta(t, ivSingle.Pred.AtVec(i), ivEnsemble.Pred.AtVec(i), 0.5)
		// Bounds are aggregation-independent.
		assert.Equal(t, ivSingle.Lower.AtVec(i), ivEnsemble.Lower.AtVec(i))
		assert.Equal(t, ivSingle.Upper.AtVec(i), ivEnsemble.Upper.AtVec(i))
	}
}

// TestRegressorShuffledSplitsReproducible checks that shuffled fold
// assignment under a fixed seed yields identical intervals across fits.
func TestRegressorShuffledSplitsReproducible(t *testing.T) {
	XTrain, yTrain := noisyLinearData(40, 0.5, 31)
	XTest, _ := noisyLinearData(10, 0.5, 32)

	fitAndPredict := func() *Intervals {
		reg := NewRegressor(newLinearBase,
			WithMethod(MethodCVPlus),
			WithNSplits(5),
			WithShuffle(true),
			WithRandomSeed(17),
		)
		require.NoError(t, reg.Fit(XTrain, yTrain))
		iv, err := reg.Predict(XTest)
		require.NoError(t, err)
		return iv
	}

	a := fitAndPredict()
	b := fitAndPredict()

	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Lower.AtVec(i), b.Lower.AtVec(i), "point %d", i)
		assert.Equal(t, a.Upper.AtVec(i), b.Upper.AtVec(i), "point %d", i)
	}
}

func TestRegressorSplitValidation(t *testing.T) {
	X, y := noisyLinearData(8, 0.1, 3)

	reg := NewRegressor(newLinearBase, WithMethod(MethodCV), WithNSplits(1))
	require.Error(t, reg.Fit(X, y))

	reg = NewRegressor(newLinearBase, WithMethod(MethodCV), WithNSplits(9))
	require.Error(t, reg.Fit(X, y))

	reg = NewRegressor(newLinearBase, WithMethod(MethodCV), WithNSplits(4))
	require.NoError(t, reg.Fit(X, y))
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMethod("split_conformal")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownMethod))
}
