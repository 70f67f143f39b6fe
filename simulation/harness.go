package simulation

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gonformal/conformal"
	"github.com/YuminosukeSato/gonformal/core/parallel"
	"github.com/YuminosukeSato/gonformal/linear"
	"github.com/YuminosukeSato/gonformal/metrics"
	"github.com/YuminosukeSato/gonformal/pkg/errors"
	"github.com/YuminosukeSato/gonformal/pkg/log"
)

// IntervalEstimator is the contract the harness consumes. The harness never
// looks inside: it fits on training data and asks for interval predictions
// on test data.
type IntervalEstimator interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (*conformal.Intervals, error)
}

// EstimatorFactory builds a fresh estimator for one (method, trial) fit.
type EstimatorFactory func(method string, alpha float64) (IntervalEstimator, error)

// Config describes one simulation run. The zero value is not runnable;
// Methods, Alpha, NTrials and Dimensions must be set. NTrain, NTest, SNR and
// Workers fall back to the study defaults (100, 100, 10, sequential).
type Config struct {
	// Methods are the interval estimation methods to evaluate. They are
	// passed to the estimator factory untouched; unknown names fail there.
	Methods []string
	// Alpha is the target miscoverage level.
	Alpha float64
	// NTrials is the number of independent trials per dimension.
	NTrials int
	// Dimensions is the sweep of dataset dimensionalities.
	Dimensions []int

	// NTrain and NTest are the per-trial sample counts. Default 100 each.
	NTrain int
	NTest  int
	// SNR is the signal-to-noise ratio of the synthesized data. Default 10.
	SNR float64

	// Seed controls reproducibility. Nil leaves the run unseeded, so every
	// run sees fresh randomness; set it to get bit-identical result tables
	// across runs, regardless of Workers.
	Seed *uint64

	// Workers bounds the number of goroutines running trials of one
	// dimension concurrently. 0 and 1 run sequentially; negative values
	// use one worker per CPU core. Trials are independent given their own
	// random streams, so aggregate statistics do not depend on scheduling.
	Workers int

	// NewEstimator overrides the estimator. The default wraps the
	// conformal regressor around an ordinary linear regression base
	// learner with 10-fold unshuffled splitting and ensemble predictions.
	NewEstimator EstimatorFactory
}

func (cfg Config) withDefaults() Config {
	if cfg.NTrain == 0 {
		cfg.NTrain = 100
	}
	if cfg.NTest == 0 {
		cfg.NTest = 100
	}
	if cfg.SNR == 0 {
		cfg.SNR = 10
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.NewEstimator == nil {
		cfg.NewEstimator = DefaultEstimatorFactory
	}
	return cfg
}

func (cfg Config) validate() error {
	if len(cfg.Methods) == 0 {
		return errors.NewValidationError("methods", "must not be empty", cfg.Methods)
	}
	if cfg.NTrials < 1 {
		return errors.NewValidationError("n_trials", "must be positive", cfg.NTrials)
	}
	if len(cfg.Dimensions) == 0 {
		return errors.NewValidationError("dimensions", "must not be empty", cfg.Dimensions)
	}
	for _, d := range cfg.Dimensions {
		if d < 1 {
			return errors.NewValidationError("dimensions", "must be positive", d)
		}
	}
	return nil
}

// DefaultEstimatorFactory builds the estimator the original study uses:
// a conformal regressor over ordinary linear regression, 10-fold unshuffled
// splitting, ensemble aggregation of predictions.
func DefaultEstimatorFactory(method string, alpha float64) (IntervalEstimator, error) {
	m, err := conformal.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return conformal.NewRegressor(
		func() conformal.BaseRegressor { return linear.NewLinearRegression() },
		conformal.WithMethod(m),
		conformal.WithAlpha(alpha),
		conformal.WithNSplits(10),
		conformal.WithShuffle(false),
		conformal.WithAggregation(conformal.AggregationEnsemble),
	), nil
}

// Run executes the full simulation: for every dimension and trial it
// synthesizes a fresh linear dataset, evaluates every method on it, and
// records empirical coverage and mean interval width. The run either
// completes in full or fails on the first estimator error; no partial table
// is returned.
func Run(cfg Config) (*ResultTable, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Each (dimension, trial) pair gets a private random stream derived
	// from the base seed, so seeded runs reproduce exactly even when
	// trials run concurrently.
	base0, base1 := runSeeds(cfg.Seed)

	lg := log.With("simulation")
	lg.Info().
		Strs("methods", cfg.Methods).
		Float64("alpha", cfg.Alpha).
		Int("n_trials", cfg.NTrials).
		Int("n_dimensions", len(cfg.Dimensions)).
		Bool("seeded", cfg.Seed != nil).
		Msg("starting simulation")

	table := NewResultTable(cfg.Methods, cfg.Dimensions, cfg.NTrials)

	for di, dim := range cfg.Dimensions {
		trialErrs := make([]error, cfg.NTrials)

		runTrials := func(start, end int) {
			for trial := start; trial < end; trial++ {
				rng := trialRand(base0, base1, di, trial)
				trialErrs[trial] = runTrial(cfg, table, rng, dim, trial)
			}
		}
		if cfg.Workers < 0 {
			parallel.Parallelize(cfg.NTrials, runTrials)
		} else {
			parallel.ParallelizeWorkers(cfg.NTrials, cfg.Workers, runTrials)
		}

		for _, err := range trialErrs {
			if err != nil {
				return nil, err
			}
		}

		lg.Debug().Int("dimension", dim).Msg("dimension completed")
	}

	lg.Info().Msg("simulation completed")

	return table, nil
}

// runTrial evaluates every configured method on one freshly drawn dataset.
func runTrial(cfg Config, table *ResultTable, rng *rand.Rand, dim, trial int) error {
	ds, err := NewLinearDataset(rng, cfg.NTrain, cfg.NTest, dim, cfg.SNR)
	if err != nil {
		return err
	}

	yTest := mat.NewVecDense(cfg.NTest, nil)
	for i := 0; i < cfg.NTest; i++ {
		yTest.SetVec(i, ds.YTest.At(i, 0))
	}

	for _, method := range cfg.Methods {
		est, err := cfg.NewEstimator(method, cfg.Alpha)
		if err != nil {
			return errors.Wrapf(err, "building estimator for method %q", method)
		}
		if err := est.Fit(ds.XTrain, ds.YTrain); err != nil {
			return errors.Wrapf(err, "fitting method %q at dimension %d trial %d", method, dim, trial)
		}
		iv, err := est.Predict(ds.XTest)
		if err != nil {
			return errors.Wrapf(err, "predicting method %q at dimension %d trial %d", method, dim, trial)
		}

		coverage, err := metrics.Coverage(yTest, iv.Lower, iv.Upper)
		if err != nil {
			return err
		}
		width, err := metrics.MeanWidth(iv.Lower, iv.Upper)
		if err != nil {
			return err
		}

		table.set(method, dim, trial, coverage, width)
	}

	return nil
}

// runSeeds derives the base PCG state for a run. A nil seed draws it from
// the process-wide generator, matching the original study's unseeded loop.
func runSeeds(seed *uint64) (uint64, uint64) {
	if seed == nil {
		return rand.Uint64(), rand.Uint64()
	}
	return *seed, splitmix64(*seed)
}

// trialRand returns the private random stream of one (dimension, trial) cell.
func trialRand(base0, base1 uint64, dimIdx, trial int) *rand.Rand {
	k := uint64(dimIdx)<<32 | uint64(uint32(trial))
	return rand.New(rand.NewPCG(splitmix64(base0^k), splitmix64(base1+k)))
}

// splitmix64 is the standard 64-bit mixing function used to derive
// well-separated stream seeds from a single base seed.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
