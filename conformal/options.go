package conformal

// Option is a function that configures a Regressor
type Option func(*Regressor)

// WithMethod sets the interval estimation method.
func WithMethod(method Method) Option {
	return func(r *Regressor) {
		r.method = method
	}
}

// WithAlpha sets the target miscoverage level. Predicted intervals aim for
// 1-alpha marginal coverage.
func WithAlpha(alpha float64) Option {
	return func(r *Regressor) {
		r.alpha = alpha
	}
}

// WithNSplits sets the number of folds for the cv family of methods.
func WithNSplits(nSplits int) Option {
	return func(r *Regressor) {
		r.nSplits = nSplits
	}
}

// WithShuffle sets whether cross-validation folds are shuffled.
func WithShuffle(shuffle bool) Option {
	return func(r *Regressor) {
		r.shuffle = shuffle
	}
}

// WithRandomSeed sets the seed used when shuffling folds.
func WithRandomSeed(seed uint64) Option {
	return func(r *Regressor) {
		r.seed = seed
	}
}

// WithAggregation sets how point predictions are produced for the plus and
// minmax methods: from the full-data model or as the ensemble median of the
// out-of-fold models.
func WithAggregation(agg Aggregation) Option {
	return func(r *Regressor) {
		r.aggregation = agg
	}
}
