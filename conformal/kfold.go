package conformal

import (
	"math/rand/v2"
)

// Fold holds the train/test index split for one cross-validation fold.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements a k-fold cross-validation splitter.
//
// Without shuffling the folds are contiguous blocks in sample order, which
// matches scikit-learn's KFold(shuffle=False) and keeps resampling-based
// interval estimators deterministic.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a new k-fold splitter.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits: nSplits,
		Shuffle: shuffle,
		Seed:    seed,
	}
}

// Split generates train/test indices for each fold over nSamples samples.
// Fold sizes differ by at most one; the first nSamples mod NSplits folds
// carry the extra sample.
func (kf *KFold) Split(nSamples int) []Fold {
	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	isTest := make([]bool, nSamples)
	currentIdx := 0
	for k := 0; k < kf.NSplits; k++ {
		testSize := foldSize
		if k < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])
		for _, idx := range testIndices {
			isTest[idx] = true
		}

		trainIndices := make([]int, 0, nSamples-testSize)
		for _, idx := range indices {
			if !isTest[idx] {
				trainIndices = append(trainIndices, idx)
			}
		}
		for _, idx := range testIndices {
			isTest[idx] = false
		}

		folds[k] = Fold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return folds
}
