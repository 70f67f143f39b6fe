package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultTableAccessors(t *testing.T) {
	rt := NewResultTable([]string{"naive", "cv"}, []int{5, 10}, 3)

	rt.set("naive", 5, 0, 0.9, 1.0)
	rt.set("naive", 5, 1, 0.8, 2.0)
	rt.set("naive", 5, 2, 1.0, 3.0)

	cov, err := rt.Coverages("naive", 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.8, 1.0}, cov)

	widths, err := rt.Widths("naive", 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, widths)

	_, err = rt.Coverages("jackknife", 5)
	assert.Error(t, err)
	_, err = rt.Widths("naive", 7)
	assert.Error(t, err)
}

func TestResultTableAccessorsReturnCopies(t *testing.T) {
	rt := NewResultTable([]string{"naive"}, []int{5}, 2)
	rt.set("naive", 5, 0, 0.9, 1.0)
	rt.set("naive", 5, 1, 0.8, 2.0)

	cov, err := rt.Coverages("naive", 5)
	require.NoError(t, err)
	cov[0] = -1

	again, err := rt.Coverages("naive", 5)
	require.NoError(t, err)
	assert.Equal(t, 0.9, again[0])

	methods := rt.Methods()
	methods[0] = "mutated"
	assert.Equal(t, []string{"naive"}, rt.Methods())
}

func TestResultTableSummary(t *testing.T) {
	rt := NewResultTable([]string{"cv"}, []int{5}, 4)
	rt.set("cv", 5, 0, 0.8, 2.0)
	rt.set("cv", 5, 1, 0.9, 2.0)
	rt.set("cv", 5, 2, 0.8, 4.0)
	rt.set("cv", 5, 3, 0.9, 4.0)

	s, err := rt.Summary("cv")
	require.NoError(t, err)

	require.Len(t, s.CoverageMean, 1)
	assert.InDelta(t, 0.85, s.CoverageMean[0], 1e-12)
	assert.InDelta(t, 3.0, s.WidthMean[0], 1e-12)

	// Population std of {0.8,0.9,0.8,0.9} is 0.05; stderr = 0.05/2.
	assert.InDelta(t, 0.025, s.CoverageStdErr[0], 1e-12)
	// Population std of {2,2,4,4} is 1; stderr = 0.5.
	assert.InDelta(t, 0.5, s.WidthStdErr[0], 1e-12)

	_, err = rt.Summary("jackknife")
	assert.Error(t, err)
}

func TestResultTableSingleTrialStdErr(t *testing.T) {
	rt := NewResultTable([]string{"naive"}, []int{5}, 1)
	rt.set("naive", 5, 0, 0.9, 1.5)

	s, err := rt.Summary("naive")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.CoverageStdErr[0])
	assert.Equal(t, 0.0, s.WidthStdErr[0])
}
