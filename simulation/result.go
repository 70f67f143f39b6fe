package simulation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gonformal/pkg/errors"
)

// TrialKey identifies one cell of the result table.
type TrialKey struct {
	Method    string
	Dimension int
}

type cell struct {
	coverages []float64
	widths    []float64
}

// ResultTable holds per-trial coverage and mean interval width for every
// (method, dimension) pair of a simulation run. It is written once per cell
// by the harness and read-only afterwards: every accessor returns copies, so
// downstream consumers (plotting included) cannot mutate the stored data.
type ResultTable struct {
	methods    []string
	dimensions []int
	nTrials    int
	cells      map[TrialKey]*cell
}

// NewResultTable allocates a table with one cell per (method, dimension)
// pair, each holding nTrials slots.
func NewResultTable(methods []string, dimensions []int, nTrials int) *ResultTable {
	rt := &ResultTable{
		methods:    append([]string(nil), methods...),
		dimensions: append([]int(nil), dimensions...),
		nTrials:    nTrials,
		cells:      make(map[TrialKey]*cell, len(methods)*len(dimensions)),
	}
	for _, m := range methods {
		for _, d := range dimensions {
			rt.cells[TrialKey{Method: m, Dimension: d}] = &cell{
				coverages: make([]float64, nTrials),
				widths:    make([]float64, nTrials),
			}
		}
	}
	return rt
}

// set records one trial's statistics. It is the harness's single write path.
func (rt *ResultTable) set(method string, dimension, trial int, coverage, width float64) {
	c := rt.cells[TrialKey{Method: method, Dimension: dimension}]
	c.coverages[trial] = coverage
	c.widths[trial] = width
}

// Methods returns the methods in run order.
func (rt *ResultTable) Methods() []string {
	return append([]string(nil), rt.methods...)
}

// Dimensions returns the dimension sweep in run order.
func (rt *ResultTable) Dimensions() []int {
	return append([]int(nil), rt.dimensions...)
}

// NTrials returns the number of trials per cell.
func (rt *ResultTable) NTrials() int {
	return rt.nTrials
}

// Coverages returns a copy of the per-trial coverages for one cell.
func (rt *ResultTable) Coverages(method string, dimension int) ([]float64, error) {
	c, ok := rt.cells[TrialKey{Method: method, Dimension: dimension}]
	if !ok {
		return nil, errors.Newf("no results for method %q at dimension %d", method, dimension)
	}
	return append([]float64(nil), c.coverages...), nil
}

// Widths returns a copy of the per-trial mean interval widths for one cell.
func (rt *ResultTable) Widths(method string, dimension int) ([]float64, error) {
	c, ok := rt.cells[TrialKey{Method: method, Dimension: dimension}]
	if !ok {
		return nil, errors.Newf("no results for method %q at dimension %d", method, dimension)
	}
	return append([]float64(nil), c.widths...), nil
}

// Summary aggregates one method's trials into per-dimension means and
// standard errors (population standard deviation over sqrt of trial count,
// the convention the original study plots as error bands).
type Summary struct {
	Method         string
	Dimensions     []int
	CoverageMean   []float64
	CoverageStdErr []float64
	WidthMean      []float64
	WidthStdErr    []float64
}

// Summary computes the per-dimension aggregate statistics for one method.
func (rt *ResultTable) Summary(method string) (*Summary, error) {
	found := false
	for _, m := range rt.methods {
		if m == method {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Newf("no results for method %q", method)
	}

	s := &Summary{
		Method:         method,
		Dimensions:     rt.Dimensions(),
		CoverageMean:   make([]float64, len(rt.dimensions)),
		CoverageStdErr: make([]float64, len(rt.dimensions)),
		WidthMean:      make([]float64, len(rt.dimensions)),
		WidthStdErr:    make([]float64, len(rt.dimensions)),
	}

	sqrtN := math.Sqrt(float64(rt.nTrials))
	for i, d := range rt.dimensions {
		c := rt.cells[TrialKey{Method: method, Dimension: d}]
		s.CoverageMean[i] = stat.Mean(c.coverages, nil)
		s.CoverageStdErr[i] = stat.PopStdDev(c.coverages, nil) / sqrtN
		s.WidthMean[i] = stat.Mean(c.widths, nil)
		s.WidthStdErr[i] = stat.PopStdDev(c.widths, nil) / sqrtN
	}

	return s, nil
}
