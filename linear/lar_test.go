package linear

import (
	"math"
	"sort"
	"testing"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestMostCorrelated(t *testing.T) {
	r := []float64{1, 2, 3, 4}

	tests := []struct {
		name     string
		cols     [][]float64
		wantIdx  int
		wantCorr float64
	}{
		{
			name:     "no predictors",
			cols:     [][]float64{{1, 1, 1, 1}},
			wantIdx:  0,
			wantCorr: -1,
		},
		{
			name:     "tie keeps first index",
			cols:     [][]float64{nil, {4, 3, 2, 1}, {1, 2, 3, 4}},
			wantIdx:  1,
			wantCorr: 1,
		},
		{
			name:     "constant column counts as zero",
			cols:     [][]float64{nil, {5, 5, 5, 5}, {1, 0, 0, 1}},
			wantIdx:  1,
			wantCorr: 0,
		},
		{
			name:     "largest absolute wins",
			cols:     [][]float64{nil, {1, 0, 0, 1}, {2, 4, 5, 9}},
			wantIdx:  2,
			wantCorr: 0.95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, corr := mostCorrelated(tt.cols, r)
			assert.Equal(t, tt.wantIdx, idx)
			assert.InDelta(t, tt.wantCorr, corr, 0.05)
		})
	}
}

func TestDropCrossings(t *testing.T) {
	active := []int{0, 2, 4, 7}
	prev := []float64{1.0, 0.5, -0.2, 0}
	next := []float64{-1.0, 0.4, 0.1, 0}

	kept, beta, removed := dropCrossings(active, prev, next)

	// the intercept is never dropped, even when it changes sign
	assert.Equal(t, []int{0, 2}, kept)
	assert.Equal(t, []float64{-1.0, 0.4}, beta)
	assert.Equal(t, []int{4, 7}, removed)

	// inputs are left intact
	assert.Equal(t, []int{0, 2, 4, 7}, active)
}

func TestLARConvergesToOLS(t *testing.T) {
	x, y := sampleData(60, 0.3)
	m := newStandardized(t, x, y)

	ols, err := m.Solve()
	require.NoError(t, err)

	res, err := m.LAR()
	require.NoError(t, err)

	rows, cols := res.Coef.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, cols)
	for j := 0; j < 4; j++ {
		assert.InDelta(t, ols.At(j, 0), res.Coef.At(j, 0), 1e-3)
	}

	path := res.Paths[0]
	assert.Equal(t, []int{0, 1, 2, 3}, path.Active)
	assert.Empty(t, path.Removals)
	assert.Greater(t, path.Steps, 0)
	assert.True(t, sort.IntsAreSorted(path.Sizes), "active set must never shrink")
	assert.Equal(t, 1, path.Sizes[0])
}

func TestLARFirstEntrant(t *testing.T) {
	x, y := sampleData(60, 0.3)
	m := newStandardized(t, x, y)

	// x2 has by far the largest standardized effect, so it enters first
	// and stays alone while its coefficient grows
	res, err := m.LAR(WithMaxSteps(1))
	require.NoError(t, err)

	path := res.Paths[0]
	assert.Equal(t, []int{0, 2}, path.Active)
	assert.Equal(t, 1, path.Steps)
	assert.Equal(t, 0.0, res.Coef.At(1, 0))
	assert.Equal(t, 0.0, res.Coef.At(3, 0))
	assert.Less(t, res.Coef.At(2, 0), 0.0)
}

func TestLARStepBudgetWarns(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	x, y := sampleData(40, 0.3)
	m := newStandardized(t, x, y)

	_, err := m.LAR(WithMaxSteps(3))
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	var cw *errors.ConvergenceWarning
	require.True(t, errors.As(warnings[0], &cw))
	assert.Equal(t, 3, cw.Iterations)
}

func TestLARLasso(t *testing.T) {
	x, y := sampleData(60, 0.3)
	m := newStandardized(t, x, y)

	res, err := m.LARLasso()
	require.NoError(t, err)

	path := res.Paths[0]
	require.NotEmpty(t, path.Active)
	assert.Equal(t, 0, path.Active[0])
	assert.True(t, sort.IntsAreSorted(path.Active))

	inActive := make(map[int]bool)
	for _, j := range path.Active {
		inActive[j] = true
	}
	for j := 1; j <= 3; j++ {
		if !inActive[j] {
			assert.Equal(t, 0.0, res.Coef.At(j, 0))
		}
	}
	for _, r := range path.Removals {
		assert.NotZero(t, r.Index)
		assert.LessOrEqual(t, r.Step, path.Steps)
	}
}

// suppressorData builds y = -x1 + 2·x2 + 2·x3 with x1 ≈ x2 + x3. x1 is the
// most correlated predictor and enters first with a positive coefficient;
// once x2 and x3 are active its target turns negative.
func suppressorData() (*mat.Dense, *mat.Dense) {
	x2 := []float64{-2, -1, 0, 1, 2, -2, -1, 0, 1, 2}
	x3 := []float64{1, -1, 2, 0, -2, -2, 1, -1, 0, 2}
	e := []float64{0.3, -0.3, 0.2, -0.2, 0.1, -0.1, 0.3, -0.3, 0.1, -0.1}

	x := mat.NewDense(10, 3, nil)
	y := mat.NewDense(10, 1, nil)
	for i := range x2 {
		x1 := x2[i] + x3[i] + e[i]
		x.SetRow(i, []float64{x1, x2[i], x3[i]})
		y.Set(i, 0, 2*x2[i]+2*x3[i]-x1)
	}
	return x, y
}

func TestLARLassoRemovesCrossingPredictor(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	x, y := suppressorData()
	m, err := New(x, y)
	require.NoError(t, err)

	res, err := m.LARLasso()
	require.NoError(t, err)

	path := res.Paths[0]
	require.NotEmpty(t, path.Removals)
	crossing := path.Removals[0]
	assert.Equal(t, 1, crossing.Index)
	assert.Greater(t, crossing.Step, 1)

	// re-entry after the removal still reaches the exact fit
	assert.True(t, floats.EqualApprox([]float64{0, -1, 2, 2}, mat.Col(nil, 0, res.Coef), 1e-3))

	// the update before the crossing leaves x1 positive
	before, err := m.LARLasso(WithMaxSteps(crossing.Step - 1))
	require.NoError(t, err)
	assert.Empty(t, before.Paths[0].Removals)
	assert.Greater(t, before.Coef.At(1, 0), 0.0)

	// without the lasso rule the same update takes x1 below zero
	plain, err := m.LAR(WithMaxSteps(crossing.Step))
	require.NoError(t, err)
	assert.Less(t, plain.Coef.At(1, 0), 0.0)

	// the crossing update itself zeroes x1 under the lasso rule
	at, err := m.LARLasso(WithMaxSteps(crossing.Step))
	require.NoError(t, err)
	require.Len(t, at.Paths[0].Removals, 1)
	assert.Equal(t, crossing.Step, at.Paths[0].Removals[0].Step)
	assert.Equal(t, 0.0, at.Coef.At(1, 0))
}

func TestLARActiveBudget(t *testing.T) {
	// N-1 = 2 predictors may enter at most
	x := mat.NewDense(3, 4, []float64{
		1, 0.5, -2, 3,
		2, -1, 0.5, 1,
		0, 2, 1, -1,
	})
	y := mat.NewDense(3, 1, []float64{1, 4, 2})
	m, err := New(x, y)
	require.NoError(t, err)

	res, err := m.LAR()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(res.Paths[0].Active), 3)
}

func TestLARMultiOutputParallel(t *testing.T) {
	x, y1 := sampleData(50, 0.3)
	y := mat.NewDense(50, 2, nil)
	for i := 0; i < 50; i++ {
		y.Set(i, 0, y1.At(i, 0))
		y.Set(i, 1, 3*x.At(i, 2)-x.At(i, 0))
	}
	m := newStandardized(t, x, y)

	seq, err := m.LAR()
	require.NoError(t, err)
	par, err := m.LAR(WithParallel(true))
	require.NoError(t, err)

	assert.True(t, mat.Equal(seq.Coef, par.Coef))
	require.Len(t, par.Paths, 2)
	assert.Equal(t, seq.Paths[1].Active, par.Paths[1].Active)

	single, err := New(x, y1)
	require.NoError(t, err)
	require.NoError(t, single.Standardize())
	first, err := single.LAR()
	require.NoError(t, err)
	for j := 0; j < 4; j++ {
		assert.Equal(t, first.Coef.At(j, 0), seq.Coef.At(j, 0))
	}
}

func TestLARValidation(t *testing.T) {
	x, y := sampleData(20, 0.3)
	m := newStandardized(t, x, y)

	for _, opt := range []FitOption{WithStep(0), WithMaxSteps(0), WithTolerance(-1)} {
		_, err := m.LAR(opt)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	}
}

func TestLARConstantResponse(t *testing.T) {
	x, _ := sampleData(20, 0.3)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		y.Set(i, 0, 4)
	}
	m := newStandardized(t, x, y)

	res, err := m.LAR()
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Paths[0].Active)
	assert.Equal(t, 4.0, res.Coef.At(0, 0))
	assert.False(t, math.IsNaN(res.Coef.At(1, 0)))
}
