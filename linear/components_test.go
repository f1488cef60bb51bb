package linear

import (
	"testing"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPCRAllComponentsMatchesOLS(t *testing.T) {
	x, y := sampleData(50, 0.3)

	for _, standardize := range []bool{false, true} {
		m, err := New(x, y)
		require.NoError(t, err)
		if standardize {
			require.NoError(t, m.Standardize())
		}

		ols, err := m.Solve()
		require.NoError(t, err)
		coef, err := m.PCR()
		require.NoError(t, err)

		assert.True(t, mat.EqualApprox(ols, coef, 1e-8), "standardized=%v", standardize)
	}
}

func TestPCRTruncation(t *testing.T) {
	x, y := sampleData(50, 0.3)
	m := newStandardized(t, x, y)

	full, err := m.PCR()
	require.NoError(t, err)
	one, err := m.PCR(WithComponents(1))
	require.NoError(t, err)

	fullScore, err := m.Score(full)
	require.NoError(t, err)
	oneScore, err := m.Score(one)
	require.NoError(t, err)
	assert.Less(t, oneScore, fullScore)

	_, err = m.PCR(WithComponents(-1))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestPLSFullRankMatchesOLS(t *testing.T) {
	x, y := sampleData(50, 0.3)
	m := newStandardized(t, x, y)

	ols, err := m.Solve()
	require.NoError(t, err)

	for _, comps := range []int{0, 3, 7} {
		coef, err := m.PLS(WithComponents(comps))
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(ols, coef, 1e-8), "components=%d", comps)
	}
}

func TestPLSUnstandardized(t *testing.T) {
	x, y := sampleData(50, 0.3)
	m, err := New(x, y)
	require.NoError(t, err)

	ols, err := m.Solve()
	require.NoError(t, err)
	coef, err := m.PLS()
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(ols, coef, 1e-6))
}

func TestPLSFewerComponents(t *testing.T) {
	x, y := sampleData(50, 0.3)
	m := newStandardized(t, x, y)

	one, err := m.PLS(WithComponents(1))
	require.NoError(t, err)
	two, err := m.PLS(WithComponents(2))
	require.NoError(t, err)
	all, err := m.PLS()
	require.NoError(t, err)

	s1, err := m.Score(one)
	require.NoError(t, err)
	s2, err := m.Score(two)
	require.NoError(t, err)
	s3, err := m.Score(all)
	require.NoError(t, err)

	assert.LessOrEqual(t, s1, s2+1e-12)
	assert.LessOrEqual(t, s2, s3+1e-12)

	// every fit keeps the centered intercept
	ybar := mat.Sum(y) / 50
	assert.InDelta(t, ybar, one.At(0, 0), 1e-9)
}

func TestStagewiseApproachesOLS(t *testing.T) {
	x, y := sampleData(60, 0.3)
	m := newStandardized(t, x, y)

	ols, err := m.Solve()
	require.NoError(t, err)

	coef, err := m.Stagewise(WithStep(0.001))
	require.NoError(t, err)

	for j := 0; j < 4; j++ {
		assert.InDelta(t, ols.At(j, 0), coef.At(j, 0), 0.05)
	}
}

func TestStagewiseStepBudget(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(func(error) {}) })

	x, y := sampleData(30, 0.3)
	m := newStandardized(t, x, y)

	coef, err := m.Stagewise(WithMaxSteps(5))
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	// five ε-steps of 0.01
	var total float64
	for j := 1; j <= 3; j++ {
		v := coef.At(j, 0)
		if v < 0 {
			v = -v
		}
		total += v
	}
	assert.InDelta(t, 0.05, total, 1e-12)
}

func TestStagewiseValidation(t *testing.T) {
	x, y := sampleData(20, 0.3)
	m := newStandardized(t, x, y)

	var valErr *errors.ValidationError
	_, err := m.Stagewise(WithStep(-0.1))
	assert.True(t, errors.As(err, &valErr))
	_, err = m.Stagewise(WithMaxSteps(-1))
	assert.True(t, errors.As(err, &valErr))
}

func TestComponentsMultiOutput(t *testing.T) {
	x, y1 := sampleData(40, 0.3)
	y := mat.NewDense(40, 2, nil)
	for i := 0; i < 40; i++ {
		y.Set(i, 0, y1.At(i, 0))
		y.Set(i, 1, 2*x.At(i, 1)+1)
	}
	m := newStandardized(t, x, y)

	ols, err := m.Solve()
	require.NoError(t, err)

	pcr, err := m.PCR(WithParallel(true))
	require.NoError(t, err)
	pls, err := m.PLS(WithParallel(true))
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(ols, pcr, 1e-8))
	assert.True(t, mat.EqualApprox(ols, pls, 1e-8))
}
