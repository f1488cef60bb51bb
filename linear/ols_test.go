package linear

import (
	"testing"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveExactLine(t *testing.T) {
	x, y := linePoints()
	m, err := New(x, y)
	require.NoError(t, err)

	coef, err := m.Solve()
	require.NoError(t, err)

	rows, cols := coef.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 1, cols)
	assert.InDelta(t, 2, coef.At(0, 0), 1e-9)
	assert.InDelta(t, 3, coef.At(1, 0), 1e-9)

	rss, err := m.RSS()
	require.NoError(t, err)
	assert.InDelta(t, 0, rss, 1e-12)
}

func TestSolveNormalEquationResidual(t *testing.T) {
	x, y := sampleData(60, 0.5)
	m, err := New(x, y)
	require.NoError(t, err)

	coef, err := m.Solve()
	require.NoError(t, err)

	design := m.X()
	var xtx, lhs, rhs, diff mat.Dense
	xtx.Mul(design.T(), design)
	lhs.Mul(&xtx, coef)
	rhs.Mul(design.T(), y)
	diff.Sub(&lhs, &rhs)

	assert.InDelta(t, 0, mat.Norm(&diff, 2), 1e-8)
}

func TestResidualsAndVariance(t *testing.T) {
	x, y := sampleData(60, 0.5)
	m, err := New(x, y)
	require.NoError(t, err)

	resid, err := m.Residuals()
	require.NoError(t, err)

	var ss float64
	for i := 0; i < 60; i++ {
		ss += resid.At(i, 0) * resid.At(i, 0)
	}

	rss, err := m.RSS()
	require.NoError(t, err)
	assert.InDelta(t, ss, rss, 1e-9)

	v, err := m.Variance()
	require.NoError(t, err)
	assert.InDelta(t, rss/56, v, 1e-12)
}

func TestVarianceInsufficientSamples(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{1, 2, 2, 1, 3, 5})
	y := mat.NewDense(3, 1, []float64{1, 2, 4})
	m, err := New(x, y)
	require.NoError(t, err)

	_, err = m.Variance()
	var sampleErr *errors.InsufficientSamplesError
	require.True(t, errors.As(err, &sampleErr))
	assert.Equal(t, 3, sampleErr.Samples)
	assert.Equal(t, 3, sampleErr.Required)
}

func TestSolveSingular(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
		5, 5,
	})
	y := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 6})
	m, err := New(x, y)
	require.NoError(t, err)

	_, err = m.Solve()
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

func TestSolveMultiOutput(t *testing.T) {
	x, y1 := sampleData(40, 0.2)
	y := mat.NewDense(40, 2, nil)
	for i := 0; i < 40; i++ {
		y.Set(i, 0, y1.At(i, 0))
		y.Set(i, 1, -3*x.At(i, 0)+4)
	}

	m, err := New(x, y)
	require.NoError(t, err)
	coef, err := m.Solve()
	require.NoError(t, err)

	single, err := New(x, y1)
	require.NoError(t, err)
	first, err := single.Solve()
	require.NoError(t, err)

	for j := 0; j < 4; j++ {
		assert.InDelta(t, first.At(j, 0), coef.At(j, 0), 1e-9)
	}
	assert.InDelta(t, 4, coef.At(0, 1), 1e-8)
	assert.InDelta(t, -3, coef.At(1, 1), 1e-8)
	assert.InDelta(t, 0, coef.At(2, 1), 1e-8)
	assert.InDelta(t, 0, coef.At(3, 1), 1e-8)
}

func TestSolveReturnsCopy(t *testing.T) {
	x, y := linePoints()
	m, err := New(x, y)
	require.NoError(t, err)

	coef, err := m.Solve()
	require.NoError(t, err)
	coef.Set(0, 0, 100)

	again, err := m.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 2, again.At(0, 0), 1e-9)
}
