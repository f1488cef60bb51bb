package linear

import (
	"testing"

	"github.com/YuminosukeSato/linregg/pkg/errors"
	"github.com/YuminosukeSato/linregg/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestRidgeLimits(t *testing.T) {
	x, y := sampleData(50, 0.3)
	m := newStandardized(t, x, y)

	ols, err := m.Solve()
	require.NoError(t, err)

	t.Run("zero penalty matches OLS", func(t *testing.T) {
		coef, err := m.Ridge(0)
		require.NoError(t, err)
		assert.InDelta(t, stat.Mean(mat.Col(nil, 0, y), nil), coef.At(0, 0), 1e-12)
		assert.True(t, mat.EqualApprox(ols, coef, 1e-8))
	})

	t.Run("small penalty is close to OLS", func(t *testing.T) {
		coef, err := m.Ridge(1e-8)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(ols, coef, 1e-6))
	})

	t.Run("huge penalty shrinks to zero", func(t *testing.T) {
		coef, err := m.Ridge(1e12)
		require.NoError(t, err)
		for j := 1; j <= 3; j++ {
			assert.InDelta(t, 0, coef.At(j, 0), 1e-6)
		}
		assert.InDelta(t, ols.At(0, 0), coef.At(0, 0), 1e-9)
	})

	t.Run("norm shrinks with penalty", func(t *testing.T) {
		var prev = floats.Norm(mat.Col(nil, 0, ols)[1:], 2)
		for _, lambda := range []float64{1, 10, 100} {
			coef, err := m.Ridge(lambda)
			require.NoError(t, err)
			norm := floats.Norm(mat.Col(nil, 0, coef)[1:], 2)
			assert.Less(t, norm, prev)
			prev = norm
		}
	})
}

func TestRidgeValidation(t *testing.T) {
	x, y := sampleData(20, 0.3)
	m := newStandardized(t, x, y)

	_, err := m.Ridge(-1)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestRidgeWarnsWithoutStandardization(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelWarn)
	x, y := sampleData(20, 0.3)
	m, err := New(x, y, WithLogger(logger))
	require.NoError(t, err)

	_, err = m.Ridge(1)
	require.NoError(t, err)
	assert.True(t, logger.ContainsMessage("unstandardized"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationRidge))

	logger.Clear()
	require.NoError(t, m.Standardize())
	_, err = m.Ridge(1)
	require.NoError(t, err)
	assert.False(t, logger.ContainsMessage("unstandardized"))
}
