package baseline

import (
	"math/rand/v2"
	"testing"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randomSet(rng *rand.Rand, users, minItems, maxItems int) rating.Set {
	s := make(rating.Set)
	for u := 0; u < users; u++ {
		n := minItems + rng.IntN(maxItems-minItems+1)
		for i := 0; i < n; i++ {
			s.Add(u, i, 0.5*float64(1+rng.IntN(10)))
		}
	}
	return s
}

func TestEstimate_DeterministicForSeed(t *testing.T) {
	set := randomSet(newRand(1), 300, 5, 80)

	a, err := Estimate(set, DefaultConfig(), newRand(42))
	require.NoError(t, err)
	b, err := Estimate(set, DefaultConfig(), newRand(42))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 100, a.SampledUsers)
	assert.Greater(t, a.RMSE, 0.0)
}

func TestEstimate_ConstantUserHasZeroError(t *testing.T) {
	set := make(rating.Set)
	for i := 0; i < 25; i++ {
		set.Add(1, i, 4.0)
	}

	res, err := Estimate(set, DefaultConfig(), newRand(3))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.RMSE)
	assert.Equal(t, 1, res.SampledUsers)
	assert.Equal(t, 5, res.Predictions)
}

func TestEstimate_KnownError(t *testing.T) {
	// 19 of 20 values train; whichever value is held out, the training mean
	// misses it by 40/19.
	set := make(rating.Set)
	for i := 0; i < 10; i++ {
		set.Add(1, i, 1.0)
	}
	for i := 10; i < 20; i++ {
		set.Add(1, i, 5.0)
	}

	res, err := Estimate(set, Config{MinRatingsPerUser: 2, SampleSize: 5, TrainFraction: 0.95}, newRand(9))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Predictions)
	assert.InDelta(t, 40.0/19, res.RMSE, 1e-9)
}

func TestEstimate_IgnoresUsersBelowMinimum(t *testing.T) {
	set := make(rating.Set)
	set.Add(1, 1, 3.0)
	set.Add(1, 2, 3.0)

	res, err := Estimate(set, DefaultConfig(), newRand(1))

	assert.ErrorIs(t, err, apperr.ErrDegenerateSample)
	assert.Zero(t, res.EligibleUsers)
}

func TestEstimate_SkipsDegenerateSplit(t *testing.T) {
	set := make(rating.Set)
	for i := 0; i < 4; i++ {
		set.Add(1, i, 2.0)
	}
	for i := 0; i < 3; i++ {
		set.Add(2, i, 3.0)
	}

	// floor(n*1.0) leaves no test values for anyone
	res, err := Estimate(set, Config{MinRatingsPerUser: 1, SampleSize: 10, TrainFraction: 1.0}, newRand(1))
	assert.ErrorIs(t, err, apperr.ErrDegenerateSample)
	assert.Equal(t, 2, res.SkippedUsers)

	// floor(n*0.1) leaves no training values for anyone
	res, err = Estimate(set, Config{MinRatingsPerUser: 1, SampleSize: 10, TrainFraction: 0.1}, newRand(1))
	assert.ErrorIs(t, err, apperr.ErrDegenerateSample)
	assert.Equal(t, 2, res.SkippedUsers)
}
