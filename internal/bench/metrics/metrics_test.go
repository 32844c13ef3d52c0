package metrics

import (
	"math"
	"testing"

	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
	"github.com/stretchr/testify/assert"
)

func setOf(m map[int]map[int]float64) rating.Set {
	s := make(rating.Set)
	for u, items := range m {
		for i, v := range items {
			s.Add(u, i, v)
		}
	}
	return s
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name      string
		generated map[int]map[int]float64
		existing  map[int]map[int]float64
		want      Comparison
	}{
		{
			name:      "generated subset of existing",
			generated: map[int]map[int]float64{1: {10: 4.0}},
			existing:  map[int]map[int]float64{1: {10: 4.0}, 2: {30: 2.0}},
			want: Comparison{
				UserSimilarity: 100, MovieSimilarity: 100, RatingAccuracy: 100, OverallSimilarity: 100,
				GeneratedUsers: 1, ExistingUsers: 2, CommonUsers: 1,
				GeneratedItems: 1, ExistingItems: 2, CommonItems: 1,
				ExactMatches: 1, GeneratedRatings: 1, MatchingRatings: 1,
			},
		},
		{
			name:      "empty generated",
			generated: map[int]map[int]float64{},
			existing:  map[int]map[int]float64{1: {10: 4.0}},
			want:      Comparison{ExistingUsers: 1, ExistingItems: 1},
		},
		{
			name:      "both empty",
			generated: nil,
			existing:  nil,
			want:      Comparison{},
		},
		{
			name:      "superset user is partial not exact",
			generated: map[int]map[int]float64{1: {10: 4.0}},
			existing:  map[int]map[int]float64{1: {10: 4.0, 11: 3.0}},
			want: Comparison{
				UserSimilarity: 100, MovieSimilarity: 100, RatingAccuracy: 100, OverallSimilarity: 100,
				GeneratedUsers: 1, ExistingUsers: 1, CommonUsers: 1,
				GeneratedItems: 1, ExistingItems: 2, CommonItems: 1,
				PartialMatches: 1, GeneratedRatings: 1, MatchingRatings: 1,
			},
		},
		{
			name:      "rating within tolerance matches",
			generated: map[int]map[int]float64{1: {10: 4.0, 20: 3.0}},
			existing:  map[int]map[int]float64{1: {10: 4.0005, 20: 3.5}},
			want: Comparison{
				UserSimilarity: 100, MovieSimilarity: 100, RatingAccuracy: 50, OverallSimilarity: 250.0 / 3,
				GeneratedUsers: 1, ExistingUsers: 1, CommonUsers: 1,
				GeneratedItems: 2, ExistingItems: 2, CommonItems: 2,
				PartialMatches: 1, GeneratedRatings: 2, MatchingRatings: 1,
			},
		},
		{
			name:      "no overlap",
			generated: map[int]map[int]float64{1: {10: 4.0}, 2: {11: 1.0}},
			existing:  map[int]map[int]float64{3: {12: 4.0}},
			want: Comparison{
				GeneratedUsers: 2, ExistingUsers: 1,
				GeneratedItems: 2, ExistingItems: 1,
			},
		},
		{
			name:      "common user with no matching ratings is neither exact nor partial",
			generated: map[int]map[int]float64{1: {10: 4.0}, 2: {11: 1.0}},
			existing:  map[int]map[int]float64{1: {10: 2.0}, 5: {11: 1.0}},
			want: Comparison{
				UserSimilarity: 50, MovieSimilarity: 100, RatingAccuracy: 0, OverallSimilarity: 50,
				GeneratedUsers: 2, ExistingUsers: 2, CommonUsers: 1,
				GeneratedItems: 2, ExistingItems: 2, CommonItems: 2,
				GeneratedRatings: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(setOf(tt.generated), setOf(tt.existing))
			assert.InDelta(t, tt.want.OverallSimilarity, got.OverallSimilarity, 1e-9)
			got.OverallSimilarity = tt.want.OverallSimilarity
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare_SelfIsHundred(t *testing.T) {
	a := setOf(map[int]map[int]float64{
		1: {10: 4.0, 20: 3.5},
		2: {10: 5.0},
		7: {99: 0.5, 3: 2.0, 4: 1.5},
	})

	got := Compare(a, a)

	assert.Equal(t, 100.0, got.UserSimilarity)
	assert.Equal(t, 100.0, got.MovieSimilarity)
	assert.Equal(t, 100.0, got.RatingAccuracy)
	assert.Equal(t, 100.0, got.OverallSimilarity)
	assert.Equal(t, 3, got.ExactMatches)
	assert.Zero(t, got.PartialMatches)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
}

func TestSquaredError(t *testing.T) {
	var se SquaredError

	_, ok := se.RMSE()
	assert.False(t, ok)

	se.Add(3, 1)
	se.Add(3, 5)
	se.Add(3, 3)

	rmse, ok := se.RMSE()
	assert.True(t, ok)
	assert.Equal(t, 3, se.Count())
	assert.InDelta(t, math.Sqrt(8.0/3), rmse, 1e-12)
}
