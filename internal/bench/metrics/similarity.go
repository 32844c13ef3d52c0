package metrics

import (
	"math"

	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
)

// RatingTolerance is the absolute difference under which two ratings match.
const RatingTolerance = 0.001

// Comparison describes how much of a generated rating set is reproduced by an
// existing one. Percentages are in [0, 100].
type Comparison struct {
	UserSimilarity    float64 `json:"user_similarity"`
	MovieSimilarity   float64 `json:"movie_similarity"`
	RatingAccuracy    float64 `json:"rating_accuracy"`
	OverallSimilarity float64 `json:"overall_similarity"`

	GeneratedUsers int `json:"generated_users"`
	ExistingUsers  int `json:"existing_users"`
	CommonUsers    int `json:"common_users"`
	GeneratedItems int `json:"generated_items"`
	ExistingItems  int `json:"existing_items"`
	CommonItems    int `json:"common_items"`

	ExactMatches     int `json:"exact_matches"`
	PartialMatches   int `json:"partial_matches"`
	GeneratedRatings int `json:"generated_ratings"`
	MatchingRatings  int `json:"matching_ratings"`
}

// Compare measures generated against existing. It is asymmetric: every ratio
// is taken over the generated side.
func Compare(generated, existing rating.Set) Comparison {
	c := Comparison{
		GeneratedUsers: len(generated),
		ExistingUsers:  len(existing),
	}

	var common []int
	for _, uid := range generated.Users() {
		if _, ok := existing[uid]; ok {
			common = append(common, uid)
		}
	}
	c.CommonUsers = len(common)
	c.UserSimilarity = Percent(c.CommonUsers, c.GeneratedUsers)

	genItems := generated.ItemUniverse()
	existItems := existing.ItemUniverse()
	c.GeneratedItems = len(genItems)
	c.ExistingItems = len(existItems)
	for id := range genItems {
		if _, ok := existItems[id]; ok {
			c.CommonItems++
		}
	}
	c.MovieSimilarity = Percent(c.CommonItems, c.GeneratedItems)

	for _, uid := range common {
		gen, exist := generated[uid], existing[uid]
		c.GeneratedRatings += gen.Len()

		matching := 0
		for _, item := range gen.Items() {
			gv, _ := gen.Get(item)
			if ev, ok := exist.Get(item); ok && math.Abs(ev-gv) < RatingTolerance {
				matching++
			}
		}
		c.MatchingRatings += matching

		switch {
		case matching == gen.Len() && gen.Len() == exist.Len():
			c.ExactMatches++
		case matching > 0:
			c.PartialMatches++
		}
	}
	c.RatingAccuracy = Percent(c.MatchingRatings, c.GeneratedRatings)

	c.OverallSimilarity = (c.UserSimilarity + c.MovieSimilarity + c.RatingAccuracy) / 3

	return c
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
