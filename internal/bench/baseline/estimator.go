// Package baseline estimates the RMSE of predicting every held-out rating with
// the user's mean training rating. It is the reference a recommender must beat.
package baseline

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
	"github.com/DjordjeVuckovic/rec-bench/pkg/utils"
)

const (
	DefaultMinRatingsPerUser = 20
	DefaultSampleSize        = 100
	DefaultTrainFraction     = 0.8
)

type Config struct {
	MinRatingsPerUser int     `json:"min_ratings_per_user"`
	SampleSize        int     `json:"sample_size"`
	TrainFraction     float64 `json:"train_fraction"`
}

func DefaultConfig() Config {
	return Config{
		MinRatingsPerUser: DefaultMinRatingsPerUser,
		SampleSize:        DefaultSampleSize,
		TrainFraction:     DefaultTrainFraction,
	}
}

type Result struct {
	RMSE          float64 `json:"rmse"`
	EligibleUsers int     `json:"eligible_users"`
	SampledUsers  int     `json:"sampled_users"`
	SkippedUsers  int     `json:"skipped_users"`
	Predictions   int     `json:"predictions"`
}

// Estimate samples up to cfg.SampleSize eligible users, splits each user's
// shuffled ratings at floor(n*TrainFraction) and scores the training mean
// against the rest. Users whose split leaves either side empty are skipped.
// The same rng state and input always give the same result.
func Estimate(set rating.Set, cfg Config, rng *rand.Rand) (Result, error) {
	var eligible []int
	for _, uid := range set.Users() {
		if set[uid].Len() >= cfg.MinRatingsPerUser {
			eligible = append(eligible, uid)
		}
	}

	res := Result{EligibleUsers: len(eligible)}
	sample := utils.Sample(eligible, cfg.SampleSize, rng)
	res.SampledUsers = len(sample)

	var se metrics.SquaredError
	for _, uid := range sample {
		values := set[uid].Values()
		utils.Shuffle(values, rng)

		split := int(math.Floor(float64(len(values)) * cfg.TrainFraction))
		train, test := values[:split], values[split:]
		if len(train) == 0 || len(test) == 0 {
			res.SkippedUsers++
			slog.Debug("skipping degenerate baseline split", "user", uid, "train", len(train), "test", len(test))
			continue
		}

		predicted := stat.Mean(train, nil)
		for _, actual := range test {
			se.Add(predicted, actual)
		}
	}

	res.Predictions = se.Count()
	rmse, ok := se.RMSE()
	if !ok {
		return res, apperr.New(apperr.ErrDegenerateSample, "baseline produced no test predictions")
	}
	res.RMSE = rmse

	slog.Info("baseline estimated",
		"rmse", res.RMSE,
		"eligible_users", res.EligibleUsers,
		"sampled_users", res.SampledUsers,
		"predictions", res.Predictions,
	)

	return res, nil
}
