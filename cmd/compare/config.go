package main

import (
	"flag"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/filter"
	"github.com/DjordjeVuckovic/rec-bench/pkg/config/env"
)

type cliConfig struct {
	RatingsCSV     string
	GeneratedPath  string
	ExistingPath   string
	MinUserRatings int
	MinItemRatings int
	LogLevel       string
}

func parseFlags(fs *flag.FlagSet, args []string) (cliConfig, error) {
	cfg := cliConfig{}

	fs.StringVar(&cfg.RatingsCSV, "ratings-csv", env.String("RATINGS_CSV", "datasets/ratings.csv"), "Raw ratings table with userId, movieId and rating columns")
	fs.StringVar(&cfg.GeneratedPath, "generated", env.String("GENERATED_PATH", "datasets/generated.dat"), "Where the filtered rating set is written")
	fs.StringVar(&cfg.ExistingPath, "existing", env.String("EXISTING_PATH", "datasets/input.dat"), "Existing rating set to compare against")
	fs.IntVar(&cfg.MinUserRatings, "min-user-ratings", env.Int("MIN_USER_RATINGS", filter.DefaultMinUserRatings), "Minimum ratings for a user to be kept")
	fs.IntVar(&cfg.MinItemRatings, "min-item-ratings", env.Int("MIN_ITEM_RATINGS", filter.DefaultMinItemRatings), "Minimum ratings for a movie to be kept")
	fs.StringVar(&cfg.LogLevel, "log-level", env.String("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	err := fs.Parse(args)
	return cfg, err
}

func (c cliConfig) filterConfig() filter.Config {
	return filter.Config{
		MinUserRatings: c.MinUserRatings,
		MinItemRatings: c.MinItemRatings,
	}
}
