package runner

import (
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
)

const DefaultTrials = 1

type Config struct {
	Files    holdout.Files
	Baseline baseline.Config
	Holdout  holdout.Config
	Trials   int
	// Seed of zero is replaced by a clock-derived seed, reported in the result.
	Seed uint64
}

func DefaultConfig(files holdout.Files) Config {
	return Config{
		Files:    files,
		Baseline: baseline.DefaultConfig(),
		Holdout:  holdout.DefaultConfig(),
		Trials:   DefaultTrials,
	}
}
