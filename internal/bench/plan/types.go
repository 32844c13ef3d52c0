package plan

import (
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
)

const (
	EngineProcess = engine.TypeProcess
	EngineHTTP    = engine.TypeHTTP
)

// Plan describes one evaluation: which files the recommender reads, how to
// run it, and the sampling parameters of the baseline and holdout stages.
type Plan struct {
	Files    Files          `yaml:"files"`
	Engine   Engine         `yaml:"engine"`
	Baseline BaselineConfig `yaml:"baseline"`
	Holdout  HoldoutConfig  `yaml:"holdout"`
	Runs     RunsConfig     `yaml:"runs"`
}

type Files struct {
	Ratings string `yaml:"ratings"`
	Users   string `yaml:"users"`
}

type Engine struct {
	Name       string        `yaml:"name"`
	Type       string        `yaml:"type"`
	Command    string        `yaml:"command,omitempty"`
	Dir        string        `yaml:"dir,omitempty"`
	Report     string        `yaml:"report,omitempty"`
	URL        string        `yaml:"url,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	KeepReport bool          `yaml:"keep_report,omitempty"`
}

type BaselineConfig struct {
	MinRatingsPerUser int     `yaml:"min_ratings_per_user"`
	SampleSize        int     `yaml:"sample_size"`
	TrainFraction     float64 `yaml:"train_fraction"`
}

type HoldoutConfig struct {
	CandidatePool   int     `yaml:"candidate_pool"`
	TestUsers       int     `yaml:"test_users"`
	MinRatings      int     `yaml:"min_ratings"`
	HoldoutFraction float64 `yaml:"holdout_fraction"`
	MinHoldout      int     `yaml:"min_holdout"`
}

type RunsConfig struct {
	// Seed of zero means seed from the clock.
	Seed   uint64 `yaml:"seed"`
	Trials int    `yaml:"trials"`
}
