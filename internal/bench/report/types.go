package report

import (
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/recommendation"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/runner"
)

type Report struct {
	Meta          Meta                `json:"meta"`
	Config        Config              `json:"config"`
	Baseline      *baseline.Result    `json:"baseline,omitempty"`
	BaselineError string              `json:"baseline_error,omitempty"`
	Trials        []TrialEntry        `json:"trials"`
	Aggregate     runner.Aggregate    `json:"aggregate"`
	Latency       runner.LatencyStats `json:"latency"`
}

type Meta struct {
	RunID       string          `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Seed        uint64          `json:"seed"`
	Engine      EngineInfo      `json:"engine"`
	Environment EnvironmentInfo `json:"environment"`
}

type EngineInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Target is the command or URL the engine invokes.
	Target string `json:"target"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type Config struct {
	Files    holdout.Files   `json:"files"`
	Baseline baseline.Config `json:"baseline"`
	Holdout  holdout.Config  `json:"holdout"`
	Trials   int             `json:"trials"`
}

type TrialEntry struct {
	Trial            int                    `json:"trial"`
	TestUsers        []int                  `json:"test_users,omitempty"`
	HeldOut          int                    `json:"held_out"`
	Summary          recommendation.Summary `json:"summary"`
	ExitCode         int                    `json:"exit_code"`
	Latency          time.Duration          `json:"latency"`
	RecommenderError string                 `json:"recommender_error,omitempty"`
	Error            string                 `json:"error,omitempty"`
}
