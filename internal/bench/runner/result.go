package runner

import (
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
	"gonum.org/v1/gonum/stat"
)

type TrialResult struct {
	Trial   int
	Holdout *holdout.Result
	// Error is set when the trial did not complete; Holdout is nil then.
	Error error
}

func (tr TrialResult) Latency() (time.Duration, bool) {
	if tr.Holdout == nil || tr.Holdout.Execution == nil {
		return 0, false
	}
	return tr.Holdout.Execution.Latency, true
}

type EvaluationResult struct {
	Seed          uint64
	Baseline      *baseline.Result
	BaselineError error
	Trials        []TrialResult
	Latency       LatencyStats
	Config        Config
}

// Completed returns the trials that produced a holdout result.
func (er *EvaluationResult) Completed() []TrialResult {
	var out []TrialResult
	for _, tr := range er.Trials {
		if tr.Holdout != nil {
			out = append(out, tr)
		}
	}
	return out
}

// Aggregate folds completed trials into one set of totals.
type Aggregate struct {
	Trials          int     `json:"trials"`
	FailedTrials    int     `json:"failed_trials"`
	RecommenderErrs int     `json:"recommender_errors"`
	UsersTested     int     `json:"users_tested"`
	UsersWithRecs   int     `json:"users_with_recs"`
	Recommendations int     `json:"recommendations"`
	HeldOut         int     `json:"held_out"`
	MeanScore       float64 `json:"mean_score"`
}

func (er *EvaluationResult) Aggregate() Aggregate {
	agg := Aggregate{Trials: len(er.Trials)}

	var means, weights []float64
	for _, tr := range er.Trials {
		if tr.Holdout == nil {
			agg.FailedTrials++
			continue
		}
		h := tr.Holdout
		if h.ExecError != nil {
			agg.RecommenderErrs++
		}
		agg.UsersTested += h.Summary.UsersTested
		agg.UsersWithRecs += h.Summary.UsersWithRecs
		agg.Recommendations += h.Summary.Recommendations
		agg.HeldOut += h.HeldOutCount()
		if h.Summary.Recommendations > 0 {
			means = append(means, h.Summary.MeanScore)
			weights = append(weights, float64(h.Summary.Recommendations))
		}
	}
	if len(means) > 0 {
		agg.MeanScore = stat.Mean(means, weights)
	}
	return agg
}
