package report

import (
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/runner"
	"github.com/google/uuid"
)

func Generate(er *runner.EvaluationResult, eng EngineInfo) *Report {
	r := &Report{
		Meta: Meta{
			RunID:       uuid.NewString(),
			Timestamp:   time.Now().UTC(),
			Seed:        er.Seed,
			Engine:      eng,
			Environment: NewEnvironmentInfo(),
		},
		Config: Config{
			Files:    er.Config.Files,
			Baseline: er.Config.Baseline,
			Holdout:  er.Config.Holdout,
			Trials:   er.Config.Trials,
		},
		Baseline:  er.Baseline,
		Aggregate: er.Aggregate(),
		Latency:   er.Latency,
	}
	if er.BaselineError != nil {
		r.BaselineError = er.BaselineError.Error()
	}

	for _, tr := range er.Trials {
		entry := TrialEntry{Trial: tr.Trial}
		if tr.Error != nil {
			entry.Error = tr.Error.Error()
		}
		if h := tr.Holdout; h != nil {
			entry.TestUsers = h.TestUsers
			entry.HeldOut = h.HeldOutCount()
			entry.Summary = h.Summary
			if h.Execution != nil {
				entry.ExitCode = h.Execution.ExitCode
				entry.Latency = h.Execution.Latency
			}
			if h.ExecError != nil {
				entry.RecommenderError = h.ExecError.Error()
			}
		}
		r.Trials = append(r.Trials, entry)
	}

	return r
}
