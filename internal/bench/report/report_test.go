package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/filter"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/recommendation"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/runner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluation() *runner.EvaluationResult {
	ok := &holdout.Result{
		TestUsers: []int{3, 9},
		HeldOut: []holdout.HeldOutEntry{
			{UserID: 3, Ratings: []holdout.HeldOutRating{{ItemID: 1, Value: 4}, {ItemID: 2, Value: 3}}},
		},
		Summary: recommendation.Summary{
			UsersTested: 2, UsersWithRecs: 1, Recommendations: 2, MeanRecsPerUser: 2, MeanScore: 3.5,
		},
		Execution: &engine.Execution{ExitCode: 1, Latency: 1500 * time.Millisecond},
		ExecError: apperr.New(apperr.ErrExternalProcess, "exit status 1"),
	}

	return &runner.EvaluationResult{
		Seed:     42,
		Baseline: &baseline.Result{RMSE: 0.9321, EligibleUsers: 80, SampledUsers: 80, Predictions: 400},
		Trials: []runner.TrialResult{
			{Trial: 1, Holdout: ok},
			{Trial: 2, Error: errors.New("restore users: no such file")},
		},
		Latency: runner.ComputeLatencyStats([]time.Duration{1500 * time.Millisecond}),
		Config:  runner.DefaultConfig(holdout.Files{Ratings: "datasets/input.dat", Users: "datasets/explore.dat"}),
	}
}

func TestGenerate(t *testing.T) {
	r := Generate(evaluation(), EngineInfo{Name: "recommender", Type: "process", Target: "./bin/recommender"})

	_, err := uuid.Parse(r.Meta.RunID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), r.Meta.Seed)
	assert.NotEmpty(t, r.Meta.Environment.GoVersion)
	assert.Equal(t, "datasets/input.dat", r.Config.Files.Ratings)

	require.Len(t, r.Trials, 2)
	first := r.Trials[0]
	assert.Equal(t, []int{3, 9}, first.TestUsers)
	assert.Equal(t, 2, first.HeldOut)
	assert.Equal(t, 1, first.ExitCode)
	assert.Equal(t, 1500*time.Millisecond, first.Latency)
	assert.Contains(t, first.RecommenderError, "exit status 1")
	assert.Empty(t, first.Error)

	assert.Contains(t, r.Trials[1].Error, "restore users")
	assert.Equal(t, 1, r.Aggregate.FailedTrials)
	assert.Equal(t, 1, r.Aggregate.RecommenderErrs)
	assert.Equal(t, 3.5, r.Aggregate.MeanScore)
}

func TestGenerate_BaselineUnavailable(t *testing.T) {
	er := evaluation()
	er.Baseline = nil
	er.BaselineError = apperr.New(apperr.ErrDegenerateSample, "baseline produced no test predictions")

	r := Generate(er, EngineInfo{})

	assert.Nil(t, r.Baseline)
	assert.Contains(t, r.BaselineError, "no test predictions")

	var buf bytes.Buffer
	WriteTable(r, &buf)
	assert.Contains(t, buf.String(), "unavailable: baseline produced no test predictions")
	assert.NotContains(t, buf.String(), "Baseline RMSE")
}

func TestWriteTable(t *testing.T) {
	r := Generate(evaluation(), EngineInfo{Name: "recommender", Type: "process"})

	var buf bytes.Buffer
	WriteTable(r, &buf)
	out := buf.String()

	assert.Contains(t, out, "=== Recommender Evaluation ===")
	assert.Contains(t, out, "0.9321")
	assert.Contains(t, out, "REC ERR")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "1.50s")
	assert.Contains(t, out, "Users with recommendations: 1/2")
	assert.Contains(t, out, "Held-out ratings: 2")
	assert.Contains(t, out, "Baseline RMSE: 0.9321")
	assert.Contains(t, out, "Evaluation incomplete")
}

func TestWriteJSON(t *testing.T) {
	r := Generate(evaluation(), EngineInfo{Name: "recommender"})
	path := filepath.Join(t.TempDir(), "reports", "eval.json")

	require.NoError(t, WriteJSON(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	meta := decoded["meta"].(map[string]any)
	assert.Equal(t, r.Meta.RunID, meta["run_id"])
	assert.Len(t, decoded["trials"], 2)
	assert.InDelta(t, 0.9321, decoded["baseline"].(map[string]any)["rmse"], 1e-9)
}

func TestWriteFilterStats(t *testing.T) {
	var buf bytes.Buffer
	WriteFilterStats(&buf, filter.Stats{
		Input: 1000, AfterDedupe: 990, AfterRange: 980,
		ValidUsers: 12, AfterUserFilter: 700, ValidItems: 40, AfterItemFilter: 500,
	})

	out := buf.String()
	assert.Contains(t, out, "=== Dataset Filter ===")
	assert.Contains(t, out, "active users (12)")
	assert.Contains(t, out, "500")
}

func TestWriteComparison(t *testing.T) {
	var buf bytes.Buffer
	WriteComparison(&buf, metrics.Comparison{
		UserSimilarity: 100, MovieSimilarity: 50, RatingAccuracy: 75, OverallSimilarity: 75,
		GeneratedUsers: 2, ExistingUsers: 3, CommonUsers: 2,
		GeneratedItems: 4, ExistingItems: 2, CommonItems: 2,
		ExactMatches: 1, PartialMatches: 1, GeneratedRatings: 4, MatchingRatings: 3,
	})

	out := buf.String()
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "Matching ratings: 3/4 (75.00%)")
	assert.Contains(t, out, "Users with identical ratings: 1")
	assert.Contains(t, out, "Overall similarity: 75.00%")
}

func TestFmtDuration(t *testing.T) {
	assert.Equal(t, "-", fmtDuration(0))
	assert.Equal(t, "250µs", fmtDuration(250*time.Microsecond))
	assert.Equal(t, "12.50ms", fmtDuration(12500*time.Microsecond))
	assert.Equal(t, "2.00s", fmtDuration(2*time.Second))
}
