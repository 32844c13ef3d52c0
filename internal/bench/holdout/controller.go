// Package holdout runs one recommender experiment against temporarily
// mutated input files.
//
// A run moves through Idle -> BackedUp -> Mutated -> Invoked -> Restored.
// Once the backup exists, restoring it is deferred, so the originals come
// back on every return path and on panics. A process kill cannot be covered.
package holdout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/recommendation"
)

const (
	DefaultCandidatePool   = 50
	DefaultTestUsers       = 10
	DefaultMinRatings      = 10
	DefaultHoldoutFraction = 0.2
	DefaultMinHoldout      = 2
)

type Config struct {
	// CandidatePool restricts sampling to the first N users of interest.
	CandidatePool int `json:"candidate_pool"`
	TestUsers     int `json:"test_users"`
	// MinRatings is the fewest ratings a chosen user needs to have any
	// withheld.
	MinRatings      int     `json:"min_ratings"`
	HoldoutFraction float64 `json:"holdout_fraction"`
	MinHoldout      int     `json:"min_holdout"`
}

func DefaultConfig() Config {
	return Config{
		CandidatePool:   DefaultCandidatePool,
		TestUsers:       DefaultTestUsers,
		MinRatings:      DefaultMinRatings,
		HoldoutFraction: DefaultHoldoutFraction,
		MinHoldout:      DefaultMinHoldout,
	}
}

type Result struct {
	TestUsers []int                  `json:"test_users"`
	HeldOut   []HeldOutEntry         `json:"held_out"`
	Report    recommendation.Report  `json:"-"`
	Summary   recommendation.Summary `json:"summary"`
	Execution *engine.Execution      `json:"-"`
	// ExecError is the non-fatal recommender failure, if any.
	ExecError error `json:"-"`
}

func (r *Result) HeldOutCount() int {
	var n int
	for _, e := range r.HeldOut {
		n += len(e.Ratings)
	}
	return n
}

// Controller owns the input files for the duration of Run. Nothing else may
// touch them meanwhile; there is no lock.
type Controller struct {
	files       Files
	cfg         Config
	exec        engine.Executor
	rng         *rand.Rand
	transitions []State
}

func NewController(files Files, cfg Config, exec engine.Executor, rng *rand.Rand) *Controller {
	return &Controller{
		files: files,
		cfg:   cfg,
		exec:  exec,
		rng:   rng,
	}
}

// Transitions returns the states entered by the last Run.
func (c *Controller) Transitions() []State {
	out := make([]State, len(c.transitions))
	copy(out, c.transitions)
	return out
}

func (c *Controller) enter(s State) {
	c.transitions = append(c.transitions, s)
	slog.Debug("holdout state", "state", s.String())
}

// Run performs one experiment. A missing input file fails before anything is
// changed. Recommender failures are not errors: the result carries whatever
// report was produced and ExecError. The files are restored before Run
// returns; a restore failure is joined onto the returned error.
func (c *Controller) Run(ctx context.Context) (res *Result, err error) {
	c.transitions = c.transitions[:0]
	c.enter(Idle)

	snap, err := takeSnapshot(c.files)
	if err != nil {
		return nil, err
	}
	c.enter(BackedUp)

	defer func() {
		if rerr := snap.restore(); rerr != nil {
			slog.Error("failed to restore original files", "error", rerr)
			err = errors.Join(err, rerr)
			return
		}
		c.enter(Restored)
		slog.Info("restored original files", "ok", err == nil)
	}()

	testUsers, heldOut, err := c.mutate()
	if err != nil {
		return nil, fmt.Errorf("prepare holdout: %w", err)
	}
	c.enter(Mutated)

	slog.Info("running recommender", "engine", c.exec.Name(), "test_users", len(testUsers))
	execution, execErr := c.exec.Execute(ctx)
	c.enter(Invoked)
	if execErr != nil {
		slog.Warn("recommender failed, parsing whatever report exists", "engine", c.exec.Name(), "error", execErr)
	}

	var lines []string
	if execution != nil {
		lines = execution.Report
	}
	report := recommendation.Parse(lines, testUsers)

	res = &Result{
		TestUsers: testUsers,
		HeldOut:   heldOut,
		Report:    report,
		Summary:   recommendation.Summarize(report, len(testUsers)),
		Execution: execution,
		ExecError: execErr,
	}
	slog.Info("holdout finished",
		"users_tested", res.Summary.UsersTested,
		"users_with_recs", res.Summary.UsersWithRecs,
		"held_out", res.HeldOutCount(),
	)

	return res, nil
}
