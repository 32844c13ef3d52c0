package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/baseline"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/codec"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
)

// PCG stream selectors, so baseline draws do not depend on the trial count.
const (
	baselineStream = 1
	holdoutStream  = 2
)

type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return &Runner{config: cfg}
}

func (r *Runner) Seed() uint64 {
	return r.config.Seed
}

// Run estimates the baseline from the ratings file, then runs the configured
// number of holdout trials against exec. Only a missing ratings file is
// fatal. A trial that fails stops the remaining trials, since a failed
// restore may have left the inputs unusable.
func (r *Runner) Run(ctx context.Context, exec engine.Executor) (*EvaluationResult, error) {
	res := &EvaluationResult{Seed: r.config.Seed, Config: r.config}

	set, stats, err := codec.ReadFile(r.config.Files.Ratings)
	if err != nil {
		return nil, fmt.Errorf("load ratings for baseline: %w", err)
	}
	slog.Info("loaded ratings", "path", r.config.Files.Ratings, "users", len(set), "skipped_lines", stats.Skipped)

	bres, err := baseline.Estimate(set, r.config.Baseline, rand.New(rand.NewPCG(r.config.Seed, baselineStream)))
	if err != nil {
		slog.Warn("baseline not available", "error", err)
		res.BaselineError = err
	} else {
		res.Baseline = &bres
	}

	rng := rand.New(rand.NewPCG(r.config.Seed, holdoutStream))
	ctrl := holdout.NewController(r.config.Files, r.config.Holdout, exec, rng)

	var latencies []time.Duration
	for i := range r.config.Trials {
		if err := ctx.Err(); err != nil {
			slog.Warn("evaluation cancelled", "completed_trials", i)
			break
		}

		slog.Info("starting trial", "trial", i+1, "of", r.config.Trials)
		hres, err := ctrl.Run(ctx)
		tr := TrialResult{Trial: i + 1, Holdout: hres, Error: err}
		res.Trials = append(res.Trials, tr)

		if err != nil {
			level := slog.LevelError
			if errors.Is(err, apperr.ErrDegenerateSample) {
				level = slog.LevelWarn
			}
			slog.Log(ctx, level, "trial failed", "trial", i+1, "error", err)
			break
		}
		if d, ok := tr.Latency(); ok {
			latencies = append(latencies, d)
		}
	}

	res.Latency = ComputeLatencyStats(latencies)
	return res, nil
}
