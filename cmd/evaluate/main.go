// Command evaluate estimates the baseline RMSE of a rating set and runs holdout
// experiments against the external recommender.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/engine"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/holdout"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/plan"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/runner"
	"github.com/DjordjeVuckovic/rec-bench/pkg/config/env"
	"github.com/DjordjeVuckovic/rec-bench/pkg/logger"
	"github.com/DjordjeVuckovic/rec-bench/pkg/styles"
)

func main() {
	if err := env.LoadDotEnv(".env"); err != nil {
		slog.Warn("Failed to load .env", "error", err)
	}

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return
	}
	logger.Setup(os.Stdout, cfg.LogLevel)

	// cancelling kills the recommender; the input files are still restored
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("Evaluation aborted", "error", err)
		styles.Fprintf(os.Stdout, styles.Error, "Evaluation aborted: %v", err)
	}
}

func run(ctx context.Context, cfg cliConfig, out io.Writer) error {
	p, err := cfg.buildPlan()
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	if p.Engine.Type == plan.EngineProcess {
		if err := checkBinary(p.Engine.Dir, p.Engine.Command); err != nil {
			return err
		}
	}

	exec, cleanup, err := engine.Create(p.EngineConfig())
	if err != nil {
		return fmt.Errorf("create recommender executor: %w", err)
	}
	defer cleanup()

	r := runner.New(runner.Config{
		Files:    p.HoldoutFiles(),
		Baseline: p.BaselineConfig(),
		Holdout:  p.HoldoutConfig(),
		Trials:   p.Runs.Trials,
		Seed:     p.Runs.Seed,
	})
	slog.Info("Starting evaluation", "engine", exec.Name(), "trials", p.Runs.Trials, "seed", r.Seed())

	result, err := r.Run(ctx, exec)
	if err != nil {
		return err
	}

	rpt := report.Generate(result, engineInfo(p))
	report.WriteTable(rpt, out)

	if cfg.Output != "" {
		if err := report.WriteJSON(rpt, cfg.Output); err != nil {
			slog.Error("Failed to write JSON report", "error", err)
		} else {
			slog.Info("Report written", "path", cfg.Output)
		}
	}
	if cfg.HeldOutOut != "" {
		writeHeldOut(result, cfg.HeldOutOut)
	}

	return nil
}

// checkBinary verifies the recommender exists before any file is touched.
func checkBinary(dir, command string) error {
	path := command
	if !filepath.IsAbs(path) && dir != "" {
		path = filepath.Join(dir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperr.NewMissingFile(path, err)
		}
		return fmt.Errorf("stat recommender: %w", err)
	}
	if info.IsDir() {
		return apperr.NewValidation(fmt.Sprintf("recommender %s is a directory", path))
	}
	return nil
}

func engineInfo(p *plan.Plan) report.EngineInfo {
	info := report.EngineInfo{Name: p.Engine.Name, Type: p.Engine.Type, Target: p.Engine.Command}
	if p.Engine.Type == plan.EngineHTTP {
		info.Target = p.Engine.URL
	}
	return info
}

// writeHeldOut exports each completed trial's withheld ratings. With several
// trials the trial number is appended to the file name.
func writeHeldOut(result *runner.EvaluationResult, path string) {
	completed := result.Completed()
	for _, tr := range completed {
		target := path
		if len(completed) > 1 {
			target = trialPath(path, tr.Trial)
		}

		hf := &holdout.HeldOutFile{TestUsers: tr.Holdout.TestUsers, Entries: tr.Holdout.HeldOut}
		if err := holdout.WriteHeldOutFile(hf, target); err != nil {
			slog.Error("Failed to write held-out ratings", "path", target, "error", err)
			continue
		}
		slog.Info("Held-out ratings written", "path", target, "entries", len(hf.Entries))
	}
}

func trialPath(path string, trial int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_trial%d%s", strings.TrimSuffix(path, ext), trial, ext)
}
