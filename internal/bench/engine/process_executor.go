package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
)

type ProcessConfig struct {
	// Command is the recommender binary; a relative path is resolved against Dir.
	Command string
	Dir     string
	// ReportPath is where the recommender writes its report, relative to Dir
	// unless absolute.
	ReportPath string
	// Timeout of zero waits forever.
	Timeout time.Duration
	// KeepReport leaves a report from a previous run in place. The recommender
	// appends to it, so stale blocks would be attributed to the wrong users.
	KeepReport bool
}

// ProcessExecutor runs the recommender as a subprocess with no arguments and
// its output streams discarded.
type ProcessExecutor struct {
	name string
	cfg  ProcessConfig
}

func NewProcessExecutor(name string, cfg ProcessConfig) *ProcessExecutor {
	return &ProcessExecutor{name: name, cfg: cfg}
}

func (e *ProcessExecutor) Execute(ctx context.Context) (*Execution, error) {
	reportPath := e.reportPath()
	if !e.cfg.KeepReport {
		if err := os.Remove(reportPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("remove stale report: %w", err)
		}
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	// nil Stdout/Stderr go to the null device
	cmd := exec.CommandContext(ctx, e.cfg.Command)
	cmd.Dir = e.cfg.Dir

	start := time.Now()
	runErr := cmd.Run()
	execution := &Execution{Latency: time.Since(start)}

	var errs []error
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			execution.ExitCode = exitErr.ExitCode()
		} else {
			execution.ExitCode = -1
		}
		errs = append(errs, apperr.Wrap(apperr.ErrExternalProcess, "run "+e.cfg.Command, runErr))
	}

	data, err := os.ReadFile(reportPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		errs = append(errs, apperr.Wrap(apperr.ErrExternalProcess, "no report at "+reportPath, err))
	case err != nil:
		errs = append(errs, fmt.Errorf("read report: %w", err))
	default:
		execution.Report = splitReport(string(data))
	}

	slog.Debug("recommender finished",
		"engine", e.name,
		"exit_code", execution.ExitCode,
		"latency", execution.Latency,
		"report_lines", len(execution.Report),
	)

	return execution, errors.Join(errs...)
}

func (e *ProcessExecutor) reportPath() string {
	if filepath.IsAbs(e.cfg.ReportPath) {
		return e.cfg.ReportPath
	}
	return filepath.Join(e.cfg.Dir, e.cfg.ReportPath)
}

func (e *ProcessExecutor) Name() string { return e.name }
func (e *ProcessExecutor) Close() error { return nil }
