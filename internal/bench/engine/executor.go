package engine

import (
	"context"
	"strings"
	"time"
)

// Executor runs the recommender once against whatever input state is on disk
// and returns its report. Implementations should return a non-nil Execution
// even when they also return an error, carrying whatever report exists.
type Executor interface {
	Execute(ctx context.Context) (*Execution, error)
	Name() string
	Close() error
}

type Execution struct {
	Report   []string
	ExitCode int
	Latency  time.Duration
}

func splitReport(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
