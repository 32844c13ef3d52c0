package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
)

const DefaultAPITimeout = 30 * time.Minute

// APIExecutor triggers a recommender that runs behind an HTTP endpoint
// sharing the same input files. POST <baseURL>/run must block until the
// run completes and answer with the plain-text report.
type APIExecutor struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewAPIExecutor(name, baseURL string, timeout time.Duration) *APIExecutor {
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}
	return &APIExecutor{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *APIExecutor) Execute(ctx context.Context) (*Execution, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/run", nil)
	if err != nil {
		return nil, fmt.Errorf("api create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return &Execution{ExitCode: -1, Latency: time.Since(start)},
			apperr.Wrap(apperr.ErrExternalProcess, "api request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	execution := &Execution{Latency: time.Since(start)}
	if err != nil {
		execution.ExitCode = -1
		return execution, apperr.Wrap(apperr.ErrExternalProcess, "api read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		execution.ExitCode = resp.StatusCode
		return execution, apperr.New(apperr.ErrExternalProcess,
			fmt.Sprintf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	execution.Report = splitReport(string(body))
	return execution, nil
}

func (e *APIExecutor) Name() string { return e.name }
func (e *APIExecutor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}
