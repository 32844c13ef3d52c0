package engine

import (
	"fmt"
	"time"
)

const (
	TypeProcess = "process"
	TypeHTTP    = "http"
)

type Config struct {
	Name       string
	Type       string
	Command    string
	Dir        string
	Report     string
	URL        string
	Timeout    time.Duration
	KeepReport bool
}

// Create builds the executor for cfg. The returned cleanup closes it.
func Create(cfg Config) (Executor, func(), error) {
	var exec Executor

	switch cfg.Type {
	case TypeProcess:
		exec = NewProcessExecutor(cfg.Name, ProcessConfig{
			Command:    cfg.Command,
			Dir:        cfg.Dir,
			ReportPath: cfg.Report,
			Timeout:    cfg.Timeout,
			KeepReport: cfg.KeepReport,
		})

	case TypeHTTP:
		exec = NewAPIExecutor(cfg.Name, cfg.URL, cfg.Timeout)

	default:
		return nil, nil, fmt.Errorf("unsupported engine type %q for %q", cfg.Type, cfg.Name)
	}

	cleanup := func() {
		_ = exec.Close()
	}
	return exec, cleanup, nil
}
