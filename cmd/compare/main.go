// Command compare filters a raw ratings table into the recommender's rating
// set format and measures how closely it matches an existing rating set.
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

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/codec"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/filter"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/report"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
	"github.com/DjordjeVuckovic/rec-bench/internal/reader"
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

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		slog.Error("Comparison aborted", "error", err)
		styles.Fprintf(os.Stdout, styles.Error, "Comparison aborted: %v", err)
	}
}

func run(ctx context.Context, cfg cliConfig, out io.Writer) error {
	records, err := loadRecords(ctx, cfg.RatingsCSV)
	if err != nil {
		return err
	}

	kept, stats := filter.Apply(records, cfg.filterConfig())
	report.WriteFilterStats(out, stats)

	if err := codec.WriteFile(cfg.GeneratedPath, rating.FromRecords(kept)); err != nil {
		return fmt.Errorf("write generated rating set: %w", err)
	}
	slog.Info("Generated rating set written", "path", cfg.GeneratedPath)

	generated, _, err := codec.ReadFile(cfg.GeneratedPath)
	if err != nil {
		return fmt.Errorf("read generated rating set: %w", err)
	}
	existing, decodeStats, err := codec.ReadFile(cfg.ExistingPath)
	if err != nil {
		return fmt.Errorf("read existing rating set: %w", err)
	}
	if decodeStats.Skipped > 0 {
		slog.Warn("Skipped malformed lines in existing rating set", "path", cfg.ExistingPath, "skipped", decodeStats.Skipped)
	}

	report.WriteComparison(out, metrics.Compare(generated, existing))
	return nil
}

func loadRecords(ctx context.Context, path string) ([]rating.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NewMissingFile(path, err)
		}
		return nil, fmt.Errorf("open ratings table: %w", err)
	}
	defer f.Close()

	records, skipped, err := reader.ReadRatings(ctx, f, reader.DefaultColumns())
	if err != nil {
		return nil, fmt.Errorf("read ratings table: %w", err)
	}
	slog.Info("Loaded ratings table", "path", path, "records", len(records), "skipped", skipped)
	return records, nil
}
