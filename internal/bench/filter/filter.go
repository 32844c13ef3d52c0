// Package filter reduces raw rating records to the subset the recommender is
// evaluated on.
//
// The pipeline is a single pass: dedupe, range check, user activity, item
// popularity. Item counts are taken after the user filter, so dropping
// inactive users can push an item under the threshold. Nothing is re-checked
// afterwards; a user may end up below MinUserRatings once items are removed.
// This is not a k-core fixpoint.
package filter

import (
	"log/slog"

	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
)

const (
	DefaultMinUserRatings = 50
	DefaultMinItemRatings = 50
)

type Config struct {
	MinUserRatings int
	MinItemRatings int
}

func DefaultConfig() Config {
	return Config{
		MinUserRatings: DefaultMinUserRatings,
		MinItemRatings: DefaultMinItemRatings,
	}
}

// Stats are observational counts after each stage.
type Stats struct {
	Input           int `json:"input"`
	AfterDedupe     int `json:"after_dedupe"`
	AfterRange      int `json:"after_range"`
	ValidUsers      int `json:"valid_users"`
	AfterUserFilter int `json:"after_user_filter"`
	ValidItems      int `json:"valid_items"`
	AfterItemFilter int `json:"after_item_filter"`
}

type pair struct {
	user, item int
}

// Apply runs the filter pipeline. The input slice is not modified and record
// order is preserved.
func Apply(records []rating.Record, cfg Config) ([]rating.Record, Stats) {
	stats := Stats{Input: len(records)}

	out := dedupe(records)
	stats.AfterDedupe = len(out)

	out = keep(out, func(r rating.Record) bool { return r.InRange() })
	stats.AfterRange = len(out)

	users := activeKeys(out, func(r rating.Record) int { return r.UserID }, cfg.MinUserRatings)
	stats.ValidUsers = len(users)
	out = keep(out, func(r rating.Record) bool { _, ok := users[r.UserID]; return ok })
	stats.AfterUserFilter = len(out)

	items := activeKeys(out, func(r rating.Record) int { return r.ItemID }, cfg.MinItemRatings)
	stats.ValidItems = len(items)
	out = keep(out, func(r rating.Record) bool { _, ok := items[r.ItemID]; return ok })
	stats.AfterItemFilter = len(out)

	slog.Info("dataset filtered",
		"input", stats.Input,
		"after_dedupe", stats.AfterDedupe,
		"after_range", stats.AfterRange,
		"valid_users", stats.ValidUsers,
		"after_user_filter", stats.AfterUserFilter,
		"valid_items", stats.ValidItems,
		"after_item_filter", stats.AfterItemFilter,
	)

	return out, stats
}

// dedupe keeps the first record seen for every (user, item) pair.
func dedupe(records []rating.Record) []rating.Record {
	seen := make(map[pair]struct{}, len(records))
	out := make([]rating.Record, 0, len(records))
	for _, r := range records {
		k := pair{r.UserID, r.ItemID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

func keep(records []rating.Record, pred func(rating.Record) bool) []rating.Record {
	out := records[:0:0]
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func activeKeys(records []rating.Record, key func(rating.Record) int, min int) map[int]struct{} {
	counts := make(map[int]int)
	for _, r := range records {
		counts[key(r)]++
	}
	active := make(map[int]struct{}, len(counts))
	for k, n := range counts {
		if n >= min {
			active[k] = struct{}{}
		}
	}
	return active
}
