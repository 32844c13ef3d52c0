package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/rec-bench/internal/bench/filter"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/metrics"
	"github.com/DjordjeVuckovic/rec-bench/pkg/styles"
)

// WriteFilterStats prints how many rows survived each filter stage.
func WriteFilterStats(w io.Writer, s filter.Stats) {
	styles.Heading(w, "Dataset Filter")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, "Stage", "Rows")
	writeSep(tw, 2)
	writeRow(tw, "input", fmt.Sprintf("%d", s.Input))
	writeRow(tw, "deduplicated", fmt.Sprintf("%d", s.AfterDedupe))
	writeRow(tw, "in rating range", fmt.Sprintf("%d", s.AfterRange))
	writeRow(tw, fmt.Sprintf("active users (%d)", s.ValidUsers), fmt.Sprintf("%d", s.AfterUserFilter))
	writeRow(tw, fmt.Sprintf("popular items (%d)", s.ValidItems), fmt.Sprintf("%d", s.AfterItemFilter))
	tw.Flush()
	fmt.Fprintln(w)
}

// WriteComparison prints the similarity of a generated rating set to an
// existing one.
func WriteComparison(w io.Writer, c metrics.Comparison) {
	styles.Heading(w, "Snapshot Comparison")

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRow(tw, "", "Generated", "Existing", "Common", "Similarity")
	writeSep(tw, 5)
	writeRow(tw, "users",
		fmt.Sprintf("%d", c.GeneratedUsers),
		fmt.Sprintf("%d", c.ExistingUsers),
		fmt.Sprintf("%d", c.CommonUsers),
		fmtPercent(c.UserSimilarity),
	)
	writeRow(tw, "movies",
		fmt.Sprintf("%d", c.GeneratedItems),
		fmt.Sprintf("%d", c.ExistingItems),
		fmt.Sprintf("%d", c.CommonItems),
		fmtPercent(c.MovieSimilarity),
	)
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Users with identical ratings: %d\n", c.ExactMatches)
	fmt.Fprintf(w, "Users with partially matching ratings: %d\n", c.PartialMatches)
	fmt.Fprintf(w, "Matching ratings: %d/%d (%s)\n", c.MatchingRatings, c.GeneratedRatings, fmtPercent(c.RatingAccuracy))
	styles.Fprintf(w, styles.Info, "Overall similarity: %s", fmtPercent(c.OverallSimilarity))
}

func fmtPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}
