package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/rec-bench/pkg/styles"
	"github.com/DjordjeVuckovic/rec-bench/pkg/utils"
)

// WriteTable prints the evaluation summary. Sections without data are
// reported as unavailable rather than omitted.
func WriteTable(r *Report, w io.Writer) {
	fmt.Fprintln(w)
	styles.Heading(w, "Recommender Evaluation")
	fmt.Fprintf(w, "run %s  engine %s (%s)  seed %d\n\n", r.Meta.RunID, r.Meta.Engine.Name, r.Meta.Engine.Type, r.Meta.Seed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeBaselineTable(tw, r)
	writeTrialTable(tw, r)
	writeLatencyTable(tw, r)
	tw.Flush()

	writeSummary(w, r)
}

func writeBaselineTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Baseline (per-user mean predictor)\n\n")
	if r.Baseline == nil {
		fmt.Fprintf(tw, "unavailable: %s\n\n", r.BaselineError)
		return
	}

	writeRow(tw, "RMSE", "Eligible", "Sampled", "Skipped", "Predictions")
	writeSep(tw, 5)
	b := r.Baseline
	writeRow(tw,
		fmt.Sprintf("%.4f", b.RMSE),
		fmt.Sprintf("%d", b.EligibleUsers),
		fmt.Sprintf("%d", b.SampledUsers),
		fmt.Sprintf("%d", b.SkippedUsers),
		fmt.Sprintf("%d", b.Predictions),
	)
	fmt.Fprintln(tw)
}

func writeTrialTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Holdout Trials\n\n")

	writeRow(tw, "Trial", "Users", "With recs", "Recs", "Recs/user", "Mean score", "Held out", "Exit", "Latency", "Status")
	writeSep(tw, 10)
	for _, e := range r.Trials {
		status := "OK"
		switch {
		case e.Error != "":
			status = "FAILED"
		case e.RecommenderError != "":
			status = "REC ERR"
		}
		writeRow(tw,
			fmt.Sprintf("%d", e.Trial),
			fmt.Sprintf("%d", e.Summary.UsersTested),
			fmt.Sprintf("%d", e.Summary.UsersWithRecs),
			fmt.Sprintf("%d", e.Summary.Recommendations),
			fmt.Sprintf("%.2f", e.Summary.MeanRecsPerUser),
			fmt.Sprintf("%.4f", e.Summary.MeanScore),
			fmt.Sprintf("%d", e.HeldOut),
			fmt.Sprintf("%d", e.ExitCode),
			fmtDuration(e.Latency),
			status,
		)
	}
	fmt.Fprintln(tw)
}

func writeLatencyTable(tw *tabwriter.Writer, r *Report) {
	s := r.Latency
	if s.IsZero() {
		return
	}

	fmt.Fprintf(tw, "Recommender Latency\n\n")
	writeRow(tw, "Min", "p50", "p90", "p99", "Max", "Mean", "Stddev", "Samples")
	writeSep(tw, 8)
	writeRow(tw,
		fmtDuration(s.Min),
		fmtDuration(s.Median),
		fmtDuration(s.P90()),
		fmtDuration(s.P99()),
		fmtDuration(s.Max),
		fmtDuration(s.Mean),
		fmtDuration(s.Stddev),
		fmt.Sprintf("%d", s.SampleCount),
	)
	fmt.Fprintln(tw)
}

func writeSummary(w io.Writer, r *Report) {
	a := r.Aggregate
	fmt.Fprintf(w, "Trials: %d completed, %d failed, %d with recommender errors\n",
		a.Trials-a.FailedTrials, a.FailedTrials, a.RecommenderErrs)
	fmt.Fprintf(w, "Users with recommendations: %d/%d\n", a.UsersWithRecs, a.UsersTested)
	fmt.Fprintf(w, "Held-out ratings: %d\n", a.HeldOut)
	fmt.Fprintf(w, "Mean recommendation score: %v\n", utils.RoundDecimal(a.MeanScore, 4))

	if r.Baseline != nil {
		styles.Fprintf(w, styles.Info, "Baseline RMSE: %.4f (a useful recommender should beat this)", r.Baseline.RMSE)
	}
	if a.FailedTrials > 0 || a.Trials == 0 {
		styles.Fprintf(w, styles.Error, "Evaluation incomplete")
	} else {
		styles.Fprintf(w, styles.Success, "Evaluation complete")
	}
}

func writeRow(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func writeSep(tw *tabwriter.Writer, n int) {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(tw, sep...)
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
