// Package recommendation extracts per-user recommendation scores from the
// recommender's free-text report.
//
// The report lists one block per requested user, in request order, separated
// by blank lines. Entries look like
//
//	1. Some Title (Score: 4.21)
//
// Parsing relies on the ". " and "(Score:" markers only. A report in another
// format yields an empty result rather than an error.
package recommendation

import (
	"strconv"
	"strings"
)

const (
	ListMarker  = ". "
	ScoreMarker = "(Score:"
	ScoreClose  = ")"
)

// Report maps a user id to scores in report order.
type Report map[int][]float64

// Parse attributes score lines to users in the order of users. A blank line
// or the final line closes the current block. Lines past the last user are
// ignored.
func Parse(lines []string, users []int) Report {
	report := make(Report)
	idx := 0

	for i, line := range lines {
		if idx >= len(users) {
			break
		}
		uid := users[idx]

		if strings.TrimSpace(line) == "" {
			idx++
			continue
		}
		if score, ok := ParseScore(line); ok {
			report[uid] = append(report[uid], score)
		}
		if i == len(lines)-1 {
			idx++
		}
	}

	return report
}

// ParseScore extracts the score of a numbered entry. Lines without both
// markers, or whose score is not a number, report ok=false.
func ParseScore(line string) (float64, bool) {
	if !strings.Contains(line, ListMarker) {
		return 0, false
	}
	_, after, found := strings.Cut(line, ScoreMarker)
	if !found {
		return 0, false
	}
	raw, _, _ := strings.Cut(after, ScoreClose)
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return score, true
}
