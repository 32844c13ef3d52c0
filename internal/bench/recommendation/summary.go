package recommendation

import "gonum.org/v1/gonum/stat"

type Summary struct {
	UsersTested     int     `json:"users_tested"`
	UsersWithRecs   int     `json:"users_with_recs"`
	Recommendations int     `json:"recommendations"`
	MeanRecsPerUser float64 `json:"mean_recs_per_user"`
	MeanScore       float64 `json:"mean_score"`
}

// Summarize aggregates a parsed report. Means are 0 when nothing was
// recommended.
func Summarize(report Report, usersTested int) Summary {
	s := Summary{UsersTested: usersTested}

	var scores []float64
	for _, recs := range report {
		if len(recs) == 0 {
			continue
		}
		s.UsersWithRecs++
		scores = append(scores, recs...)
	}
	s.Recommendations = len(scores)

	if s.UsersWithRecs > 0 {
		s.MeanRecsPerUser = float64(s.Recommendations) / float64(s.UsersWithRecs)
		s.MeanScore = stat.Mean(scores, nil)
	}
	return s
}
