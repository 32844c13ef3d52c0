package holdout

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/bench/codec"
	"github.com/DjordjeVuckovic/rec-bench/pkg/utils"
)

type HeldOutRating struct {
	ItemID int     `yaml:"item_id" json:"item_id"`
	Value  float64 `yaml:"rating" json:"rating"`
}

// HeldOutEntry lists the ratings withheld from one user, in draw order.
type HeldOutEntry struct {
	UserID  int             `yaml:"user_id" json:"user_id"`
	Ratings []HeldOutRating `yaml:"ratings" json:"ratings"`
}

// mutate rewrites both files for one experiment and returns the chosen users
// and what was withheld from them.
func (c *Controller) mutate() ([]int, []HeldOutEntry, error) {
	candidates, err := codec.ReadUsers(c.files.Users)
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, apperr.New(apperr.ErrDegenerateSample, "users of interest list is empty")
	}

	pool := candidates[:min(c.cfg.CandidatePool, len(candidates))]
	testUsers := utils.Sample(pool, c.cfg.TestUsers, c.rng)
	slog.Info("selected test users", "candidates", len(candidates), "pool", len(pool), "chosen", len(testUsers))

	if err := codec.WriteUsers(c.files.Users, testUsers); err != nil {
		return nil, nil, err
	}

	chosen := make(map[int]struct{}, len(testUsers))
	for _, u := range testUsers {
		chosen[u] = struct{}{}
	}

	lines, err := codec.ReadLines(c.files.Ratings)
	if err != nil {
		return nil, nil, err
	}

	var heldOut []HeldOutEntry
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		uid, err := strconv.Atoi(parts[0])
		if err != nil {
			slog.Warn("passing through malformed rating line", "line", i+1, "error", err)
			out = append(out, strings.TrimSpace(line))
			continue
		}

		tokens := parts[1:]
		if _, ok := chosen[uid]; !ok || len(tokens) < c.cfg.MinRatings {
			out = append(out, strings.TrimSpace(line))
			continue
		}

		held, kept := c.split(tokens)
		heldOut = append(heldOut, HeldOutEntry{UserID: uid, Ratings: parseHeld(uid, held)})
		out = append(out, strings.Join(append([]string{parts[0]}, kept...), " "))
	}

	if err := codec.WriteLines(c.files.Ratings, out); err != nil {
		return nil, nil, err
	}

	return testUsers, heldOut, nil
}

// split shuffles a copy of tokens and withholds
// max(MinHoldout, floor(n*HoldoutFraction)) of them.
func (c *Controller) split(tokens []string) (held, kept []string) {
	shuffled := make([]string, len(tokens))
	copy(shuffled, tokens)
	utils.Shuffle(shuffled, c.rng)

	size := max(c.cfg.MinHoldout, int(math.Floor(float64(len(shuffled))*c.cfg.HoldoutFraction)))
	size = min(size, len(shuffled))
	return shuffled[:size], shuffled[size:]
}

func parseHeld(uid int, tokens []string) []HeldOutRating {
	ratings := make([]HeldOutRating, 0, len(tokens))
	for _, tok := range tokens {
		item, value, ok, err := codec.ParseToken(tok)
		if err != nil {
			slog.Warn("withheld token not recorded", "user", uid, "error", err)
			continue
		}
		if !ok {
			continue
		}
		ratings = append(ratings, HeldOutRating{ItemID: item, Value: value})
	}
	return ratings
}
