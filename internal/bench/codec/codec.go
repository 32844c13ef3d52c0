// Package codec converts rating sets to and from the recommender's line format:
//
//	<user_id> <item_id>:<rating> <item_id>:<rating> ...
//
// Lines are written in ascending user order, items in insertion order.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
)

const maxLineSize = 64 << 20

// Encode renders one line per user.
func Encode(set rating.Set) []string {
	lines := make([]string, 0, len(set))
	for _, uid := range set.Users() {
		lines = append(lines, EncodeLine(uid, set[uid]))
	}
	return lines
}

func EncodeLine(userID int, r *rating.Ratings) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(userID))
	for _, item := range r.Items() {
		v, _ := r.Get(item)
		sb.WriteByte(' ')
		sb.WriteString(FormatToken(item, v))
	}
	return sb.String()
}

func FormatToken(itemID int, value float64) string {
	return strconv.Itoa(itemID) + ":" + FormatRating(value)
}

// FormatRating renders the shortest exact decimal and always keeps a
// fractional part, so 4 becomes "4.0".
func FormatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseToken splits an item:rating token. ok is false when the token has no
// colon at all; such tokens are ignored by callers rather than treated as bad.
func ParseToken(tok string) (item int, value float64, ok bool, err error) {
	if !strings.Contains(tok, ":") {
		return 0, 0, false, nil
	}
	parts := strings.Split(tok, ":")
	if len(parts) != 2 {
		return 0, 0, true, apperr.NewMalformed(fmt.Sprintf("token %q", tok), nil)
	}
	item, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, true, apperr.NewMalformed(fmt.Sprintf("item id in %q", tok), err)
	}
	value, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, true, apperr.NewMalformed(fmt.Sprintf("rating in %q", tok), err)
	}
	return item, value, true, nil
}

// DecodeLine parses one non-blank line. Any bad identifier or rating
// rejects the whole line.
func DecodeLine(line string) (int, *rating.Ratings, error) {
	parts := strings.Split(strings.TrimSpace(line), " ")
	userID, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, nil, apperr.NewMalformed(fmt.Sprintf("user id %q", parts[0]), err)
	}

	r := rating.NewRatings()
	for _, tok := range parts[1:] {
		item, value, ok, err := ParseToken(tok)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			continue
		}
		r.Set(item, value)
	}
	return userID, r, nil
}

// DecodeStats reports what Decode skipped.
type DecodeStats struct {
	Lines     int
	Skipped   int
	Duplicate int
}

// Decode never fails: malformed lines are logged and skipped. A user appearing
// twice keeps the later line.
func Decode(lines []string) (rating.Set, DecodeStats) {
	set := make(rating.Set)
	var stats DecodeStats
	for i, line := range lines {
		decodeInto(set, &stats, i+1, line)
	}
	return set, stats
}

// DecodeReader is Decode over a stream.
func DecodeReader(r io.Reader) (rating.Set, DecodeStats, error) {
	set := make(rating.Set)
	var stats DecodeStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		decodeInto(set, &stats, n, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("scan rating lines: %w", err)
	}
	return set, stats, nil
}

func decodeInto(set rating.Set, stats *DecodeStats, lineNum int, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	stats.Lines++

	uid, r, err := DecodeLine(line)
	if err != nil {
		stats.Skipped++
		slog.Warn("skipping malformed rating line", "line", lineNum, "error", err)
		return
	}
	if _, ok := set[uid]; ok {
		stats.Duplicate++
	}
	set[uid] = r
}
