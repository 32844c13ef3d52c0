package reader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
)

// Columns names the source table headers holding each rating field.
type Columns struct {
	User   string
	Item   string
	Rating string
}

func DefaultColumns() Columns {
	return Columns{User: "userId", Item: "movieId", Rating: "rating"}
}

type RatingMapper struct {
	cols Columns
}

func NewRatingMapper(cols Columns) *RatingMapper {
	return &RatingMapper{cols: cols}
}

func (m *RatingMapper) Map(record map[string]string) (rating.Record, error) {
	user, err := parseID(record, m.cols.User)
	if err != nil {
		return rating.Record{}, err
	}
	item, err := parseID(record, m.cols.Item)
	if err != nil {
		return rating.Record{}, err
	}

	raw, ok := record[m.cols.Rating]
	if !ok {
		return rating.Record{}, apperr.NewMalformed(fmt.Sprintf("column %q missing", m.cols.Rating), nil)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return rating.Record{}, apperr.NewMalformed(fmt.Sprintf("failed to parse rating '%s'", raw), err)
	}

	return rating.Record{UserID: user, ItemID: item, Value: value}, nil
}

func parseID(record map[string]string, col string) (int, error) {
	raw, ok := record[col]
	if !ok {
		return 0, apperr.NewMalformed(fmt.Sprintf("column %q missing", col), nil)
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.NewMalformed(fmt.Sprintf("failed to parse id '%s'", raw), err)
	}
	if id < 0 {
		return 0, apperr.NewMalformed(fmt.Sprintf("negative id %d in column %q", id, col), nil)
	}
	return id, nil
}

// ReadRatings loads rating records from a CSV source. Malformed rows are
// logged and skipped; the returned count says how many.
func ReadRatings(ctx context.Context, r io.Reader, cols Columns) ([]rating.Record, int, error) {
	mapper := NewRatingMapper(cols)
	var (
		records []rating.Record
		skipped int
	)

	csvReader := NewCSVReader(r)
	err := csvReader.Each(ctx, func(line int, row map[string]string) error {
		rec, err := mapper.Map(row)
		if err != nil {
			skipped++
			slog.Warn("skipping malformed rating row", "row", line, "error", err)
			return nil
		}
		records = append(records, rec)
		return nil
	})
	skipped += csvReader.Skipped()
	if err != nil {
		return nil, skipped, err
	}

	return records, skipped, nil
}
