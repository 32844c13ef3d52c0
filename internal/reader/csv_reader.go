package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

type CSVReader struct {
	reader  io.Reader
	skipped int
}

func NewCSVReader(reader io.Reader) *CSVReader {
	return &CSVReader{
		reader: reader,
	}
}

// Skipped is the number of rows Each dropped because they were not valid CSV.
func (cr *CSVReader) Skipped() int {
	return cr.skipped
}

// Each streams rows in file order. Rows whose column count differs from the
// header are passed with the missing columns absent; fn decides what to do.
// Rows with CSV syntax errors are logged and skipped. line is the 1-based
// data row number (header excluded).
func (cr *CSVReader) Each(ctx context.Context, fn func(line int, record map[string]string) error) error {
	csvReader := csv.NewReader(cr.reader)
	csvReader.FieldsPerRecord = -1
	csvReader.ReuseRecord = true

	headers, err := csvReader.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	headers = append([]string(nil), headers...)

	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := csvReader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				cr.skipped++
				slog.Warn("skipping malformed csv row", "row", line, "error", err)
				continue
			}
			return fmt.Errorf("read csv row %d: %w", line, err)
		}

		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			}
		}
		if err := fn(line, record); err != nil {
			return err
		}
	}
}
