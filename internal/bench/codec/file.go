package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
	"github.com/DjordjeVuckovic/rec-bench/internal/domain/rating"
)

// ReadFile decodes a rating-set file.
func ReadFile(path string) (rating.Set, DecodeStats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, DecodeStats{}, apperr.NewMissingFile(path, err)
		}
		return nil, DecodeStats{}, fmt.Errorf("open rating file: %w", err)
	}
	defer f.Close()

	set, stats, err := DecodeReader(f)
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", path, err)
	}
	return set, stats, nil
}

// WriteFile encodes set into path, creating parent directories.
func WriteFile(path string, set rating.Set) error {
	return WriteLines(path, Encode(set))
}

// WriteLines writes newline-terminated lines, replacing path atomically.
// An existing file keeps its permissions; a new one gets 0644.
func WriteLines(path string, lines []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// ReadLines returns the raw lines of path without trailing newlines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NewMissingFile(path, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// ParseUsers reads one user id per line; blank lines are ignored and
// malformed ones logged and skipped.
func ParseUsers(lines []string) []int {
	users := make([]int, 0, len(lines))
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		id, err := strconv.Atoi(l)
		if err != nil {
			slog.Warn("skipping malformed user line", "line", i+1, "value", l)
			continue
		}
		users = append(users, id)
	}
	return users
}

func ReadUsers(path string) ([]int, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	return ParseUsers(lines), nil
}

func WriteUsers(path string, users []int) error {
	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = strconv.Itoa(u)
	}
	return WriteLines(path, lines)
}
