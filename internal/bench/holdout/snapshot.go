package holdout

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/rec-bench/internal/apperr"
)

// Files are the two inputs the recommender reads.
type Files struct {
	Ratings string `json:"ratings"`
	Users   string `json:"users"`
}

// BackupPath returns the sibling path a file is backed up to:
// datasets/input.dat -> datasets/input_original.dat.
func BackupPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_original" + ext
}

// snapshot owns backups of Files until restore moves them back.
type snapshot struct {
	files   Files
	backups Files
}

// takeSnapshot copies both files aside. Both must exist and neither may
// already have a backup; otherwise nothing is copied.
func takeSnapshot(files Files) (*snapshot, error) {
	for _, p := range []string{files.Ratings, files.Users} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, apperr.NewMissingFile(p, err)
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
	}

	s := &snapshot{
		files:   files,
		backups: Files{Ratings: BackupPath(files.Ratings), Users: BackupPath(files.Users)},
	}

	// A leftover backup may be the only copy of an interrupted run's input.
	for _, p := range []string{s.backups.Ratings, s.backups.Users} {
		if _, err := os.Lstat(p); err == nil {
			return nil, apperr.NewValidation(fmt.Sprintf("backup %s already exists; restore or remove it first", p))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
	}

	if err := copyFile(files.Ratings, s.backups.Ratings); err != nil {
		return nil, fmt.Errorf("backup ratings: %w", err)
	}
	if err := copyFile(files.Users, s.backups.Users); err != nil {
		_ = os.Remove(s.backups.Ratings)
		return nil, fmt.Errorf("backup users: %w", err)
	}

	return s, nil
}

// restore moves the backups over the originals, consuming them. Both moves
// are attempted even if the first fails.
func (s *snapshot) restore() error {
	var errs []error
	if err := os.Rename(s.backups.Ratings, s.files.Ratings); err != nil {
		errs = append(errs, fmt.Errorf("restore ratings: %w", err))
	}
	if err := os.Rename(s.backups.Users, s.files.Users); err != nil {
		errs = append(errs, fmt.Errorf("restore users: %w", err))
	}
	return errors.Join(errs...)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
