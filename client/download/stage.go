package download

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// staged is a partially written artifact awaiting commit.
type staged struct {
	file      *os.File
	dest      string
	committed bool
}

func stage(dest string) (*staged, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".part-*")
	if err != nil {
		return nil, fmt.Errorf("staging artifact: %w", err)
	}

	return &staged{file: f, dest: dest}, nil
}

// commit flushes the staged file and moves it to its destination.
func (s *staged) commit() error {
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("syncing staged artifact: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("closing staged artifact: %w", err)
	}
	if err := os.Rename(s.file.Name(), s.dest); err != nil {
		return fmt.Errorf("moving artifact into place: %w", err)
	}
	s.committed = true

	return nil
}

// discard removes the staged file unless it was committed.
func (s *staged) discard(logger *slog.Logger) {
	if s.committed {
		return
	}

	if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		logger.Error("closing staged artifact", "error", err)
	}
	if err := os.Remove(s.file.Name()); err != nil {
		logger.Error("removing staged artifact", "path", s.file.Name(), "error", err)
	}
}
