package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"unicsv/internal/config"
	"unicsv/internal/fileutil"
	"unicsv/internal/tracker"
	"unicsv/internal/transcoder"
)

const lockRetryDelay = 50 * time.Millisecond

// Service runs conversions and keeps the tracker store in sync.
type Service struct {
	cfg    *config.Config
	store  *tracker.Store
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock
}

// Outcome reports what one Normalize or Restore call did.
type Outcome struct {
	Path      string
	Encoding  transcoder.Encoding
	Delimiter rune
	Converted bool
}

// New constructs a conversion service with initialized dependencies.
func New(cfg *config.Config, store *tracker.Store, logger *slog.Logger) (*Service, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("pipeline requires config, store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "unicsv.lock")
	return &Service{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Normalize rewrites tabs in path to the configured delimiter, in place.
func (s *Service) Normalize(ctx context.Context, path string) (*Outcome, error) {
	return s.NormalizeTo(ctx, path, path)
}

// NormalizeTo rewrites tabs in src to the configured delimiter, leaving the
// result at dst. Unmarked, untracked files are left alone. The conversion
// lands in a temporary sibling of dst and is promoted only on success.
func (s *Service) NormalizeTo(ctx context.Context, src, dst string) (*Outcome, error) {
	src, dst, err := s.resolve(src, dst)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	enc := transcoder.DetectEncoding(src)
	if !enc.Unicode() {
		tracked, err := s.store.Contains(ctx, src)
		if err != nil {
			return nil, err
		}
		if !tracked {
			s.logger.Debug("skipping unmarked file", "path", src)
			return &Outcome{Path: dst, Encoding: enc}, nil
		}
	}

	delim := s.cfg.Delimiter()
	if err := s.convert(src, dst, transcoder.SourceDelimiter, delim, enc); err != nil {
		return nil, err
	}

	if _, err := s.store.Add(ctx, dst, enc); err != nil {
		return nil, err
	}
	if err := s.store.MarkConverted(ctx, dst, time.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("normalized delimiters",
		"path", dst,
		"encoding", enc.String(),
		"delimiter", string(delim))
	return &Outcome{Path: dst, Encoding: enc, Delimiter: delim, Converted: true}, nil
}

// Restore rewrites the configured delimiter in path back to tabs, in place.
func (s *Service) Restore(ctx context.Context, path string) (*Outcome, error) {
	return s.RestoreTo(ctx, path, path)
}

// RestoreTo converts src back to the legacy tab format at dst. The encoding
// recorded at normalization time wins over fresh detection so unmarked
// tracked files restore correctly.
func (s *Service) RestoreTo(ctx context.Context, src, dst string) (*Outcome, error) {
	src, dst, err := s.resolve(src, dst)
	if err != nil {
		return nil, err
	}

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	enc := transcoder.DetectEncoding(src)
	if file, err := s.store.Get(ctx, src); err != nil {
		return nil, err
	} else if file != nil {
		enc = file.Encoding
	}

	delim := s.cfg.Delimiter()
	if err := s.convert(src, dst, delim, transcoder.SourceDelimiter, enc); err != nil {
		return nil, err
	}

	s.logger.Info("restored tab delimiters",
		"path", dst,
		"encoding", enc.String())
	return &Outcome{Path: dst, Encoding: enc, Delimiter: delim, Converted: true}, nil
}

// convert runs the transcoder into a temporary sibling of dst and promotes
// it on success. The temporary file is removed on every failure path.
func (s *Service) convert(src, dst string, from, to rune, enc transcoder.Encoding) error {
	tmp := fmt.Sprintf("%s.%s.tmp", dst, uuid.NewString())
	if err := transcoder.ConvertDelimiters(src, tmp, from, to, enc); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := fileutil.ReplaceFile(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("promote %s: %w", dst, err)
	}
	return nil
}

func (s *Service) resolve(src, dst string) (string, string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", "", fmt.Errorf("resolve source path: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return "", "", fmt.Errorf("resolve destination path: %w", err)
	}
	return absSrc, absDst, nil
}

func (s *Service) acquireLock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire conversion lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("conversion lock %s held elsewhere", s.lockPath)
	}
	return func() {
		_ = s.lock.Unlock()
	}, nil
}
