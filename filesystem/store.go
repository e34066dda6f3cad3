// Package filesystem provides the directory storage backend for galleria.
// It confines all access to one directory with os.Root and writes atomically
// through temp files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/galleria"
)

// tmpPrefix marks in-flight writes. List skips names starting with it.
const tmpPrefix = ".t"

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Get opens a file for reading. Returns galleria.ErrNotFound if the file does not exist.
func (s *Store) Get(ctx context.Context, name string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, galleria.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = f.Close()
		return nil, galleria.ErrNotFound
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to name using a temp file and rename.
// An existing file is replaced; readers see either the old or the new
// content, never a partial file. The operation respects context cancellation.
func (s *Store) Write(ctx context.Context, name string, content io.Reader) (galleria.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return galleria.SaveResult{}, ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return galleria.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	closed := false
	success := false
	defer func() {
		if !closed {
			if closeErr := t.Close(); closeErr != nil {
				slog.Warn("failed to close tmp file", "err", closeErr)
			}
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	fileSizeBytes, err := io.Copy(t, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return galleria.SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return galleria.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	closed = true
	if err = t.Close(); err != nil {
		return galleria.SaveResult{}, fmt.Errorf("could not close written file: %w", err)
	}

	_, statErr := s.root.Stat(name)
	replaced := statErr == nil

	if renameErr := s.root.Rename(tmpFile, name); renameErr != nil {
		return galleria.SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true

	return galleria.SaveResult{
		BytesWritten: fileSizeBytes,
		Replaced:     replaced,
	}, nil
}

// Delete removes a file. Returns galleria.ErrNotFound if the file does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return galleria.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

// List returns the names of the regular files directly under the root.
// Directories, temp files of in-flight writes and other non-regular
// entries are skipped. The result is never nil.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// RemoveStaleTemp deletes temp files left behind by interrupted writes.
// Only temp files last modified more than olderThan ago are removed, so
// writes still in flight are left alone. It returns how many were removed.
func (s *Store) RemoveStaleTemp(ctx context.Context, olderThan time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	entries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return 0, fmt.Errorf("failed to list files: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return removed, fmt.Errorf("failed to stat temp file: %w", err)
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := s.root.Remove(entry.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("could not remove temp file: %w", err)
		}
		slog.Debug("removed stale temp file", "name", entry.Name(), "modified", info.ModTime())
		removed++
	}

	return removed, nil
}

func tmpFileName() string {
	return fmt.Sprintf("%s%s", tmpPrefix, uuid.New().String())
}
