// Package fs provides the on-disk destination for downloaded documents.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/docgrab"
)

// Ensure Store implements docgrab.FileStore at compile time.
var _ docgrab.FileStore = (*Store)(nil)

// Store writes documents with atomic semantics.
// Data is streamed to a temporary file next to the destination and renamed
// into place only once the stream has been fully written, so a failed
// transfer never leaves a truncated file at the final path.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// EnsureDir creates dir and its parents if needed and returns its absolute path.
func (s *Store) EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return filepath.Abs(dir)
}

// Exists reports whether anything is present at path.
func (s *Store) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Write streams r to a temporary file in path's directory and renames it to
// path on success. The temporary file is removed on any failure.
func (s *Store) Write(ctx context.Context, path string, r io.Reader) (n int64, err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return 0, fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err = io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	if err != nil {
		return n, fmt.Errorf("writing %s: %w", base, err)
	}
	if err = tmp.Sync(); err != nil {
		return n, err
	}
	if err = tmp.Close(); err != nil {
		return n, err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return n, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return n, err
	}
	return n, nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
