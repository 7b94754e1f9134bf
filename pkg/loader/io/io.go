package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/guidechat/backend/pkg/loader"
)

// FileSource reads knowledge files directly from a local directory.
// Nothing is cached: every call hits the disk, so edited files are picked up
// by the next request.
type FileSource struct {
	dir string
}

// NewFileSource creates a filesystem source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// ReadFile reads dir/name.
func (s *FileSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	clean, err := loader.CleanName(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", loader.ErrNotFound, clean)
		}
		return nil, fmt.Errorf("failed to read %s: %w", clean, err)
	}
	return content, nil
}

// List returns the names of the regular files in dir, sorted.
func (s *FileSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

var (
	_ loader.Source = (*FileSource)(nil)
	_ loader.Lister = (*FileSource)(nil)
)
