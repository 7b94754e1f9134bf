package loader

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrNotFound is returned by a Source when the requested file does not exist.
var ErrNotFound = errors.New("file not found")

// Source provides the raw bytes of knowledge files by name.
// Implementations may read from disk, object storage or anything else and
// must be safe for concurrent use.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// Lister is implemented by sources that can enumerate their files.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

// CleanName validates a file name handed to a Source. Names are flat: no
// directories, no parent references.
func CleanName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed != path.Base(trimmed) || trimmed == "." || trimmed == ".." ||
		strings.ContainsAny(trimmed, `/\`) {
		return "", errors.New("invalid file name: " + name)
	}
	return trimmed, nil
}
