package scanner

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Locator implements sparkify.FileLocator over a FileSystemProvider.
type Locator struct {
	fileSystem filesystem.FileSystemProvider
}

// NewLocator creates a Locator backed by the OS filesystem.
func NewLocator() *Locator {
	return NewLocatorWithFS(filesystem.NewOSFileSystem())
}

// NewLocatorWithFS creates a Locator backed by fs.
// Panics if fs is nil.
func NewLocatorWithFS(fs filesystem.FileSystemProvider) *Locator {
	if fs == nil {
		panic("fileSystem cannot be nil")
	}
	return &Locator{fileSystem: fs}
}

// Locate returns every regular file below root whose base name matches
// pattern. An empty pattern means sparkify.DefaultFilePattern.
func (l *Locator) Locate(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = sparkify.DefaultFilePattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: invalid file pattern %q: %v", sparkify.ErrInvalidConfig, pattern, err)
	}

	dir, err := l.fileSystem.Open(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", sparkify.ErrFileSystem, root, err)
	}

	var paths []string
	err = dir.Walk(func(f filesystem.File, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if f.Info().IsDir() {
			return nil
		}
		matched, _ := filepath.Match(pattern, filepath.Base(f.Path()))
		if matched {
			paths = append(paths, f.Path())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sparkify.ErrFileSystem, err)
	}

	sort.Strings(paths)
	return paths, nil
}

var _ sparkify.FileLocator = (*Locator)(nil)
