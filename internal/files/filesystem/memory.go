package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type memoryFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (f *memoryFileInfo) Name() string { return f.name }
func (f *memoryFileInfo) Size() int64  { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode {
	if f.isDir {
		return 0755 | fs.ModeDir
	}
	return 0644
}
func (f *memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	absPath string
	relPath string
	content []byte
	isDir   bool
	mfs     *MemoryFileSystem
}

func (f *memoryFile) Path() string         { return f.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }

func (f *memoryFile) Info() FileInfo {
	return &memoryFileInfo{name: path.Base(f.absPath), size: int64(len(f.content)), isDir: f.isDir}
}

func (f *memoryFile) ReadContent() ([]byte, error) {
	return f.mfs.ReadFile(f.absPath)
}

type memoryDirectory struct {
	absPath string
	mfs     *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

// Walk visits the root and every entry below it, sorted by path.
func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	var entries []*memoryFile
	prefix := strings.TrimSuffix(d.absPath, "/") + "/"
	for p, entry := range d.mfs.entries {
		if p == d.absPath || strings.HasPrefix(p, prefix) {
			rel := strings.TrimPrefix(strings.TrimPrefix(p, d.absPath), "/")
			if rel == "" {
				rel = "."
			}
			entries = append(entries, &memoryFile{absPath: p, relPath: rel, content: entry.content, isDir: entry.isDir, mfs: d.mfs})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].absPath < entries[j].absPath })

	for _, entry := range entries {
		if err := d.mfs.failures[entry.absPath]; err != nil && entry.isDir {
			if cbErr := fn(nil, fmt.Errorf("walk %s: %w", entry.absPath, err)); cbErr != nil {
				return cbErr
			}
			continue
		}
		if err := callSafely(fn, entry); err != nil {
			return err
		}
	}
	return nil
}

func callSafely(fn func(File, error) error, f File) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("walk callback panicked at %s: %v", f.Path(), r)
		}
	}()
	return fn(f, nil)
}

type memoryEntry struct {
	content []byte
	isDir   bool
}

// MemoryFileSystem implements FileSystemProvider for tests.
// Paths use forward slashes; relative paths are resolved against root.
type MemoryFileSystem struct {
	root     string
	entries  map[string]*memoryEntry
	failures map[string]error
}

// NewMemoryFileSystem creates an empty in-memory tree whose root directory exists.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		root:     root,
		entries:  map[string]*memoryEntry{root: {isDir: true}},
		failures: map[string]error{},
	}
	return mfs
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// AddFile adds a file and its parent directories.
func (mfs *MemoryFileSystem) AddFile(p string, content string) {
	absPath := mfs.abs(p)
	mfs.entries[absPath] = &memoryEntry{content: []byte(content)}
	for dir := path.Dir(absPath); dir != "/" && dir != "."; dir = path.Dir(dir) {
		if _, ok := mfs.entries[dir]; ok {
			break
		}
		mfs.entries[dir] = &memoryEntry{isDir: true}
	}
}

// AddDir adds an empty directory.
func (mfs *MemoryFileSystem) AddDir(p string) {
	mfs.entries[mfs.abs(p)] = &memoryEntry{isDir: true}
}

// FailOn makes every access to p return err. For a directory, walks report err
// for it and skip nothing else.
func (mfs *MemoryFileSystem) FailOn(p string, err error) {
	mfs.failures[mfs.abs(p)] = err
}

func (mfs *MemoryFileSystem) Open(p string) (Directory, error) {
	absPath := mfs.abs(p)
	if err := mfs.failures[absPath]; err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	entry, ok := mfs.entries[absPath]
	if !ok {
		return nil, fmt.Errorf("failed to access path: %w", &fs.PathError{Op: "stat", Path: absPath, Err: fs.ErrNotExist})
	}
	if !entry.isDir {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}
	return &memoryDirectory{absPath: absPath, mfs: mfs}, nil
}

func (mfs *MemoryFileSystem) ReadFile(p string) ([]byte, error) {
	absPath := mfs.abs(p)
	if err := mfs.failures[absPath]; err != nil {
		return nil, &fs.PathError{Op: "read", Path: absPath, Err: err}
	}
	entry, ok := mfs.entries[absPath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: absPath, Err: fs.ErrNotExist}
	}
	if entry.isDir {
		return nil, &fs.PathError{Op: "read", Path: absPath, Err: fmt.Errorf("is a directory")}
	}
	return entry.content, nil
}

func (mfs *MemoryFileSystem) Stat(p string) (FileInfo, error) {
	absPath := mfs.abs(p)
	entry, ok := mfs.entries[absPath]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: absPath, Err: fs.ErrNotExist}
	}
	return &memoryFileInfo{name: path.Base(absPath), size: int64(len(entry.content)), isDir: entry.isDir}, nil
}

var _ FileSystemProvider = (*MemoryFileSystem)(nil)
