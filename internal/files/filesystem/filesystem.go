package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo.
type FileInfo = fs.FileInfo

// File is one entry met during a walk.
type File interface {
	// Path returns the absolute path
	Path() string

	// RelativePath returns the path relative to the walked root, with forward slashes
	RelativePath() string

	Info() FileInfo

	ReadContent() ([]byte, error)
}

// Directory is a tree that can be walked.
type Directory interface {
	// Path returns the absolute path of the root
	Path() string

	// Walk calls fn for every entry below the root, the root included.
	// If fn returns an error, walking stops and Walk returns it.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider opens directories and reads files.
type FileSystemProvider interface {
	// Open opens the directory at path. It fails if path does not exist or is not a directory.
	Open(path string) (Directory, error)

	ReadFile(path string) ([]byte, error)

	Stat(path string) (FileInfo, error)
}
