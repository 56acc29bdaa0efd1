// Package filesystem abstracts the read-only file access the pipeline needs,
// so discovery and extraction can run against the OS or an in-memory tree.
//
// Implementations:
//   - OSFileSystem: production implementation using the os package
//   - MemoryFileSystem: in-memory implementation for tests
package filesystem
