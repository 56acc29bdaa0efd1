// Package scanner discovers data files below a root directory.
//
// A file qualifies when its base name matches a glob pattern such as
// "*.json". Results are absolute paths sorted lexicographically, so the
// processing order is the same on every run.
package scanner
