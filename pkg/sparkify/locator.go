package sparkify

// FileLocator discovers data files under a root directory.
type FileLocator interface {
	// Locate returns the absolute paths of all files below root whose base name
	// matches pattern, in lexicographic order. An empty result is not an error.
	Locate(root, pattern string) ([]string, error)
}
