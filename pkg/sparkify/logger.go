package sparkify

// Logger receives the human-readable output of init, load and stats runs.
// Messages are printf-style. Implementations must be safe for concurrent use.
type Logger interface {
	// Verbose logs per-file and per-connection detail, shown only with --verbose.
	Verbose(format string, args ...interface{})

	Info(format string, args ...interface{})

	Error(format string, args ...interface{})
}
