package logging

import (
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ProgressLogger reports pipeline progress as log lines:
//
//	71 files found in /data/song_data
//	1/71 files processed.
type ProgressLogger struct {
	logger sparkify.Logger
}

// NewProgressLogger creates a ProgressLogger.
// Panics if logger is nil.
func NewProgressLogger(logger sparkify.Logger) *ProgressLogger {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ProgressLogger{logger: logger}
}

func (p *ProgressLogger) Discovered(root string, total int) {
	p.logger.Info("%d files found in %s", total, root)
}

func (p *ProgressLogger) Processed(done, total int, path string) {
	p.logger.Verbose("Committed %s", path)
	p.logger.Info("%d/%d files processed.", done, total)
}

func (p *ProgressLogger) Finished(root string, total int) {
	p.logger.Verbose("Finished %s (%d files)", root, total)
}

var (
	_ sparkify.Logger           = (*ConsoleLogger)(nil)
	_ sparkify.Logger           = (*NullLogger)(nil)
	_ sparkify.ProgressReporter = (*ProgressLogger)(nil)
)
