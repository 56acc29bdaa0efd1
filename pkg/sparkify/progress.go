package sparkify

// ProgressReporter receives the pipeline's progress for one run.
// Calls arrive from the goroutine executing the run, in order:
// Discovered once, Processed once per committed file, Finished once on success.
type ProgressReporter interface {
	Discovered(root string, total int)
	Processed(done, total int, path string)
	Finished(root string, total int)
}
