// Package pipeline drives a load run over one data tree.
//
// A run discovers the files below its root, then handles them one at a time:
// read, extract, load, commit. Each file gets its own transaction, so a
// failure rolls back only the file being processed; files committed before
// it stay in the database and the run stops.
//
//	Discovering -> Processing[i] -> Committing[i] -> Processing[i+1] ... -> Done
//
// Progress is reported through sparkify.ProgressReporter after discovery and
// after every commit.
package pipeline
