// Package logging provides concrete implementations of the sparkify.Logger
// and sparkify.ProgressReporter interfaces.
//
// ConsoleLogger writes through a zap console core to stderr. Informational
// lines are printed bare, diagnostics carry a "[VERBOSE]" prefix and only
// appear with --verbose, errors carry "[ERROR]".
package logging
