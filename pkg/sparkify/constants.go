package sparkify

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied database recreation
	ExitSchemaError     = 13 // DDL failed
	ExitFileSystemError = 14 // Data root missing or unreadable
	ExitMalformedRecord = 15 // Input file could not be parsed
	ExitLoadFailed      = 16 // SQL failed while loading rows
)

const (
	// DatabaseName is the fixed name of the analytics database.
	DatabaseName = "sparkifydb"

	// DefaultManagementDB is the default database to connect to for CREATE/DROP DATABASE.
	DefaultManagementDB = "postgres"

	// DefaultSongDataPath is the song metadata root, relative to the working directory.
	DefaultSongDataPath = "data/song_data"

	// DefaultLogDataPath is the activity log root, relative to the working directory.
	DefaultLogDataPath = "data/log_data"

	// DefaultFilePattern selects data files by base name.
	DefaultFilePattern = "*.json"

	// DefaultDurationTolerance is the window, in seconds, within which a log event's
	// track length matches a song's duration.
	DefaultDurationTolerance = 0.01

	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection attempts.
	DefaultRetryMaxAttempts = 3

	// NextSongPage is the page value of a log event that records a played track.
	NextSongPage = "NextSong"
)
