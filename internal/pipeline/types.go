package pipeline

import "fmt"

// Mode selects how the files of a run are interpreted.
type Mode int

const (
	// SongMode loads song metadata files into songs and artists.
	SongMode Mode = iota
	// LogMode loads activity logs into time, users and songplays.
	LogMode
)

func (m Mode) String() string {
	switch m {
	case SongMode:
		return "song"
	case LogMode:
		return "log"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// State is the position of the driver within a run.
type State int

const (
	StateIdle State = iota
	StateDiscovering
	StateProcessing
	StateCommitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateProcessing:
		return "processing"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Run describes one pass over a data tree.
type Run struct {
	Mode Mode
	Root string

	// Pattern overrides the driver's file pattern when set
	Pattern string
}

// Result summarizes a run. Row counts are statements issued, including
// conflicting inserts the database ignored.
type Result struct {
	Mode      Mode
	Root      string
	Files     int
	Processed int

	Songs   int
	Artists int

	Events    int
	Skipped   int
	TimeRows  int
	Users     int
	Songplays int
	Matched   int
}
