package extract

import (
	"bufio"
	"bytes"
	"time"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Event is one retained "NextSong" activity event.
type Event struct {
	Line      int
	Timestamp int64 // epoch milliseconds
	UserID    int
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int
	Location  string
	UserAgent string
}

// LogBatch is the result of parsing one log file.
type LogBatch struct {
	// Events holds the NextSong events in file order
	Events []Event

	// Skipped counts well-formed events dropped for their page type
	Skipped int
}

// ParseLogFile parses a newline-delimited JSON log file. Blank lines are ignored.
func ParseLogFile(path string, content []byte) (LogBatch, error) {
	var batch LogBatch

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}

		rec, err := decodeRecord(path, line, text)
		if err != nil {
			return LogBatch{}, err
		}

		page, err := rec.str("page")
		if err != nil {
			return LogBatch{}, err
		}
		if _, err := rec.require("ts"); err != nil {
			return LogBatch{}, err
		}
		if page != sparkify.NextSongPage {
			batch.Skipped++
			continue
		}

		event, err := rec.event()
		if err != nil {
			return LogBatch{}, err
		}
		batch.Events = append(batch.Events, event)
	}
	if err := scanner.Err(); err != nil {
		return LogBatch{}, malformed(path, line+1, "read failed: %v", err)
	}

	return batch, nil
}

func (r *record) event() (Event, error) {
	e := Event{Line: r.line}
	var err error

	if e.Timestamp, err = r.int64("ts"); err != nil {
		return e, err
	}
	if e.UserID, err = r.int("userId"); err != nil {
		return e, err
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"firstName", &e.FirstName},
		{"lastName", &e.LastName},
		{"gender", &e.Gender},
		{"level", &e.Level},
		{"song", &e.Song},
		{"artist", &e.Artist},
		{"location", &e.Location},
		{"userAgent", &e.UserAgent},
	}
	for _, f := range strs {
		if *f.dst, err = r.str(f.key); err != nil {
			return e, err
		}
	}

	if e.Length, err = r.float("length"); err != nil {
		return e, err
	}
	if e.SessionID, err = r.int("sessionId"); err != nil {
		return e, err
	}
	return e, nil
}

// StartTime returns the event instant in UTC.
func (e Event) StartTime() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// Time returns the calendar row for the event.
func (e Event) Time() sparkify.TimeRow {
	return TimeRow(e.Timestamp)
}

// User projects the user row carried by the event.
func (e Event) User() sparkify.User {
	return sparkify.User{
		ID:        e.UserID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Gender:    e.Gender,
		Level:     e.Level,
	}
}

// Songplay builds the fact row. songID and artistID are nil on a lookup miss.
func (e Event) Songplay(id string, songID, artistID *string) sparkify.Songplay {
	return sparkify.Songplay{
		ID:        id,
		StartTime: e.StartTime(),
		UserID:    e.UserID,
		Level:     e.Level,
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: e.SessionID,
		Location:  e.Location,
		UserAgent: e.UserAgent,
	}
}
