// Package loader writes typed rows into the star schema.
//
// Every operation runs on a caller-supplied Querier, normally the pgx.Tx of
// the file being processed, so rows become visible only when that file commits.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Querier is the subset of pgx.Tx the loader needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Querier = (pgx.Tx)(nil)

// SongArtist is the resolved identity of a played track.
type SongArtist struct {
	SongID   string
	ArtistID string
}

// Loader issues the insert, upsert and lookup statements.
type Loader struct {
	tolerance float64
	newID     func() string
}

// Option configures a Loader.
type Option func(*Loader)

// WithDurationTolerance sets the lookup window in seconds. Zero requires exact equality.
func WithDurationTolerance(seconds float64) Option {
	return func(l *Loader) {
		if seconds >= 0 {
			l.tolerance = seconds
		}
	}
}

// WithIDGenerator replaces the songplay id generator.
func WithIDGenerator(fn func() string) Option {
	return func(l *Loader) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// New creates a Loader with a UUID v4 id generator and the default tolerance.
func New(opts ...Option) *Loader {
	l := &Loader{
		tolerance: sparkify.DefaultDurationTolerance,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tolerance returns the lookup window in seconds.
func (l *Loader) Tolerance() float64 {
	return l.tolerance
}

// UpsertSong inserts s unless a song with the same id exists.
func (l *Loader) UpsertSong(ctx context.Context, q Querier, s sparkify.Song) error {
	_, err := q.Exec(ctx, songInsert, s.ID, s.Title, s.ArtistID, s.Year, s.Duration)
	return loadError("insert song "+s.ID, err)
}

// UpsertArtist inserts a unless an artist with the same id exists.
func (l *Loader) UpsertArtist(ctx context.Context, q Querier, a sparkify.Artist) error {
	_, err := q.Exec(ctx, artistInsert, a.ID, a.Name, a.Location, a.Latitude, a.Longitude)
	return loadError("insert artist "+a.ID, err)
}

// UpsertUser inserts u or overwrites every column of the existing row.
func (l *Loader) UpsertUser(ctx context.Context, q Querier, u sparkify.User) error {
	_, err := q.Exec(ctx, userUpsert, u.ID, u.FirstName, u.LastName, u.Gender, u.Level)
	return loadError(fmt.Sprintf("upsert user %d", u.ID), err)
}

// UpsertTime inserts t unless a row for the same instant exists.
func (l *Loader) UpsertTime(ctx context.Context, q Querier, t sparkify.TimeRow) error {
	_, err := q.Exec(ctx, timeInsert, t.StartTime, t.Hour, t.Day, t.Week, t.Month, t.Year, t.Weekday)
	return loadError("insert time "+t.StartTime.Format("2006-01-02T15:04:05.000"), err)
}

// LookupSongArtist resolves a played track. A miss returns nil and no error.
func (l *Loader) LookupSongArtist(ctx context.Context, q Querier, title, artistName string, duration float64) (*SongArtist, error) {
	var match SongArtist
	err := q.QueryRow(ctx, songArtistLookup, title, artistName, duration, l.tolerance).Scan(&match.SongID, &match.ArtistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, loadError(fmt.Sprintf("lookup %q by %q", title, artistName), err)
	}
	return &match, nil
}

// InsertSongplay inserts sp, assigning a generated id when sp.ID is empty.
// It returns the id used.
func (l *Loader) InsertSongplay(ctx context.Context, q Querier, sp sparkify.Songplay) (string, error) {
	if sp.ID == "" {
		sp.ID = l.newID()
	}
	_, err := q.Exec(ctx, songplayInsert,
		sp.ID, sp.StartTime, sp.UserID, sp.Level, sp.SongID, sp.ArtistID, sp.SessionID, sp.Location, sp.UserAgent)
	if err != nil {
		return "", loadError("insert songplay "+sp.ID, err)
	}
	return sp.ID, nil
}

// Counts returns the row count of every catalog table.
func (l *Loader) Counts(ctx context.Context, q Querier) (map[string]int, error) {
	counts := make(map[string]int, len(schema.Tables()))
	for _, name := range schema.Names() {
		var n int
		sql := "SELECT count(*) FROM " + pgx.Identifier{name}.Sanitize()
		if err := q.QueryRow(ctx, sql).Scan(&n); err != nil {
			return nil, loadError("count "+name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

func loadError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", sparkify.ErrLoadFailed, op, err)
}
