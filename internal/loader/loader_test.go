package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

type mockQuerier struct {
	execFunc     func(sql string, args ...any) error
	queryRowFunc func(sql string, args ...any) pgx.Row
	execs        []execCall
}

type execCall struct {
	sql  string
	args []any
}

func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, execCall{sql: sql, args: args})
	if m.execFunc != nil {
		return pgconn.CommandTag{}, m.execFunc(sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFunc != nil {
		return m.queryRowFunc(sql, args...)
	}
	return rowFunc(func(dest ...any) error { return pgx.ErrNoRows })
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func TestNew_Defaults(t *testing.T) {
	l := New()
	assert.Equal(t, sparkify.DefaultDurationTolerance, l.Tolerance())
	assert.Len(t, l.newID(), 36)
}

func TestWithDurationTolerance(t *testing.T) {
	assert.Equal(t, 0.0, New(WithDurationTolerance(0)).Tolerance())
	assert.Equal(t, 0.5, New(WithDurationTolerance(0.5)).Tolerance())
	assert.Equal(t, sparkify.DefaultDurationTolerance, New(WithDurationTolerance(-1)).Tolerance())
}

func TestUpsertUser_OverwritesOnConflict(t *testing.T) {
	q := &mockQuerier{}
	err := New().UpsertUser(context.Background(), q, sparkify.User{ID: 15, FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "paid"})
	require.NoError(t, err)

	require.Len(t, q.execs, 1)
	assert.Contains(t, q.execs[0].sql, "DO UPDATE SET")
	assert.Contains(t, q.execs[0].sql, "level      = EXCLUDED.level")
	assert.Equal(t, []any{15, "Lily", "Koch", "F", "paid"}, q.execs[0].args)
}

func TestUpsertSongAndArtist_DoNothingOnConflict(t *testing.T) {
	q := &mockQuerier{}
	l := New()
	loc := "LA"

	require.NoError(t, l.UpsertSong(context.Background(), q, sparkify.Song{ID: "SOAAA", Title: "T1", ArtistID: "ARBBB", Year: 2000, Duration: 200.5}))
	require.NoError(t, l.UpsertArtist(context.Background(), q, sparkify.Artist{ID: "ARBBB", Name: "A1", Location: &loc}))

	require.Len(t, q.execs, 2)
	assert.Contains(t, q.execs[0].sql, "ON CONFLICT (song_id) DO NOTHING")
	assert.Contains(t, q.execs[1].sql, "ON CONFLICT (artist_id) DO NOTHING")
	assert.Equal(t, &loc, q.execs[1].args[2])
	assert.Nil(t, q.execs[1].args[3])
}

func TestInsertSongplay_AssignsID(t *testing.T) {
	q := &mockQuerier{}
	l := New(WithIDGenerator(func() string { return "fixed-id" }))

	id, err := l.InsertSongplay(context.Background(), q, sparkify.Songplay{StartTime: time.Unix(0, 0).UTC(), UserID: 1, SessionID: 2})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
	assert.Equal(t, "fixed-id", q.execs[0].args[0])

	id, err = l.InsertSongplay(context.Background(), q, sparkify.Songplay{ID: "given"})
	require.NoError(t, err)
	assert.Equal(t, "given", id)
}

func TestLookupSongArtist(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		var gotArgs []any
		q := &mockQuerier{queryRowFunc: func(sql string, args ...any) pgx.Row {
			gotArgs = args
			return rowFunc(func(dest ...any) error {
				*dest[0].(*string) = "SOAAA"
				*dest[1].(*string) = "ARBBB"
				return nil
			})
		}}

		match, err := New(WithDurationTolerance(0.25)).LookupSongArtist(context.Background(), q, "T1", "A1", 200.5)
		require.NoError(t, err)
		assert.Equal(t, &SongArtist{SongID: "SOAAA", ArtistID: "ARBBB"}, match)
		assert.Equal(t, []any{"T1", "A1", 200.5, 0.25}, gotArgs)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		match, err := New().LookupSongArtist(context.Background(), &mockQuerier{}, "T1", "A1", 200.5)
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("query failure", func(t *testing.T) {
		q := &mockQuerier{queryRowFunc: func(string, ...any) pgx.Row {
			return rowFunc(func(...any) error { return errors.New("connection reset") })
		}}
		_, err := New().LookupSongArtist(context.Background(), q, "T1", "A1", 200.5)
		require.ErrorIs(t, err, sparkify.ErrLoadFailed)
	})
}

func TestExecFailure_WrapsLoadFailed(t *testing.T) {
	cause := &pgconn.PgError{Code: "23502", Message: "null value in column"}
	q := &mockQuerier{execFunc: func(string, ...any) error { return cause }}

	err := New().UpsertTime(context.Background(), q, sparkify.TimeRow{StartTime: time.Unix(0, 0).UTC()})
	require.ErrorIs(t, err, sparkify.ErrLoadFailed)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23502", pgErr.Code)
}

func TestCounts(t *testing.T) {
	var queries []string
	q := &mockQuerier{queryRowFunc: func(sql string, args ...any) pgx.Row {
		queries = append(queries, sql)
		return rowFunc(func(dest ...any) error {
			*dest[0].(*int) = len(queries)
			return nil
		})
	}}

	counts, err := New().Counts(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"songplays": 1, "users": 2, "songs": 3, "artists": 4, "time": 5}, counts)
	assert.Equal(t, `SELECT count(*) FROM "time"`, queries[4])
}
