package loader_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/internal/loader"
	"github.com/vvka-141/sparkify/internal/schema"
	testhelpers "github.com/vvka-141/sparkify/internal/testing"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

func setup(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := testhelpers.NewTestDatabase(t)
	require.NoError(t, schema.Reset(context.Background(), pool))
	return pool
}

func TestUpsertUser_LastWriteWins_Integration(t *testing.T) {
	pool := setup(t)
	ctx := context.Background()
	l := loader.New()

	require.NoError(t, l.UpsertUser(ctx, pool, sparkify.User{ID: 15, FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "free"}))
	require.NoError(t, l.UpsertUser(ctx, pool, sparkify.User{ID: 15, FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "paid"}))

	var level string
	require.NoError(t, pool.QueryRow(ctx, "SELECT level FROM users WHERE user_id = 15").Scan(&level))
	assert.Equal(t, "paid", level)
	assert.Equal(t, 1, testhelpers.Count(t, pool, "users"))
}

func TestUpsertSong_FirstWriteWins_Integration(t *testing.T) {
	pool := setup(t)
	ctx := context.Background()
	l := loader.New()

	require.NoError(t, l.UpsertSong(ctx, pool, sparkify.Song{ID: "SOAAA", Title: "T1", ArtistID: "ARBBB", Year: 2000, Duration: 200.5}))
	require.NoError(t, l.UpsertSong(ctx, pool, sparkify.Song{ID: "SOAAA", Title: "changed", ArtistID: "ARBBB", Year: 2001, Duration: 1}))

	var title string
	require.NoError(t, pool.QueryRow(ctx, "SELECT title FROM songs WHERE song_id = 'SOAAA'").Scan(&title))
	assert.Equal(t, "T1", title)
}

func TestLookupSongArtist_Integration(t *testing.T) {
	pool := setup(t)
	ctx := context.Background()
	l := loader.New()

	require.NoError(t, l.UpsertSong(ctx, pool, sparkify.Song{ID: "SOAAA", Title: "T1", ArtistID: "ARBBB", Year: 2000, Duration: 200.5}))
	require.NoError(t, l.UpsertArtist(ctx, pool, sparkify.Artist{ID: "ARBBB", Name: "A1"}))

	match, err := l.LookupSongArtist(ctx, pool, "T1", "A1", 200.505)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "SOAAA", match.SongID)
	assert.Equal(t, "ARBBB", match.ArtistID)

	miss, err := l.LookupSongArtist(ctx, pool, "T1", "A1", 210)
	require.NoError(t, err)
	assert.Nil(t, miss)

	exact := loader.New(loader.WithDurationTolerance(0))
	miss, err = exact.LookupSongArtist(ctx, pool, "T1", "A1", 200.505)
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestInsertSongplayAndCounts_Integration(t *testing.T) {
	pool := setup(t)
	ctx := context.Background()
	l := loader.New()
	start := time.Date(2018, 11, 2, 1, 25, 34, 796_000_000, time.UTC)

	_, err := l.InsertSongplay(ctx, pool, sparkify.Songplay{StartTime: start, UserID: 15, Level: "paid", SessionID: 172})
	require.NoError(t, err)
	_, err = l.InsertSongplay(ctx, pool, sparkify.Songplay{StartTime: start, UserID: 15, Level: "paid", SessionID: 172})
	require.NoError(t, err)

	counts, err := l.Counts(ctx, pool)
	require.NoError(t, err)
	assert.Equal(t, 2, counts["songplays"])
	assert.Equal(t, 0, counts["songs"])
}
