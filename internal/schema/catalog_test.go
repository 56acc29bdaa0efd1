package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTables_Order(t *testing.T) {
	assert.Equal(t, []string{"songplays", "users", "songs", "artists", "time"}, Names())
}

func TestDropStatements_ReverseOrder(t *testing.T) {
	drops := DropStatements()
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS time",
		"DROP TABLE IF EXISTS artists",
		"DROP TABLE IF EXISTS songs",
		"DROP TABLE IF EXISTS users",
		"DROP TABLE IF EXISTS songplays",
	}, drops)
}

func TestCreateStatements_Idempotent(t *testing.T) {
	for i, stmt := range CreateStatements() {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS "+Names()[i]+" ("), stmt)
	}
}

func TestSongplays_CompositeKey(t *testing.T) {
	assert.Contains(t, Songplays.Create, "PRIMARY KEY (songplay_id, user_id, session_id)")
	assert.Contains(t, Songplays.Create, "song_id     VARCHAR,")
}
