package extract

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

func nextSong(userID any, level string, ts int64) string {
	uid := fmt.Sprintf("%v", userID)
	if s, ok := userID.(string); ok {
		uid = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`{"artist":"A1","auth":"Logged In","firstName":"Lily","gender":"F","itemInSession":0,"lastName":"Koch","length":200.5,"level":%q,"location":"Chicago, IL","method":"PUT","page":"NextSong","registration":1541048010796.0,"sessionId":172,"song":"T1","status":200,"ts":%d,"userAgent":"Mozilla/5.0","userId":%s}`, level, ts, uid)
}

const homeEvent = `{"artist":null,"auth":"Logged Out","firstName":null,"gender":null,"itemInSession":0,"lastName":null,"length":null,"level":"free","location":null,"method":"GET","page":"Home","registration":null,"sessionId":52,"song":null,"status":200,"ts":1541207073796,"userAgent":null,"userId":""}`

func TestParseLogFile(t *testing.T) {
	content := strings.Join([]string{
		nextSong("15", "free", 1541121934796),
		homeEvent,
		"",
		nextSong(15, "paid", 1541121934797),
	}, "\n")

	batch, err := ParseLogFile("/data/log.json", []byte(content))
	require.NoError(t, err)
	require.Len(t, batch.Events, 2)
	assert.Equal(t, 1, batch.Skipped)

	first := batch.Events[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 15, first.UserID)
	assert.Equal(t, "T1", first.Song)
	assert.Equal(t, "A1", first.Artist)
	assert.Equal(t, 200.5, first.Length)
	assert.Equal(t, 172, first.SessionID)
	assert.Equal(t, sparkify.User{ID: 15, FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "free"}, first.User())

	assert.Equal(t, 4, batch.Events[1].Line)
	assert.Equal(t, "paid", batch.Events[1].Level)
}

func TestParseLogFile_EventFiltering(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		if i%5 < 3 {
			lines = append(lines, nextSong(i+1, "free", int64(1541121934796+i)))
		} else {
			lines = append(lines, homeEvent)
		}
	}

	batch, err := ParseLogFile("log.json", []byte(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Len(t, batch.Events, 6)
	assert.Equal(t, 4, batch.Skipped)
}

func TestParseLogFile_Empty(t *testing.T) {
	batch, err := ParseLogFile("log.json", []byte("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, batch.Events)
	assert.Zero(t, batch.Skipped)
}

func TestParseLogFile_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		reason  string
	}{
		{"invalid json", nextSong(1, "free", 1) + "\n{oops", 2, "invalid JSON"},
		{"missing page", `{"ts":1}`, 1, `"page"`},
		{"missing ts", `{"page":"Home"}`, 1, `"ts"`},
		{"empty user id", strings.Replace(nextSong(1, "free", 1), `"userId":1`, `"userId":""`, 1), 1, `"userId" must not be empty`},
		{"missing song", strings.Replace(nextSong(1, "free", 1), `"song":"T1",`, "", 1), 1, `"song"`},
		{"null length", strings.Replace(nextSong(1, "free", 1), `"length":200.5`, `"length":null`, 1), 1, `"length"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLogFile("/data/log.json", []byte(tt.content))

			var mre *sparkify.MalformedRecordError
			require.ErrorAs(t, err, &mre)
			assert.Equal(t, tt.line, mre.Line)
			assert.Contains(t, mre.Reason, tt.reason)
			assert.Contains(t, err.Error(), fmt.Sprintf("line %d", tt.line))
		})
	}
}

func TestEvent_Songplay(t *testing.T) {
	e := Event{Timestamp: 1541121934796, UserID: 15, Level: "paid", SessionID: 172, Location: "Chicago, IL", UserAgent: "Mozilla/5.0"}
	songID, artistID := "SOAAA", "ARBBB"

	sp := e.Songplay("id-1", &songID, &artistID)
	assert.Equal(t, "id-1", sp.ID)
	assert.Equal(t, time.Date(2018, 11, 2, 1, 25, 34, 796_000_000, time.UTC), sp.StartTime)
	assert.Equal(t, 15, sp.UserID)
	assert.Equal(t, "paid", sp.Level)
	assert.Equal(t, &songID, sp.SongID)
	assert.Equal(t, 172, sp.SessionID)

	miss := e.Songplay("id-2", nil, nil)
	assert.Nil(t, miss.SongID)
	assert.Nil(t, miss.ArtistID)
}
