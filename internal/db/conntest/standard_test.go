//go:build conntest

package conntest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/internal/db/manager"
	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/files/scanner"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/services"
	"github.com/vvka-141/sparkify/internal/ui"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

const (
	songFile = `{"num_songs":1,"artist_id":"ARD7TVE1187B99BFB1","artist_latitude":null,"artist_longitude":null,"artist_location":"California - LA","artist_name":"Casual","song_id":"SOMZWCG12A8C13C480","title":"I Didn't Mean To","duration":218.93179,"year":0}`
	logFile  = `{"artist":"Casual","auth":"Logged In","firstName":"Walter","gender":"M","itemInSession":0,"lastName":"Frye","length":218.93179,"level":"free","location":"San Francisco-Oakland-Hayward, CA","method":"PUT","page":"NextSong","registration":1540919166796.0,"sessionId":38,"song":"I Didn't Mean To","status":200,"ts":1541105830796,"userAgent":"Mozilla/5.0","userId":"39"}
{"artist":null,"auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":0,"lastName":"Summers","length":null,"level":"free","location":"Phoenix-Mesa-Scottsdale, AZ","method":"GET","page":"Home","registration":1540344794796.0,"sessionId":139,"song":null,"status":200,"ts":1541106106796,"userAgent":"Mozilla/5.0","userId":"8"}
{"artist":"Des'ree","auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":1,"lastName":"Summers","length":246.30812,"level":"free","location":"Phoenix-Mesa-Scottsdale, AZ","method":"PUT","page":"NextSong","registration":1540344794796.0,"sessionId":139,"song":"You Gotta Be","status":200,"ts":1541106106796,"userAgent":"Mozilla/5.0","userId":"8"}`
)

func TestStandardConnection_UserPassword(t *testing.T) {
	config := parseStdConnString(t)
	pool := connectWithConfig(t, config)
	pingSucceeds(t, pool)

	assert.Contains(t, queryString(t, pool, "SELECT version()"), "PostgreSQL")
}

func TestStandardConnection_WrongPassword(t *testing.T) {
	config := parseStdConnString(t)
	config.Password = "definitely-wrong-password"

	connector, err := db.NewConnector(config, db.WithMaxAttempts(1))
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.True(t,
		strings.Contains(err.Error(), "password") ||
			strings.Contains(err.Error(), "authentication"),
		"error should mention authentication: %v", err)
	assert.Equal(t, sparkify.ExitConnectionError, sparkify.ExitCodeForError(err))
}

func TestStandardConnection_InitLoadStats(t *testing.T) {
	t.Cleanup(func() { dropSparkifyDB(t) })
	ctx := context.Background()

	resolved, err := db.ResolveConnectionParams(stdContainer.ConnString, nil, nil, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)
	require.Equal(t, sparkify.DatabaseName, resolved.Database)

	logger := logging.NewNullLogger()
	fs := filesystem.NewOSFileSystem()
	svc := services.NewService(
		func(cfg *sparkify.ConnectionConfig) (sparkify.Connector, error) { return db.NewConnector(cfg) },
		ui.NewForcedApprover(false),
		logger,
		manager.New(),
		scanner.NewLocatorWithFS(fs),
		fs,
	)

	// sparkifydb does not exist yet: init creates it without approval.
	require.NoError(t, svc.Init(ctx, resolved, sparkify.InitConfig{MaintenanceDatabase: sparkify.DefaultManagementDB}))

	root := writeTree(t, map[string]string{
		"song_data/A/A/B/TRAABJL12903CDCF1A.json": songFile,
		"log_data/2018/11/2018-11-01-events.json": logFile,
	})
	summary, err := svc.Load(ctx, resolved, sparkify.LoadConfig{
		SongDataPath:      filepath.Join(root, "song_data"),
		LogDataPath:       filepath.Join(root, "log_data"),
		DurationTolerance: sparkify.DefaultDurationTolerance,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Logs.Songplays)
	assert.Equal(t, 1, summary.Logs.Matched)
	assert.Equal(t, 1, summary.Logs.Skipped)

	counts, err := svc.Stats(ctx, resolved)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"songplays": 2,
		"users":     2,
		"songs":     1,
		"artists":   1,
		"time":      2,
	}, counts)

	pool := connectWithConfig(t, resolved)
	assert.Equal(t, sparkify.DatabaseName, queryString(t, pool, "SELECT current_database()"))
}
