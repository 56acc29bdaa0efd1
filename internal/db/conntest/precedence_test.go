//go:build conntest

package conntest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/internal/db"
)

func TestPrecedence_FlagOverridesEnv(t *testing.T) {
	config := parseStdConnString(t)

	t.Setenv("PGHOST", "unreachable.invalid")
	t.Setenv("PGPASSWORD", config.Password)

	resolved, err := db.ResolveConnectionParams(
		"",
		&db.GranularConnFlags{Host: config.Host, Port: config.Port, Username: config.Username, SSLMode: "disable"},
		nil,
		db.LoadFromEnvironment(),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, config.Host, resolved.Host)

	resolved.Database = config.Database
	pingSucceeds(t, connectWithConfig(t, resolved))
}

func TestPrecedence_SparkifyEnvOverridesPGEnv(t *testing.T) {
	config := parseStdConnString(t)

	t.Setenv("PGHOST", "unreachable.invalid")
	t.Setenv("PGUSER", "nobody")
	t.Setenv("PGPASSWORD", "wrong-password-from-env")
	t.Setenv("SPARKIFY_DB_HOST", config.Host)
	t.Setenv("SPARKIFY_DB_USER", config.Username)
	t.Setenv("SPARKIFY_DB_PASSWORD", config.Password)
	t.Setenv("PGSSLMODE", "disable")

	resolved, err := db.ResolveConnectionParams(
		"",
		&db.GranularConnFlags{Port: config.Port},
		nil,
		db.LoadFromEnvironment(),
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, config.Host, resolved.Host)
	assert.Equal(t, config.Username, resolved.Username)
	assert.Equal(t, config.Password, resolved.Password)

	resolved.Database = config.Database
	pingSucceeds(t, connectWithConfig(t, resolved))
}

func TestPrecedence_DatabaseURLFallback(t *testing.T) {
	config := parseStdConnString(t)

	t.Setenv("DATABASE_URL", stdContainer.ConnString)
	t.Setenv("PGHOST", "unreachable.invalid")

	resolved, err := db.ResolveConnectionParams("", nil, nil, db.LoadFromEnvironment(), nil)
	require.NoError(t, err)
	assert.Equal(t, config.Host, resolved.Host)
	assert.Equal(t, config.Port, resolved.Port)

	resolved.Database = config.Database
	pingSucceeds(t, connectWithConfig(t, resolved))
}
