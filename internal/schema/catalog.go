// Package schema declares the star schema's tables and applies their DDL.
package schema

// Table is one relation of the star schema with its DDL.
type Table struct {
	Name   string
	Create string
	Drop   string
}

// Fact table.
var Songplays = Table{
	Name: "songplays",
	Create: `CREATE TABLE IF NOT EXISTS songplays (
    songplay_id VARCHAR,
    start_time  TIMESTAMP NOT NULL,
    user_id     INT NOT NULL,
    level       VARCHAR,
    song_id     VARCHAR,
    artist_id   VARCHAR,
    session_id  INT NOT NULL,
    location    VARCHAR,
    user_agent  VARCHAR,
    PRIMARY KEY (songplay_id, user_id, session_id)
)`,
	Drop: "DROP TABLE IF EXISTS songplays",
}

// Dimension tables.
var (
	Users = Table{
		Name: "users",
		Create: `CREATE TABLE IF NOT EXISTS users (
    user_id    INT PRIMARY KEY,
    first_name VARCHAR,
    last_name  VARCHAR,
    gender     CHAR(1),
    level      VARCHAR
)`,
		Drop: "DROP TABLE IF EXISTS users",
	}

	Songs = Table{
		Name: "songs",
		Create: `CREATE TABLE IF NOT EXISTS songs (
    song_id   VARCHAR PRIMARY KEY,
    title     VARCHAR,
    artist_id VARCHAR,
    year      SMALLINT,
    duration  DOUBLE PRECISION
)`,
		Drop: "DROP TABLE IF EXISTS songs",
	}

	Artists = Table{
		Name: "artists",
		Create: `CREATE TABLE IF NOT EXISTS artists (
    artist_id VARCHAR PRIMARY KEY,
    name      VARCHAR,
    location  VARCHAR,
    latitude  DOUBLE PRECISION,
    longitude DOUBLE PRECISION
)`,
		Drop: "DROP TABLE IF EXISTS artists",
	}

	Time = Table{
		Name: "time",
		Create: `CREATE TABLE IF NOT EXISTS time (
    start_time TIMESTAMP PRIMARY KEY,
    hour       SMALLINT,
    day        SMALLINT,
    week       SMALLINT,
    month      SMALLINT,
    year       SMALLINT,
    weekday    SMALLINT
)`,
		Drop: "DROP TABLE IF EXISTS time",
	}
)

// Tables returns the catalog in creation order. No foreign keys are declared,
// so the order carries no dependency; teardown uses the reverse.
func Tables() []Table {
	return []Table{Songplays, Users, Songs, Artists, Time}
}

// CreateStatements returns the CREATE TABLE statements in creation order.
func CreateStatements() []string {
	tables := Tables()
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		stmts = append(stmts, t.Create)
	}
	return stmts
}

// DropStatements returns the DROP TABLE statements in teardown order.
func DropStatements() []string {
	tables := Tables()
	stmts := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, tables[i].Drop)
	}
	return stmts
}

// Names returns the table names in creation order.
func Names() []string {
	tables := Tables()
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}
	return names
}
