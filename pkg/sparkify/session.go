package sparkify

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Session owns the pool and the single connection a command works on.
//
// Every component that touches the database receives the session's connection
// explicitly; nothing holds a package-level handle. Close is idempotent and
// is deferred by the caller right after the session is created, so resources
// are released on success and failure alike.
//
// Thread-Safety: NOT safe for concurrent use.
//
// Example usage:
//
//	session, err := db.OpenSession(ctx, connector)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
}

// NewSession creates a new Session instance.
//
// Panics if pool or conn is nil.
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{
		pool: pool,
		conn: conn,
	}
}

// Pool returns the connection pool for the session.
func (s *Session) Pool() *pgxpool.Pool {
	return s.pool
}

// Conn returns the acquired connection all statements of the session run on.
func (s *Session) Conn() *pgxpool.Conn {
	return s.conn
}

// Close releases the connection, then closes the pool.
// Safe to call multiple times.
func (s *Session) Close() error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return nil
}
