package manager

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

const (
	queryDatabaseExists       = "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	queryTerminateConnections = `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
)

// Manager implements database lifecycle operations using the DBConnection abstraction.
type Manager struct{}

// New creates a new DatabaseManager instance.
func New() sparkify.DatabaseManager {
	return &Manager{}
}

// Exists checks if a database exists.
func (m *Manager) Exists(ctx context.Context, conn sparkify.DBConnection, dbName string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, queryDatabaseExists, dbName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check database existence: %w", err)
	}
	return exists, nil
}

// Create creates a UTF8 database from template0.
func (m *Manager) Create(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooledConn.Release()

	query := fmt.Sprintf("CREATE DATABASE %s WITH ENCODING 'utf8' TEMPLATE template0", pgx.Identifier{dbName}.Sanitize())
	if _, err = pooledConn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbName, err)
	}
	return nil
}

// Drop drops the specified database if it exists.
func (m *Manager) Drop(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	pooledConn, err := conn.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer pooledConn.Release()

	query := fmt.Sprintf("DROP DATABASE IF EXISTS %s", pgx.Identifier{dbName}.Sanitize())
	if _, err = pooledConn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to drop database %q: %w", dbName, err)
	}
	return nil
}

// TerminateConnections terminates all connections to the specified database.
func (m *Manager) TerminateConnections(ctx context.Context, conn sparkify.DBConnection, dbName string) error {
	_, err := conn.Exec(ctx, queryTerminateConnections, dbName)
	if err != nil {
		return fmt.Errorf("failed to terminate connections to database %q: %w", dbName, err)
	}
	return nil
}

// Recreate terminates other sessions on dbName, drops it and creates it empty.
func Recreate(ctx context.Context, mgr sparkify.DatabaseManager, conn sparkify.DBConnection, dbName string) error {
	exists, err := mgr.Exists(ctx, conn, dbName)
	if err != nil {
		return err
	}
	if exists {
		if err := mgr.TerminateConnections(ctx, conn, dbName); err != nil {
			return err
		}
		if err := mgr.Drop(ctx, conn, dbName); err != nil {
			return err
		}
	}
	return mgr.Create(ctx, conn, dbName)
}

var _ sparkify.DatabaseManager = (*Manager)(nil)
