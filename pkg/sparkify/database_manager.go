package sparkify

import (
	"context"
)

// DatabaseManager defines the interface for database management operations.
// Implementations are NOT safe for concurrent use.
type DatabaseManager interface {
	// Exists checks if a database exists.
	Exists(ctx context.Context, conn DBConnection, dbName string) (bool, error)

	// Create creates a new UTF8 database.
	Create(ctx context.Context, conn DBConnection, dbName string) error

	// Drop drops the specified database if it exists.
	Drop(ctx context.Context, conn DBConnection, dbName string) error

	// TerminateConnections terminates all other backends connected to the database.
	TerminateConnections(ctx context.Context, conn DBConnection, dbName string) error
}
