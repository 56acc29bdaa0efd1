// Package manager creates and drops the analytics database on a PostgreSQL server.
//
// Statements run against a maintenance database (normally "postgres") because
// a database cannot be dropped while connected to it. Identifiers are quoted
// with pgx.Identifier.Sanitize().
//
// # Example Usage
//
//	mgr := manager.New()
//	err := manager.Recreate(ctx, mgr, db.NewPoolAdapter(maintenancePool), sparkify.DatabaseName)
package manager
