package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockApprover struct {
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, dbName string) (bool, error) {
	m.asked = append(m.asked, dbName)
	return m.approved, m.err
}

type mockDatabaseManager struct {
	existsResult bool
	existsErr    error
	createErr    error
	dropErr      error
	terminateErr error
	calls        []string
}

func (m *mockDatabaseManager) Exists(_ context.Context, _ sparkify.DBConnection, _ string) (bool, error) {
	m.calls = append(m.calls, "exists")
	return m.existsResult, m.existsErr
}

func (m *mockDatabaseManager) Create(_ context.Context, _ sparkify.DBConnection, _ string) error {
	m.calls = append(m.calls, "create")
	return m.createErr
}

func (m *mockDatabaseManager) Drop(_ context.Context, _ sparkify.DBConnection, _ string) error {
	m.calls = append(m.calls, "drop")
	return m.dropErr
}

func (m *mockDatabaseManager) TerminateConnections(_ context.Context, _ sparkify.DBConnection, _ string) error {
	m.calls = append(m.calls, "terminate")
	return m.terminateErr
}

type mockDBConnection struct{}

func (m *mockDBConnection) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockDBConnection) QueryRow(_ context.Context, _ string, _ ...any) sparkify.Row {
	return nil
}

func (m *mockDBConnection) Acquire(_ context.Context) (sparkify.PooledConnection, error) {
	return nil, nil
}

type mockLocator struct {
	paths []string
	err   error
}

func (m *mockLocator) Locate(_, _ string) ([]string, error) {
	return m.paths, m.err
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}
