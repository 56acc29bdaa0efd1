package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/internal/db/manager"
	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/loader"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/pipeline"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ConnectorFactory builds the Connector for a connection config.
type ConnectorFactory func(*sparkify.ConnectionConfig) (sparkify.Connector, error)

type managementDBConnFunc func(ctx context.Context, connConfig *sparkify.ConnectionConfig, dbName string) (sparkify.DBConnection, func(), error)

type sessionOpenerFunc func(ctx context.Context, connConfig *sparkify.ConnectionConfig) (*sparkify.Session, error)

// LoadSummary holds the results of the song run and the log run.
type LoadSummary struct {
	Songs pipeline.Result
	Logs  pipeline.Result
}

// Service runs init, load and stats against the sparkifydb database.
// Thread-Safety: NOT safe for concurrent use.
type Service struct {
	connectorFactory ConnectorFactory
	approver         sparkify.Approver
	logger           sparkify.Logger
	dbManager        sparkify.DatabaseManager
	locator          sparkify.FileLocator
	files            filesystem.FileSystemProvider
	mgmtConnector    managementDBConnFunc
	openSession      sessionOpenerFunc
}

// NewService creates a Service with all dependencies injected.
// Panics on nil dependencies; runtime failures are returned as errors.
func NewService(
	connectorFactory ConnectorFactory,
	approver sparkify.Approver,
	logger sparkify.Logger,
	dbManager sparkify.DatabaseManager,
	locator sparkify.FileLocator,
	files filesystem.FileSystemProvider,
) *Service {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if dbManager == nil {
		panic("dbManager cannot be nil")
	}
	if locator == nil {
		panic("locator cannot be nil")
	}
	if files == nil {
		panic("files cannot be nil")
	}

	svc := &Service{
		connectorFactory: connectorFactory,
		approver:         approver,
		logger:           logger,
		dbManager:        dbManager,
		locator:          locator,
		files:            files,
	}
	svc.mgmtConnector = svc.defaultMgmtConnector
	svc.openSession = svc.defaultSessionOpener
	return svc
}

func (s *Service) defaultMgmtConnector(ctx context.Context, connConfig *sparkify.ConnectionConfig, dbName string) (sparkify.DBConnection, func(), error) {
	mgmtConfig := *connConfig
	mgmtConfig.Database = dbName

	connector, err := s.connectorFactory(&mgmtConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to management database: %w", err)
	}

	return db.NewPoolAdapter(pool), pool.Close, nil
}

func (s *Service) defaultSessionOpener(ctx context.Context, connConfig *sparkify.ConnectionConfig) (*sparkify.Session, error) {
	targetConfig := *connConfig
	targetConfig.Database = sparkify.DatabaseName

	connector, err := s.connectorFactory(&targetConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	return db.OpenSession(ctx, connector)
}

// Init drops and recreates every table. With RecreateDatabase the database
// itself is dropped and created first, after approval.
func (s *Service) Init(ctx context.Context, connConfig *sparkify.ConnectionConfig, config sparkify.InitConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	managementDB := config.MaintenanceDatabase
	if managementDB == "" {
		managementDB = sparkify.DefaultManagementDB
	}

	if config.RecreateDatabase {
		if err := s.recreateDatabase(ctx, connConfig, managementDB); err != nil {
			return fmt.Errorf("recreate database workflow failed: %w", err)
		}
	} else if err := s.ensureDatabaseExists(ctx, connConfig, managementDB); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	session, err := s.openSession(ctx, connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	s.logger.Verbose("Dropping and creating tables: %s", strings.Join(schema.Names(), ", "))
	if err := schema.Reset(ctx, session.Conn()); err != nil {
		return err
	}

	s.logger.Info("✓ Tables created in database '%s'", sparkify.DatabaseName)
	return nil
}

// Load prepares the schema, then loads the song tree and the log tree.
// A nil reporter logs progress through the service logger.
func (s *Service) Load(ctx context.Context, connConfig *sparkify.ConnectionConfig, config sparkify.LoadConfig, reporter sparkify.ProgressReporter) (LoadSummary, error) {
	if err := config.Validate(); err != nil {
		return LoadSummary{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if reporter == nil {
		reporter = logging.NewProgressLogger(s.logger)
	}

	s.logger.Verbose("Song data: %s", config.SongDataPath)
	s.logger.Verbose("Log data: %s", config.LogDataPath)

	session, err := s.openSession(ctx, connConfig)
	if err != nil {
		return LoadSummary{}, err
	}
	defer session.Close()

	if config.KeepSchema {
		s.logger.Verbose("Creating missing tables")
		err = schema.Create(ctx, session.Conn())
	} else {
		s.logger.Verbose("Dropping and creating tables")
		err = schema.Reset(ctx, session.Conn())
	}
	if err != nil {
		return LoadSummary{}, err
	}

	driver := pipeline.NewDriver(
		s.locator,
		s.files,
		loader.New(loader.WithDurationTolerance(config.DurationTolerance)),
		s.logger,
		reporter,
		pipeline.WithPattern(config.Pattern),
	)

	songs, logs, err := driver.Load(ctx, session.Conn(), config.SongDataPath, config.LogDataPath)
	summary := LoadSummary{Songs: songs, Logs: logs}
	if err != nil {
		return summary, err
	}

	s.logger.Info("✓ Loaded %d song files and %d log files (%d songplays, %d matched)",
		songs.Processed, logs.Processed, logs.Songplays, logs.Matched)
	return summary, nil
}

// Stats returns the row count of every table.
func (s *Service) Stats(ctx context.Context, connConfig *sparkify.ConnectionConfig) (map[string]int, error) {
	session, err := s.openSession(ctx, connConfig)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return loader.New().Counts(ctx, session.Conn())
}

func validateRecreateTarget(managementDB string) error {
	if strings.EqualFold(sparkify.DatabaseName, managementDB) {
		return fmt.Errorf(
			"cannot recreate database %q while connected to it for server-level operations; choose another maintenance database: %w",
			sparkify.DatabaseName, sparkify.ErrInvalidConfig,
		)
	}
	return nil
}

// recreateDatabase drops and creates sparkifydb. Approval is requested only
// when the database already exists.
func (s *Service) recreateDatabase(ctx context.Context, connConfig *sparkify.ConnectionConfig, managementDB string) error {
	if err := validateRecreateTarget(managementDB); err != nil {
		return err
	}

	s.logger.Verbose("Connecting to management database '%s'", managementDB)

	dbConn, cleanup, err := s.mgmtConnector(ctx, connConfig, managementDB)
	if err != nil {
		return err
	}
	defer cleanup()

	exists, err := s.dbManager.Exists(ctx, dbConn, sparkify.DatabaseName)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		s.logger.Verbose("Database '%s' exists. Requesting approval to recreate it.", sparkify.DatabaseName)
		approved, err := s.approver.RequestApproval(ctx, sparkify.DatabaseName)
		if err != nil {
			return fmt.Errorf("approval request failed: %w", err)
		}
		if !approved {
			return sparkify.ErrApprovalDenied
		}
	}

	s.logger.Verbose("Recreating database '%s'", sparkify.DatabaseName)
	if err := manager.Recreate(ctx, s.dbManager, dbConn, sparkify.DatabaseName); err != nil {
		return fmt.Errorf("failed to recreate database: %w", err)
	}

	s.logger.Info("✓ Database '%s' recreated", sparkify.DatabaseName)
	return nil
}

func (s *Service) ensureDatabaseExists(ctx context.Context, connConfig *sparkify.ConnectionConfig, managementDB string) error {
	s.logger.Verbose("Connecting to management database '%s' to check if '%s' exists", managementDB, sparkify.DatabaseName)

	dbConn, cleanup, err := s.mgmtConnector(ctx, connConfig, managementDB)
	if err != nil {
		return err
	}
	defer cleanup()

	exists, err := s.dbManager.Exists(ctx, dbConn, sparkify.DatabaseName)
	if err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		s.logger.Info("Database '%s' does not exist. Creating...", sparkify.DatabaseName)
		if err := s.dbManager.Create(ctx, dbConn, sparkify.DatabaseName); err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
	} else {
		s.logger.Verbose("Database '%s' already exists", sparkify.DatabaseName)
	}
	return nil
}
