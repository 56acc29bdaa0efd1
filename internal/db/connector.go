package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/retry"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Connection pool configuration constants
const (
	// The pipeline works on one connection; a second serves the maintenance queries.
	DefaultMaxConns = 2

	DefaultMinConns = 1

	// Large loads hold the connection for a long time.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Option configures a connector.
type Option func(*options)

type options struct {
	logger      sparkify.Logger
	maxAttempts int
}

// WithLogger routes server notices and retry messages to logger.
func WithLogger(logger sparkify.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxAttempts sets how many times a transient connection failure is retried.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

func newOptions(opts []Option) options {
	o := options{
		logger:      logging.NewNullLogger(),
		maxAttempts: sparkify.DefaultRetryMaxAttempts,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) executor() *retry.Executor {
	strategy := retry.NewExponentialBackoff(o.maxAttempts,
		retry.WithInitialDelay(sparkify.DefaultRetryInitialDelay),
		retry.WithMaxDelay(sparkify.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			o.logger.Verbose("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})
}

func (o options) configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		o.logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector connects with username/password, retrying transient failures.
type StandardConnector struct {
	config        *sparkify.ConnectionConfig
	opts          options
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *sparkify.ConnectionConfig, opts ...Option) *StandardConnector {
	o := newOptions(opts)
	return &StandardConnector{
		config:        config,
		opts:          o,
		retryExecutor: o.executor(),
	}
}

// Connect opens and pings a pool.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return openPool(ctx, c.retryExecutor, c.opts, c.config, func(context.Context) (string, error) {
		return BuildConnectionString(c.config), nil
	})
}

// openPool runs one attempt per executor iteration: build the DSN, open, ping.
func openPool(ctx context.Context, exec *retry.Executor, o options, cfg *sparkify.ConnectionConfig, dsn func(context.Context) (string, error)) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := exec.Execute(ctx, func(ctx context.Context) error {
		connStr, err := dsn(ctx)
		if err != nil {
			return err
		}

		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}
		o.configurePool(poolConfig)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, cfg.Host, cfg.Port, cfg.Database)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sparkify.ErrConnectionFailed, err)
	}
	return pool, nil
}

// NewConnector creates the Connector matching config.AuthMethod.
func NewConnector(config *sparkify.ConnectionConfig, opts ...Option) (sparkify.Connector, error) {
	switch config.AuthMethod {
	case sparkify.AuthMethodStandard:
		return NewStandardConnector(config, opts...), nil
	case sparkify.AuthMethodAWSIAM:
		return newAWSConnector(config, opts)
	case sparkify.AuthMethodGoogleIAM:
		return newGoogleConnector(config, opts)
	case sparkify.AuthMethodAzureEntraID:
		return newAzureConnector(config, opts)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, sparkify.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port ($SPARKIFY_DB_HOST, $PGHOST, -h, -p)

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host "%s"

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password ($SPARKIFY_DB_PASSWORD, $PGPASSWORD or ~/.pgpass)
  - Wrong username ($SPARKIFY_DB_USER, -U)

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  sparkify init

Original error: %w`, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Original error: %w`, addr, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

func newAWSConnector(config *sparkify.ConnectionConfig, opts []Option) (sparkify.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sparkify.ErrInvalidConfig, err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", opts...), nil
}

func newGoogleConnector(config *sparkify.ConnectionConfig, opts []Option) (sparkify.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("%w: Google Cloud SQL IAM auth requires --google-instance (project:region:instance)", sparkify.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("%w: Google Cloud SQL IAM auth requires username (-U)", sparkify.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, opts...), nil
}

// newAzureConnector uses Service Principal auth when tenant, client and secret
// are all known, DefaultAzureCredential otherwise.
func newAzureConnector(config *sparkify.ConnectionConfig, opts []Option) (sparkify.Connector, error) {
	var (
		tokenProvider TokenProvider
		err           error
	)

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sparkify.ErrInvalidConfig, err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", opts...), nil
}
