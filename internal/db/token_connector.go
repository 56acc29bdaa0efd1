package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/sparkify/internal/retry"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// TokenProvider acquires a short-lived token that is used as the PostgreSQL password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. Must not include secrets.
	String() string
}

// TokenBasedConnector connects with a cloud IAM token (AWS IAM, Azure Entra ID).
// A fresh token is requested for every connection attempt.
type TokenBasedConnector struct {
	config        *sparkify.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	opts          options
	retryExecutor *retry.Executor
}

// NewTokenBasedConnector creates a connector that authenticates through tokenProvider.
// providerName appears in error and warning messages (e.g. "AWS IAM").
func NewTokenBasedConnector(config *sparkify.ConnectionConfig, tokenProvider TokenProvider, providerName string, opts ...Option) *TokenBasedConnector {
	o := newOptions(opts)
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		opts:          o,
		retryExecutor: o.executor(),
	}
}

// Connect opens and pings a pool using a freshly acquired token.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	c.opts.logger.Verbose("Authenticating with %s", c.tokenProvider)

	return openPool(ctx, c.retryExecutor, c.opts, c.config, func(ctx context.Context) (string, error) {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}
		if remaining := time.Until(expiresOn); remaining < 5*time.Minute {
			c.opts.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
		}

		withToken := *c.config
		withToken.Password = token
		return BuildConnectionString(&withToken), nil
	})
}

var _ sparkify.Connector = (*TokenBasedConnector)(nil)
