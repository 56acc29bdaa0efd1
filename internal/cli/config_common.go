package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/internal/db"
	"github.com/vvka-141/sparkify/internal/db/manager"
	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/files/scanner"
	"github.com/vvka-141/sparkify/internal/services"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// loadProjectConfig loads .env and the project file.
// Returns nil config if sparkify.yaml does not exist (not an error).
// An explicit --config path must exist.
func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if configPath != "" {
		projectCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load %s: %v", sparkify.ErrInvalidConfig, configPath, err)
		}
		return projectCfg, nil
	}

	projectCfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to load %s: %v", sparkify.ErrInvalidConfig, config.ConfigFileName, err)
	}
	return projectCfg, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring sparkify.yaml if flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		return flagTimeout, nil
	}
	timeout, err := projectCfg.TimeoutDuration()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", sparkify.ErrInvalidConfig, err)
	}
	if timeout == 0 {
		return flagTimeout, nil
	}
	return timeout, nil
}

// firstNonEmpty picks the flag value, then the project file value, then the default.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// commandContext returns a context cancelled on SIGINT/SIGTERM and, when
// timeout is positive, after timeout.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// newService wires the production dependencies of a services.Service.
func newService(approver sparkify.Approver, logger sparkify.Logger) *services.Service {
	connectorFactory := func(cfg *sparkify.ConnectionConfig) (sparkify.Connector, error) {
		return db.NewConnector(cfg, db.WithLogger(logger))
	}
	fs := filesystem.NewOSFileSystem()
	return services.NewService(
		connectorFactory,
		approver,
		logger,
		manager.New(),
		scanner.NewLocatorWithFS(fs),
		fs,
	)
}
