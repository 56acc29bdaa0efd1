package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/ui"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Drop and create the sparkifydb tables",
	Long: `Init drops every table of the star schema and creates it again, empty.

The sparkifydb database is created from the maintenance database when it does
not exist. With --recreate-db the database itself is dropped and created again
(UTF8, template0) after you confirm by typing its name.

Examples:
  # Reset the tables
  sparkify init

  # Start from a brand new database
  sparkify init --recreate-db

  # Same, without the prompt (CI)
  sparkify init --recreate-db --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

type initFlagValues struct {
	recreateDB bool
	force      bool
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initFlags.recreateDB, "recreate-db", false,
		"Drop and recreate the sparkifydb database before the tables\n"+
			"Requires interactive confirmation unless --force is used")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false,
		"Skip the confirmation prompt for --recreate-db\n"+
			"A short countdown is shown instead")
}

// buildInitConfig resolves the connection and the init settings.
func buildInitConfig(cmd *cobra.Command, verbose bool) (*sparkify.ConnectionConfig, sparkify.InitConfig, error) {
	projectCfg, err := loadProjectConfig(globalFlags.configPath)
	if err != nil {
		return nil, sparkify.InitConfig{}, err
	}

	connConfig, maintenanceDB, err := resolveConnection(globalFlags, projectCfg, verbose)
	if err != nil {
		return nil, sparkify.InitConfig{}, err
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, globalFlags.timeout)
	if err != nil {
		return nil, sparkify.InitConfig{}, err
	}

	cfg := sparkify.InitConfig{
		RecreateDatabase:    initFlags.recreateDB,
		Force:               initFlags.force,
		MaintenanceDatabase: maintenanceDB,
		Timeout:             timeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, sparkify.InitConfig{}, err
	}
	return connConfig, cfg, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	connConfig, initConfig, err := buildInitConfig(cmd, verbose)
	if err != nil {
		return err
	}

	var approver sparkify.Approver
	if initFlags.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}
	logger := logging.NewConsoleLogger(verbose)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := commandContext(initConfig.Timeout)
	defer cancel()

	if err := newService(approver, logger).Init(ctx, connConfig, initConfig); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nNext step:\n  sparkify load\n")
	return nil
}
