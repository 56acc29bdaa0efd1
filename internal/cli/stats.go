package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/internal/tui"
	"github.com/vvka-141/sparkify/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the row count of every table",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(globalFlags.configPath)
	if err != nil {
		return err
	}
	connConfig, _, err := resolveConnection(globalFlags, projectCfg, verbose)
	if err != nil {
		return err
	}
	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, globalFlags.timeout)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := commandContext(timeout)
	defer cancel()

	counts, err := newService(ui.NewInteractiveApprover(verbose), logger).Stats(ctx, connConfig)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if tui.IsInteractive() {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCounts("sparkifydb", schema.Names(), counts))
		return nil
	}
	printCounts(cmd, counts)
	return nil
}

// printCounts writes one "table<TAB>rows" line per table, in schema order.
func printCounts(cmd *cobra.Command, counts map[string]int) {
	for _, name := range schema.Names() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, counts[name])
	}
}
