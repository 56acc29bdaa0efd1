package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparkify",
	Short: "Load Sparkify song metadata and listening logs into PostgreSQL",
	Long: `sparkify loads the Sparkify song metadata and user activity logs into a
star schema in the sparkifydb database: songplays as the fact table, with
songs, artists, users and time as dimensions.

Typical session:
  sparkify init                 # drop and create all tables
  sparkify load                 # song files first, then log files
  sparkify stats                # row count per table

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied database recreation
  13 - Schema statement failed
  14 - Data directory missing or unreadable
  15 - Malformed input record
  16 - Row insertion failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// Declared without shorthand so that -h stays free for --host.
	rootCmd.PersistentFlags().Bool("help", false, "Help for sparkify")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	registerConnectionFlags(rootCmd, &globalFlags)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
