package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/services"
	"github.com/vvka-141/sparkify/internal/tui"
	"github.com/vvka-141/sparkify/internal/ui"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load song and log files into sparkifydb",
	Long: `Load recreates the tables, then processes every song file followed by every
log file. Each file is loaded in its own transaction: a failure stops the run
and keeps the files already committed.

Song files fill songs and artists. Log files fill time and users for every
NextSong event and add one songplay per event, linked to the song and artist
whose title, name and duration match.

Data paths, pattern and tolerance come from flags, then sparkify.yaml, then
the defaults below.

Examples:
  # Default layout: ./data/song_data and ./data/log_data
  sparkify load

  # Custom locations, keep existing rows
  sparkify load --song-data /srv/song_data --log-data /srv/log_data --keep-schema

  # Exact duration match
  sparkify load --lookup-tolerance 0`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	songData   string
	logData    string
	pattern    string
	keepSchema bool
	tolerance  float64
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.songData, "song-data", "",
		"Root directory of the song files (default: "+sparkify.DefaultSongDataPath+")")
	loadCmd.Flags().StringVar(&loadFlags.logData, "log-data", "",
		"Root directory of the log files (default: "+sparkify.DefaultLogDataPath+")")
	loadCmd.Flags().StringVar(&loadFlags.pattern, "pattern", "",
		"Glob matched against file base names (default: "+sparkify.DefaultFilePattern+")")
	loadCmd.Flags().BoolVar(&loadFlags.keepSchema, "keep-schema", false,
		"Create missing tables instead of dropping and recreating them")
	loadCmd.Flags().Float64Var(&loadFlags.tolerance, "lookup-tolerance", sparkify.DefaultDurationTolerance,
		"Maximum difference in seconds between event length and song duration\n"+
			"0 requires an exact match")

	_ = loadCmd.RegisterFlagCompletionFunc("song-data", completeDirectories)
	_ = loadCmd.RegisterFlagCompletionFunc("log-data", completeDirectories)
}

// buildLoadConfig merges flags, sparkify.yaml and defaults.
func buildLoadConfig(cmd *cobra.Command, projectCfg *config.ProjectConfig) (sparkify.LoadConfig, error) {
	var data config.DataConfig
	if projectCfg != nil {
		data = projectCfg.Data
	}

	tolerance := loadFlags.tolerance
	if !cmd.Flags().Changed("lookup-tolerance") && projectCfg != nil && projectCfg.Lookup.DurationTolerance != nil {
		tolerance = *projectCfg.Lookup.DurationTolerance
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, globalFlags.timeout)
	if err != nil {
		return sparkify.LoadConfig{}, err
	}

	cfg := sparkify.LoadConfig{
		SongDataPath:      firstNonEmpty(loadFlags.songData, data.SongPath, sparkify.DefaultSongDataPath),
		LogDataPath:       firstNonEmpty(loadFlags.logData, data.LogPath, sparkify.DefaultLogDataPath),
		Pattern:           firstNonEmpty(loadFlags.pattern, data.Pattern, sparkify.DefaultFilePattern),
		DurationTolerance: tolerance,
		KeepSchema:        loadFlags.keepSchema,
		Timeout:           timeout,
		Verbose:           getVerboseFlag(cmd),
	}
	if err := cfg.Validate(); err != nil {
		return sparkify.LoadConfig{}, err
	}
	return cfg, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	projectCfg, err := loadProjectConfig(globalFlags.configPath)
	if err != nil {
		return err
	}
	connConfig, _, err := resolveConnection(globalFlags, projectCfg, verbose)
	if err != nil {
		return err
	}
	loadConfig, err := buildLoadConfig(cmd, projectCfg)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	defer func() { _ = logger.Sync() }()
	logger.Verbose("Pattern: %s, lookup tolerance: %s", loadConfig.Pattern, formatTolerance(loadConfig.DurationTolerance))

	ctx, cancel := commandContext(loadConfig.Timeout)
	defer cancel()

	// nil lets the service log progress lines.
	var reporter sparkify.ProgressReporter
	interactive := tui.IsInteractive() && !verbose
	if interactive {
		bar := tui.NewProgressBar(os.Stderr, tui.WithAbort(cancel))
		defer bar.Close()
		reporter = bar
	}

	svc := newService(ui.NewInteractiveApprover(verbose), logger)
	summary, err := svc.Load(ctx, connConfig, loadConfig, reporter)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Load cancelled; files committed so far are kept")
		}
		return fmt.Errorf("load failed: %w", err)
	}

	if interactive {
		fmt.Fprintln(os.Stderr, tui.RenderCounts("Loaded", summaryOrder, summaryCounts(summary)))
	}
	return nil
}

var summaryOrder = []string{"song files", "log files", "songs", "artists", "events", "skipped", "songplays", "matched"}

func summaryCounts(s services.LoadSummary) map[string]int {
	return map[string]int{
		"song files": s.Songs.Processed,
		"log files":  s.Logs.Processed,
		"songs":      s.Songs.Songs,
		"artists":    s.Songs.Artists,
		"events":     s.Logs.Events,
		"skipped":    s.Logs.Skipped,
		"songplays":  s.Logs.Songplays,
		"matched":    s.Logs.Matched,
	}
}

// formatTolerance renders a tolerance for log lines without trailing zeros.
func formatTolerance(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}
