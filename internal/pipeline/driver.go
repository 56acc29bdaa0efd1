package pipeline

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/sparkify/internal/extract"
	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/loader"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Driver runs the per-file extract and load loop.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type Driver struct {
	locator  sparkify.FileLocator
	files    filesystem.FileSystemProvider
	loader   *loader.Loader
	logger   sparkify.Logger
	reporter sparkify.ProgressReporter
	pattern  string
	state    State
}

// Option configures a Driver.
type Option func(*Driver)

// WithPattern sets the default file pattern of every run.
func WithPattern(pattern string) Option {
	return func(d *Driver) {
		if pattern != "" {
			d.pattern = pattern
		}
	}
}

// NewDriver creates a Driver. Panics if any dependency is nil.
func NewDriver(
	locator sparkify.FileLocator,
	files filesystem.FileSystemProvider,
	ldr *loader.Loader,
	logger sparkify.Logger,
	reporter sparkify.ProgressReporter,
	opts ...Option,
) *Driver {
	if locator == nil {
		panic("locator cannot be nil")
	}
	if files == nil {
		panic("files cannot be nil")
	}
	if ldr == nil {
		panic("loader cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if reporter == nil {
		panic("reporter cannot be nil")
	}

	d := &Driver{
		locator:  locator,
		files:    files,
		loader:   ldr,
		logger:   logger,
		reporter: reporter,
		pattern:  sparkify.DefaultFilePattern,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns where the driver is within the current or last run.
func (d *Driver) State() State {
	return d.state
}

func (d *Driver) enter(s State) {
	d.state = s
}

// Load runs the song tree, then the log tree. The log run is skipped when
// the song run fails.
func (d *Driver) Load(ctx context.Context, db schema.Beginner, songRoot, logRoot string) (Result, Result, error) {
	songs, err := d.Run(ctx, db, Run{Mode: SongMode, Root: songRoot})
	if err != nil {
		return songs, Result{Mode: LogMode, Root: logRoot}, err
	}
	logs, err := d.Run(ctx, db, Run{Mode: LogMode, Root: logRoot})
	return songs, logs, err
}

// Run processes every file of run.Root in lexicographic order. The first
// failing file is rolled back and ends the run.
func (d *Driver) Run(ctx context.Context, db schema.Beginner, run Run) (Result, error) {
	result := Result{Mode: run.Mode, Root: run.Root}
	pattern := run.Pattern
	if pattern == "" {
		pattern = d.pattern
	}

	d.enter(StateDiscovering)
	paths, err := d.locator.Locate(run.Root, pattern)
	if err != nil {
		return result, err
	}
	result.Files = len(paths)
	d.reporter.Discovered(run.Root, len(paths))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		d.enter(StateProcessing)
		d.logger.Verbose("Processing %s file %s", run.Mode, path)
		if err := d.processFile(ctx, db, run.Mode, path, &result); err != nil {
			return result, err
		}

		result.Processed = i + 1
		d.reporter.Processed(i+1, len(paths), path)
	}

	d.enter(StateDone)
	d.reporter.Finished(run.Root, len(paths))
	return result, nil
}

func (d *Driver) processFile(ctx context.Context, db schema.Beginner, mode Mode, path string, result *Result) (err error) {
	content, err := d.files.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", sparkify.ErrFileSystem, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction for %s: %w", sparkify.ErrLoadFailed, path, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				d.logger.Verbose("Rollback of %s failed: %v", path, rbErr)
			}
		}
	}()

	switch mode {
	case SongMode:
		err = d.loadSongFile(ctx, tx, path, content, result)
	case LogMode:
		err = d.loadLogFile(ctx, tx, path, content, result)
	default:
		err = fmt.Errorf("%w: unknown mode %s", sparkify.ErrInvalidConfig, mode)
	}
	if err != nil {
		return err
	}

	d.enter(StateCommitting)
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit %s: %w", sparkify.ErrLoadFailed, path, err)
	}
	return nil
}

func (d *Driver) loadSongFile(ctx context.Context, tx pgx.Tx, path string, content []byte, result *Result) error {
	song, artist, err := extract.ParseSongFile(path, content)
	if err != nil {
		return err
	}

	if err := d.loader.UpsertSong(ctx, tx, song); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	result.Songs++

	if err := d.loader.UpsertArtist(ctx, tx, artist); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	result.Artists++
	return nil
}

// loadLogFile writes time rows, then user rows, then songplays.
func (d *Driver) loadLogFile(ctx context.Context, tx pgx.Tx, path string, content []byte, result *Result) error {
	batch, err := extract.ParseLogFile(path, content)
	if err != nil {
		return err
	}
	result.Events += len(batch.Events)
	result.Skipped += batch.Skipped

	for _, e := range batch.Events {
		if err := d.loader.UpsertTime(ctx, tx, e.Time()); err != nil {
			return fmt.Errorf("%s line %d: %w", path, e.Line, err)
		}
		result.TimeRows++
	}

	for _, e := range batch.Events {
		if err := d.loader.UpsertUser(ctx, tx, e.User()); err != nil {
			return fmt.Errorf("%s line %d: %w", path, e.Line, err)
		}
		result.Users++
	}

	for _, e := range batch.Events {
		match, err := d.loader.LookupSongArtist(ctx, tx, e.Song, e.Artist, e.Length)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, e.Line, err)
		}

		var songID, artistID *string
		if match != nil {
			songID, artistID = &match.SongID, &match.ArtistID
			result.Matched++
		}

		if _, err := d.loader.InsertSongplay(ctx, tx, e.Songplay("", songID, artistID)); err != nil {
			return fmt.Errorf("%s line %d: %w", path, e.Line, err)
		}
		result.Songplays++
	}
	return nil
}
