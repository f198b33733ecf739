// Package cmd implements the stamp command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stamp/internal/repository"
	"github.com/stamp/internal/storage"
	"github.com/stamp/pkg/config"
	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/telemetry"
	"github.com/stamp/pkg/utils"
)

// app is the state shared by subcommands, set up in PersistentPreRunE.
type app struct {
	cfg      *config.Config
	logger   utils.Logger
	clock    utils.Clock
	shutdown telemetry.ShutdownFunc
}

var (
	configPath string
	verbose    bool
	current    *app
)

// openSnapshotRepository connects to the configured database.
// Replaced in tests.
var openSnapshotRepository = func(ctx context.Context, cfg *config.DatabaseConfig) (repository.SnapshotRepository, func() error, error) {
	if !cfg.Enabled {
		return nil, nil, apperrors.New(apperrors.CodeConfigError, "database is disabled (set database.enabled)")
	}
	db, err := repository.NewGormDB(cfg)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to connect to database", err)
	}
	repos := repository.NewRepositories(db)
	if err := repos.Migrate(ctx); err != nil {
		repos.Close()
		return nil, nil, err
	}
	return repos.Snapshot, repos.Close, nil
}

// openStorage creates the configured object store. Replaced in tests.
var openStorage = func(cfg *config.StorageConfig) (storage.Storage, error) {
	return storage.NewStorage(cfg)
}

// newClock is replaced in tests.
var newClock = func() utils.Clock { return utils.NewRealClock() }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Build identifier mappings for bytecode remapping",
		Long: `stamp builds the identifier mapping of a compiled program: one record per
class with its obfuscated name, superclass, interfaces and member mappings.

Members annotated with the preserve annotation keep their original names.
Mappings can be exported as JSON, gzipped JSON or SRG, stored in a database
and published to object storage.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	bin := BinName()
	cmd.Example = `  # Build a mapping and write it as SRG
  ` + bin + ` map -i ./classes.yaml --format srg

  # Build, store in the database and publish to object storage
  ` + bin + ` map -i ./classes.json -c ./stamp.yaml --store --publish

  # Show a class and resolve an inherited method
  ` + bin + ` inspect -i ./classes.yaml --class com/example/Foo --method "close()V"`

	cmd.AddCommand(newMapCmd(), newInspectCmd(), newSnapshotsCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}

func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	utils.SetGlobalLogger(logger)

	shutdown, err := telemetry.Init(cmd.Context(), Version)
	if err != nil {
		logger.Warn("Tracing disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}

	current = &app{cfg: cfg, logger: logger, clock: newClock(), shutdown: shutdown}
	logger.Debug("Configuration loaded (workers=%d, format=%s)", cfg.Mapping.Workers, cfg.Output.Format)
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if current == nil || current.shutdown == nil {
		return nil
	}
	if err := current.shutdown(context.Background()); err != nil {
		current.logger.Warn("Failed to flush traces: %v", err)
	}
	return nil
}

func newLogger(cfg *config.Config, stderr io.Writer) (utils.Logger, error) {
	level := utils.ParseLogLevel(cfg.Log.Level)
	if verbose {
		level = utils.LevelDebug
	}
	if cfg.Log.OutputPath != "" {
		logger, err := utils.NewFileLogger(level, cfg.Log.OutputPath)
		if err != nil {
			return nil, err
		}
		return logger, nil
	}
	return utils.NewDefaultLogger(level, stderr), nil
}
