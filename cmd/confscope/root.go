package main

import (
	"fmt"
	"os"

	"github.com/confscope/confscope/adapters/file"
	"github.com/confscope/confscope/adapters/sqlite"
	"github.com/confscope/confscope/config"
	"github.com/confscope/confscope/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile     string
	storeDriver string
	storePath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "confscope",
	Short: "Scoped configuration resolution and store management",
	Long: `confscope resolves and manages configuration bundles scoped by
system, tenant, group and component instance.

Examples:
  confscope get billing system
  confscope get billing tenant 7
  confscope set billing tenant 7 grace_days=5 currency=EUR
  confscope list billing
  confscope delete theme instance widget-42`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "confscope.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store-driver", "", "store driver (sqlite or file), overrides config")
	rootCmd.PersistentFlags().StringVar(&storePath, "store-path", "", "store path, overrides config")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Logging.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// openStore opens the configured store read-only. The returned cleanup
// function must be called when done.
func openStore(cfg *config.Config, logger zerolog.Logger) (ports.ConfigStore, func(), error) {
	switch cfg.Store.Driver {
	case "file":
		store, err := file.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		editor, cleanup, err := openEditor(cfg)
		if err != nil {
			return nil, nil, err
		}
		return editor, cleanup, nil
	}
}

// openEditor opens the configured store for writing. The YAML file store is
// read-only; edit the file instead.
func openEditor(cfg *config.Config) (ports.ConfigEditor, func(), error) {
	if cfg.Store.Driver == "file" {
		return nil, nil, fmt.Errorf("the file store is read-only, edit %s directly", cfg.Store.Path)
	}

	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return sqlite.NewConfigStore(db), func() { db.Close() }, nil
}
