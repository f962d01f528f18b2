// Package cmd provides the CLI commands for the rolodex tool.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/config"
	"github.com/rkarimi/rolodex/pkg/cache"
	"github.com/rkarimi/rolodex/pkg/contacts"
	"github.com/rkarimi/rolodex/pkg/db"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// Deps carries the shared dependencies every command runs against. They are
// resolved once in the root command's PersistentPreRunE.
type Deps struct {
	Cfg         *config.Config
	Logger      logging.Logger
	Pool        *pgxpool.Pool
	Store       contacts.Store
	Invalidator cache.Invalidator
	Notifier    contacts.Notifier
}

// Global flags.
var (
	cfgFile      string
	outputFormat string
	debug        bool
)

// NewRootCommand builds the rolodex command tree.
func NewRootCommand(version string) *cobra.Command {
	deps := &Deps{}

	root := &cobra.Command{
		Use:     "rolodex",
		Short:   "Personal contact manager with duplicate detection and group suggestions",
		Version: version,
		Long: `rolodex manages a personal contact book stored in PostgreSQL.

Its core features are duplicate detection (scan + merge) and group
recommendations for contacts that are not in any group yet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupDeps(cmd.Context(), deps)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			db.Close(deps.Pool)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.rolodex/config.yaml)")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text or json)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newInitCommand(deps))
	root.AddCommand(newScanCommand(deps))
	root.AddCommand(newMergeCommand(deps))
	root.AddCommand(newSuggestCommand(deps))
	root.AddCommand(newGroupsCommand(deps))

	return root
}

// Execute runs the CLI.
func Execute(version string) {
	root := NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupDeps loads configuration and wires the store, cache, and logger.
func setupDeps(ctx context.Context, deps *Deps) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if outputFormat != "" {
		cfg.Output = config.OutputFormat(outputFormat)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	deps.Cfg = cfg

	level := cfg.Log.Level
	if debug {
		level = logging.LevelDebug
	}
	deps.Logger = logging.NewLogger(&logging.Config{
		Level:      level,
		Component:  "rolodex",
		JSONFormat: cfg.Log.JSON,
	})
	logging.SetGlobal(deps.Logger)

	pool, err := db.ConnectWithRetry(ctx, cfg.DBConfig(), 3, time.Second)
	if err != nil {
		return fmt.Errorf("connecting to contact store: %w", err)
	}
	deps.Pool = pool
	prometheus.DefaultRegisterer.MustRegister(db.NewPoolStatsCollector(pool, "rolodex"))

	if err := contacts.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	deps.Store = contacts.NewRepository(pool, deps.Logger)
	deps.Notifier = contacts.LogNotifier{Logger: deps.Logger}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		deps.Invalidator = cache.NewRedisInvalidator(client, deps.Logger)
	} else {
		deps.Invalidator = cache.NopInvalidator{}
	}

	return nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
