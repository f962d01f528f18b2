package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/config"
	"github.com/rkarimi/rolodex/pkg/contacts"
	"github.com/rkarimi/rolodex/pkg/db"
)

// newInitCommand creates the 'init' subcommand.
func newInitCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the contact-store schema",
		Long: `Initialize rolodex.

Writes a default configuration file (unless one already exists) and creates
the contact-store tables in PostgreSQL.

Examples:
  # Initialize with defaults
  rolodex init

  # Initialize against a specific config
  rolodex init --config ./rolodex.yaml`,
		// Config and store may not exist yet; skip the shared setup.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Config written to %s\n", path)

			pool, err := db.ConnectWithRetry(cmd.Context(), cfg.DBConfig(), 3, time.Second)
			if err != nil {
				return fmt.Errorf("connecting to contact store: %w", err)
			}
			defer db.Close(pool)

			if err := contacts.EnsureSchema(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Println("Contact store schema ready")
			return nil
		},
	}
}
