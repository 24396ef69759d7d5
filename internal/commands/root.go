// Package commands implements the tripledger command line.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/buildinfo"
	"github.com/mmynk/tripledger/internal/config"
	"github.com/mmynk/tripledger/internal/storage/sqlstore"
	"github.com/mmynk/tripledger/pkg/logging"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "tripledger",
		Short:   "Shared trip expenses with consistent balances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.cfg = cfg
			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a tripledger.yaml file")

	rootCmd.AddCommand(
		newServeCommand(a),
		newMigrateCommand(a),
		newReportCommand(a),
		newAuditCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// openStore connects to the configured database and runs migrations.
func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.SQLStore, error) {
	switch cfg.Database.Driver {
	case sqlstore.DriverMySQL:
		return sqlstore.OpenMySQL(ctx, cfg.MySQL())
	default:
		return sqlstore.OpenSQLite(cfg.Database.Path)
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", store.Driver())
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tripledger", buildinfo.String())
		},
	}
}
