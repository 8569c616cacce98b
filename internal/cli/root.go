// Package cli implements the operational command-line surface: offsite
// backup of the hosted table, the availability health check, and desktop
// database file interchange.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoman-app/geoman/pkg/config"
)

// NewRootCommand creates the root command for the geoman CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "geoman",
		Short:         "Operational tooling for the dossier records service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewBackupCommand())
	cmd.AddCommand(NewHealthCheckCommand())
	cmd.AddCommand(NewExportDBCommand())
	cmd.AddCommand(NewImportDBCommand())

	return cmd
}

// loadCLIConfig loads configuration and checks that the hosted endpoint
// credentials the operational commands need are present.
func loadCLIConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("missing Supabase env values (SUPABASE_URL / SUPABASE_ANON_KEY)")
	}
	return cfg, nil
}
