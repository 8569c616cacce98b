package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/interop"
	"github.com/geoman-app/geoman/internal/platform/supabase"
)

// NewExportDBCommand creates the export-db command. It snapshots the
// hosted dossiers table into a desktop-format SQLite file.
func NewExportDBCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export-db",
		Short: "Export the hosted dossiers table to a desktop database file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig()
			if err != nil {
				return err
			}

			client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
			rows, err := client.FetchAllDossiers(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("geoman-%s.db", time.Now().Format("20060102-150405"))
			}
			if err := interop.ExportDB(cmd.Context(), output, rows); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[export-db] rows=%d\n", len(rows))
			fmt.Fprintf(cmd.OutOrStdout(), "[export-db] file=%s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "destination .db file (default geoman-<stamp>.db)")
	return cmd
}

// NewImportDBCommand creates the import-db command. It reads a desktop
// database file and writes its records as an interchange bundle, ready to
// be posted to the import endpoint.
func NewImportDBCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import-db <file.db>",
		Short: "Convert a desktop database file to an interchange bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := interop.ImportDB(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			bundle := compat.RowsToDesktopBundle(rows)
			encoded, err := json.MarshalIndent(bundle, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode bundle: %w", err)
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			} else if err := os.WriteFile(output, append(encoded, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "[import-db] rows=%d\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "destination bundle file (default stdout)")
	return cmd
}
