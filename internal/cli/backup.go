package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoman-app/geoman/internal/compat"
	"github.com/geoman-app/geoman/internal/core/domain"
	"github.com/geoman-app/geoman/internal/platform/supabase"
)

// backupSchema tags the JSON snapshot so restores can check what they
// are being fed.
const backupSchema = "geoman.supabase.backup.v1"

type backupOptions struct {
	PrimaryDir   string
	SecondaryDir string
	KeepDays     int
}

type backupPayload struct {
	Schema      string           `json:"schema"`
	GeneratedAt string           `json:"generated_at"`
	Source      string           `json:"source"`
	Count       int              `json:"count"`
	Rows        []domain.Dossier `json:"rows"`
}

// NewBackupCommand creates the backup command. It snapshots the hosted
// dossiers table into a JSON file plus a desktop-compatible CSV, copies
// both to an optional secondary directory, and prunes files older than
// the retention window.
func NewBackupCommand() *cobra.Command {
	opts := &backupOptions{}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the hosted dossiers table to local files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PrimaryDir, "primary", "", "primary output directory (default from BACKUP_PRIMARY_DIR)")
	cmd.Flags().StringVar(&opts.SecondaryDir, "secondary", "", "optional secondary copy directory")
	cmd.Flags().IntVar(&opts.KeepDays, "keep-days", 0, "retention window in days (default from BACKUP_KEEP_DAYS)")

	return cmd
}

func runBackup(cmd *cobra.Command, opts *backupOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	primaryDir := opts.PrimaryDir
	if primaryDir == "" {
		primaryDir = cfg.BackupPrimaryDir
	}
	secondaryDir := opts.SecondaryDir
	if secondaryDir == "" {
		secondaryDir = cfg.BackupSecondaryDir
	}
	keepDays := opts.KeepDays
	if keepDays <= 0 {
		keepDays = cfg.BackupKeepDays
	}

	if err := os.MkdirAll(primaryDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", primaryDir, err)
	}

	client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
	rows, err := client.FetchAllDossiers(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	marker := fmt.Sprintf("%s-%s", now.UTC().Format("2006-01-02"), now.Format("20060102-150405"))
	base := "geoman-supabase-backup-" + marker
	jsonPath := filepath.Join(primaryDir, base+".json")
	csvPath := filepath.Join(primaryDir, base+".csv")

	payload := backupPayload{
		Schema:      backupSchema,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Source:      "supabase.dossiers",
		Count:       len(rows),
		Rows:        rows,
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup payload: %w", err)
	}
	if err := os.WriteFile(jsonPath, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	csv := compat.BuildDesktopCSV(rows)
	if err := os.WriteFile(csvPath, []byte(compat.CSVBOM+csv), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", csvPath, err)
	}

	generated := []string{jsonPath, csvPath}
	var copied []string
	if secondaryDir != "" {
		if copied, err = copyOutputs(generated, secondaryDir); err != nil {
			return err
		}
	}

	if err := pruneOldFiles(primaryDir, keepDays); err != nil {
		return err
	}
	if secondaryDir != "" {
		if err := pruneOldFiles(secondaryDir, keepDays); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[backup] rows=%d\n", len(rows))
	fmt.Fprintf(out, "[backup] primary=%s\n", primaryDir)
	if len(copied) > 0 {
		fmt.Fprintf(out, "[backup] secondary=%s\n", secondaryDir)
	}
	for _, f := range generated {
		fmt.Fprintf(out, "[backup] file=%s\n", f)
	}
	for _, f := range copied {
		fmt.Fprintf(out, "[backup] copy=%s\n", f)
	}
	return nil
}

func copyOutputs(files []string, destinationDir string) ([]string, error) {
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destinationDir, err)
	}
	copied := make([]string, 0, len(files))
	for _, src := range files {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		target := filepath.Join(destinationDir, filepath.Base(src))
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to copy to %s: %w", target, err)
		}
		copied = append(copied, target)
	}
	return copied, nil
}

func pruneOldFiles(dirPath string, keepDays int) error {
	cutoff := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dirPath, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dirPath, entry.Name())); err != nil {
				return fmt.Errorf("failed to prune %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
