package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/geoman-app/geoman/internal/platform/supabase"
)

const healthSchema = "geoman.healthcheck.v1"

type healthCheckOptions struct {
	SiteURL   string
	OutputDir string
}

type webCheck struct {
	OK         bool   `json:"ok"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

type dbCheck struct {
	OK    bool    `json:"ok"`
	Error *string `json:"error"`
	Count *int64  `json:"count"`
}

type healthReport struct {
	Schema      string `json:"schema"`
	GeneratedAt string `json:"generated_at"`
	SiteURL     string `json:"site_url"`
	OK          bool   `json:"ok"`
	Checks      struct {
		Web      webCheck `json:"web"`
		Supabase dbCheck  `json:"supabase"`
	} `json:"checks"`
}

// NewHealthCheckCommand creates the healthcheck command. It probes the
// public site and the hosted table, writes a JSON report, and exits
// non-zero when either probe fails.
func NewHealthCheckCommand() *cobra.Command {
	opts := &healthCheckOptions{}

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the public site and the hosted dossiers table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SiteURL, "site-url", "", "site URL to probe (default from WEBSITE_URL)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "files/health", "report output directory")

	return cmd
}

func runHealthCheck(cmd *cobra.Command, opts *healthCheckOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}

	siteURL := opts.SiteURL
	if siteURL == "" {
		siteURL = cfg.WebsiteURL
	}
	if siteURL == "" {
		return fmt.Errorf("no site URL configured (--site-url or WEBSITE_URL)")
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.OutputDir, err)
	}

	report := healthReport{
		Schema:      healthSchema,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		SiteURL:     siteURL,
	}
	report.Checks.Web = checkSite(cmd, siteURL, cfg.HTTPTimeout)
	report.Checks.Supabase = checkSupabase(cmd, cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.HTTPTimeout)
	report.OK = report.Checks.Web.OK && report.Checks.Supabase.OK

	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	outputPath := filepath.Join(opts.OutputDir, "health-"+stamp+".json")
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health report: %w", err)
	}
	if err := os.WriteFile(outputPath, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "[health] ok=%t\n", report.OK)
	fmt.Fprintf(out, "[health] web_status=%d\n", report.Checks.Web.Status)
	if report.Checks.Supabase.Count != nil {
		fmt.Fprintf(out, "[health] supabase_count=%d\n", *report.Checks.Supabase.Count)
	} else {
		fmt.Fprintln(out, "[health] supabase_count=n/a")
	}
	fmt.Fprintf(out, "[health] report=%s\n", outputPath)

	if !report.OK {
		return fmt.Errorf("health check failed")
	}
	return nil
}

func checkSite(cmd *cobra.Command, siteURL string, timeout time.Duration) webCheck {
	client := resty.New().SetTimeout(timeout)
	resp, err := client.R().SetContext(cmd.Context()).Get(siteURL)
	if err != nil {
		return webCheck{OK: false, Status: 0, StatusText: err.Error()}
	}
	return webCheck{
		OK:         !resp.IsError(),
		Status:     resp.StatusCode(),
		StatusText: resp.Status(),
	}
}

func checkSupabase(cmd *cobra.Command, url, anonKey string, timeout time.Duration) dbCheck {
	client := supabase.NewClient(url, anonKey, timeout)
	count, err := client.CountDossiers(cmd.Context())
	if err != nil {
		msg := err.Error()
		return dbCheck{OK: false, Error: &msg}
	}
	return dbCheck{OK: true, Count: &count}
}
