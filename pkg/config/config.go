package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Supabase REST access, used by the operational CLIs.
	SupabaseURL     string
	SupabaseAnonKey string

	// Health check target.
	WebsiteURL string

	// Backup output locations and retention.
	BackupPrimaryDir   string
	BackupSecondaryDir string
	BackupKeepDays     int

	// API rate limiting, in ulule/limiter notation (e.g. "100-M").
	RateLimit string

	HTTPTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SUPABASE_URL", "")
	viper.SetDefault("SUPABASE_ANON_KEY", "")
	viper.SetDefault("WEBSITE_URL", "")
	viper.SetDefault("BACKUP_PRIMARY_DIR", "files/backups/weekly")
	viper.SetDefault("BACKUP_SECONDARY_DIR", "")
	viper.SetDefault("BACKUP_KEEP_DAYS", 120)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("HTTP_TIMEOUT", "15s")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		SupabaseURL:        viper.GetString("SUPABASE_URL"),
		SupabaseAnonKey:    viper.GetString("SUPABASE_ANON_KEY"),
		WebsiteURL:         viper.GetString("WEBSITE_URL"),
		BackupPrimaryDir:   viper.GetString("BACKUP_PRIMARY_DIR"),
		BackupSecondaryDir: viper.GetString("BACKUP_SECONDARY_DIR"),
		BackupKeepDays:     viper.GetInt("BACKUP_KEEP_DAYS"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		HTTPTimeout:        viper.GetDuration("HTTP_TIMEOUT"),
	}

	return cfg, nil
}
