package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every deployment-level setting the service needs. It is loaded
// once in main and passed explicitly into client and handler constructors;
// nothing below the shell reads the environment directly.
type Config struct {
	Port    string
	TempDir string

	// Worker pool sizing for background ingestion jobs.
	Workers   int
	QueueSize int

	// Cloudflare R2 (S3-compatible) object storage.
	R2AccountID     string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string

	// Supabase project used for video metadata rows.
	SupabaseURL string
	SupabaseKey string

	// Lifetime of presigned download URLs.
	DownloadURLTTL time.Duration
}

// Load reads the configuration from environment variables. Settings without a
// sensible default are required and reported together in one error.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		TempDir:         getEnv("TEMP_DIR", os.TempDir()),
		Workers:         getEnvInt("INGEST_WORKERS", 3),
		QueueSize:       getEnvInt("INGEST_QUEUE_SIZE", 50),
		R2AccountID:     os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        getEnv("R2_BUCKET_NAME", "shorts-videos"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_DOMAIN"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_SERVICE_KEY"),
		DownloadURLTTL:  time.Duration(getEnvInt("DOWNLOAD_URL_TTL_SECONDS", 900)) * time.Second,
	}

	var missing []string
	for name, val := range map[string]string{
		"R2_ACCOUNT_ID":        cfg.R2AccountID,
		"R2_ACCESS_KEY":        cfg.R2AccessKey,
		"R2_SECRET_KEY":        cfg.R2SecretKey,
		"R2_PUBLIC_DOMAIN":     cfg.R2PublicBaseURL,
		"SUPABASE_URL":         cfg.SupabaseURL,
		"SUPABASE_SERVICE_KEY": cfg.SupabaseKey,
	} {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
