// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // CALMIRROR_DATABASE_URL (required)
	HTTPAddr    string // CALMIRROR_HTTP_ADDR (default ":8080")
	NATSURL     string // CALMIRROR_NATS_URL (optional, empty = no events)
	AuthToken   string // CALMIRROR_AUTH_TOKEN (optional, empty = auth disabled)

	// Google Calendar source
	CalendarID        string // CALMIRROR_CALENDAR_ID (default "primary")
	GoogleCredentials string // CALMIRROR_GOOGLE_CREDENTIALS (default "creds/credentials.json")
	GoogleToken       string // CALMIRROR_GOOGLE_TOKEN (default "creds/token.json")

	// Export settings
	ExportInterval   time.Duration // CALMIRROR_EXPORT_INTERVAL (default 3m; 0 = disabled)
	ExportS3Bucket   string        // CALMIRROR_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // CALMIRROR_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // CALMIRROR_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // CALMIRROR_EXPORT_S3_KEY (default "calmirror/backup.jsonl")
	ExportGitRepo    string        // CALMIRROR_EXPORT_GIT_REPO (enables git when set; path to clone)
	ExportGitFile    string        // CALMIRROR_EXPORT_GIT_FILE (default "events.jsonl")
	ExportGitBranch  string        // CALMIRROR_EXPORT_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:       os.Getenv("CALMIRROR_DATABASE_URL"),
		HTTPAddr:          envOrDefault("CALMIRROR_HTTP_ADDR", ":8080"),
		NATSURL:           os.Getenv("CALMIRROR_NATS_URL"),
		AuthToken:         os.Getenv("CALMIRROR_AUTH_TOKEN"),
		CalendarID:        envOrDefault("CALMIRROR_CALENDAR_ID", "primary"),
		GoogleCredentials: envOrDefault("CALMIRROR_GOOGLE_CREDENTIALS", "creds/credentials.json"),
		GoogleToken:       envOrDefault("CALMIRROR_GOOGLE_TOKEN", "creds/token.json"),
		ExportS3Bucket:    os.Getenv("CALMIRROR_EXPORT_S3_BUCKET"),
		ExportS3Endpoint:  os.Getenv("CALMIRROR_EXPORT_S3_ENDPOINT"),
		ExportS3Region:    envOrDefault("CALMIRROR_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:       envOrDefault("CALMIRROR_EXPORT_S3_KEY", "calmirror/backup.jsonl"),
		ExportGitRepo:     os.Getenv("CALMIRROR_EXPORT_GIT_REPO"),
		ExportGitFile:     envOrDefault("CALMIRROR_EXPORT_GIT_FILE", "events.jsonl"),
		ExportGitBranch:   envOrDefault("CALMIRROR_EXPORT_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CALMIRROR_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("CALMIRROR_EXPORT_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("CALMIRROR_EXPORT_INTERVAL: %w", err)
		}
		c.ExportInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
