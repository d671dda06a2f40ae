// Package config loads uplink settings from the environment, with an
// optional .env file for local development.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/grassyhq/uplink/sigv4"
)

// Config holds everything the CLI needs to talk to the negotiating API
// and to the object store directly.
type Config struct {
	API    APIConfig
	Store  StoreConfig
	Upload UploadConfig
}

// APIConfig addresses the negotiating API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StoreConfig addresses the S3-compatible store for direct operations.
type StoreConfig struct {
	Endpoint    string
	Bucket      string
	Region      string
	Credentials sigv4.Credentials
}

// UploadConfig tunes batch upload behavior.
type UploadConfig struct {
	Concurrency int
	MaxAttempts int
	BaseDelay   time.Duration
	Source      string
}

// Load reads configuration from environment variables, loading a .env
// file first if one is present.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("UPLINK_API_TIMEOUT_SECONDS", 60)
	v.SetDefault("UPLINK_STORE_REGION", "nyc3")
	v.SetDefault("UPLINK_UPLOAD_CONCURRENCY", 3)
	v.SetDefault("UPLINK_UPLOAD_MAX_ATTEMPTS", 3)
	v.SetDefault("UPLINK_UPLOAD_BASE_DELAY_SECONDS", 2)
	v.SetDefault("UPLINK_UPLOAD_SOURCE", "mobile_app")
	v.AutomaticEnv()

	return &Config{
		API: APIConfig{
			BaseURL: v.GetString("UPLINK_API_BASE_URL"),
			Timeout: time.Duration(v.GetInt("UPLINK_API_TIMEOUT_SECONDS")) * time.Second,
		},
		Store: StoreConfig{
			Endpoint: v.GetString("UPLINK_STORE_ENDPOINT"),
			Bucket:   v.GetString("UPLINK_STORE_BUCKET"),
			Region:   v.GetString("UPLINK_STORE_REGION"),
			Credentials: sigv4.Credentials{
				AccessKeyID:     v.GetString("UPLINK_STORE_ACCESS_KEY"),
				SecretAccessKey: v.GetString("UPLINK_STORE_SECRET_KEY"),
			},
		},
		Upload: UploadConfig{
			Concurrency: v.GetInt("UPLINK_UPLOAD_CONCURRENCY"),
			MaxAttempts: v.GetInt("UPLINK_UPLOAD_MAX_ATTEMPTS"),
			BaseDelay:   time.Duration(v.GetInt("UPLINK_UPLOAD_BASE_DELAY_SECONDS")) * time.Second,
			Source:      v.GetString("UPLINK_UPLOAD_SOURCE"),
		},
	}
}
