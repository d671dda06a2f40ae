package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
	assert.Equal(t, "nyc3", cfg.Store.Region)
	assert.Equal(t, 3, cfg.Upload.Concurrency)
	assert.Equal(t, 3, cfg.Upload.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Upload.BaseDelay)
	assert.Equal(t, "mobile_app", cfg.Upload.Source)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UPLINK_API_BASE_URL", "https://api.example.com")
	t.Setenv("UPLINK_STORE_BUCKET", "grassy-photos")
	t.Setenv("UPLINK_STORE_REGION", "ams3")
	t.Setenv("UPLINK_UPLOAD_CONCURRENCY", "8")

	cfg := Load()

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "grassy-photos", cfg.Store.Bucket)
	assert.Equal(t, "ams3", cfg.Store.Region)
	assert.Equal(t, 8, cfg.Upload.Concurrency)
}
