// Package uplink provides functional options for configuring client behavior.
package uplink

import (
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/rs/zerolog"
)

// clientConfig collects the settings shared by Client and DirectStore.
type clientConfig struct {
	httpClient   *http.Client
	timeout      time.Duration
	concurrency  int
	maxAttempts  int
	baseDelay    time.Duration
	uploadSource string
	logger       zerolog.Logger
	filesystem   fs.Filesystem
	now          func() time.Time
}

// Option configures a Client or DirectStore.
type Option func(*clientConfig)

func defaultConfig() *clientConfig {
	return &clientConfig{
		concurrency:  3,               // Default parallel transfers
		maxAttempts:  3,               // Default retry budget
		baseDelay:    2 * time.Second, // Linear backoff unit
		uploadSource: "mobile_app",
		logger:       zerolog.Nop(),
		now:          time.Now,
	}
}

// WithHTTPClient provides a custom HTTP client for all network calls.
// This gives full control over transport behavior including proxies and TLS.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout for individual network calls.
// Default is no timeout (0). Ignored when a custom HTTP client is provided.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithConcurrency sets the maximum number of parallel object transfers
// within a batch. Default is 3.
func WithConcurrency(concurrency int) Option {
	return func(c *clientConfig) {
		if concurrency > 0 {
			c.concurrency = concurrency
		}
	}
}

// WithRetry sets the transfer retry budget: the total number of attempts
// per object and the linear backoff unit (attempt k waits k*baseDelay).
// Defaults are 3 attempts with a 2s unit. Only transport-level and 5xx
// failures are retried.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *clientConfig) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithUploadSource sets the uploadSource identifier sent in the batch
// manifest metadata. Default is "mobile_app".
func WithUploadSource(source string) Option {
	return func(c *clientConfig) {
		if source != "" {
			c.uploadSource = source
		}
	}
}

// WithLogger sets the logger used for debug output. Default is a no-op
// logger; the library stays silent unless a logger is injected.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithFilesystem sets a custom filesystem implementation for
// Client.UploadFiles. This allows using in-memory filesystems for testing.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) Option {
	return func(c *clientConfig) {
		c.filesystem = filesystem
	}
}
