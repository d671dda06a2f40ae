// Package uplink provides client initialization and configuration.
package uplink

import (
	"net/http"
	"net/url"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/rs/zerolog"

	uperrors "github.com/grassyhq/uplink/errors"
	"github.com/grassyhq/uplink/internal/executor"
	"github.com/grassyhq/uplink/internal/negotiate"
	"github.com/grassyhq/uplink/internal/retry"
	"github.com/grassyhq/uplink/internal/session"
	"github.com/grassyhq/uplink/internal/transfer"
)

// Client uploads batches through the negotiating API. It owns its session
// state, so batches from different Client instances cannot interfere.
// A Client is safe for concurrent use; interleaved batches only share the
// internally synchronized session store.
type Client struct {
	api      *negotiate.Client
	transfer *transfer.Client
	exec     *executor.Executor
	sessions *session.Store
	retry    retry.Policy

	uploadSource string
	log          zerolog.Logger
	fs           fs.Filesystem
}

// New creates a Client for the negotiating API rooted at baseURL.
//
// Example:
//
//	client, err := uplink.New("https://api.example.com",
//	    uplink.WithConcurrency(3),
//	    uplink.WithRetry(3, 2*time.Second),
//	)
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, uperrors.NewError("new", uperrors.ErrInvalidInput).
			WithMessage("base URL must be absolute")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	filesystem := cfg.filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	return &Client{
		api:          negotiate.New(baseURL, httpClient),
		transfer:     transfer.New(httpClient),
		exec:         executor.New(cfg.concurrency),
		sessions:     session.NewStore(),
		retry:        retry.Policy{MaxAttempts: cfg.maxAttempts, BaseDelay: cfg.baseDelay},
		uploadSource: cfg.uploadSource,
		log:          cfg.logger,
		fs:           filesystem,
	}, nil
}
