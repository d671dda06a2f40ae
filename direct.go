package uplink

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	uperrors "github.com/grassyhq/uplink/errors"
	"github.com/grassyhq/uplink/internal/transfer"
	"github.com/grassyhq/uplink/internal/validation"
	"github.com/grassyhq/uplink/sigv4"
)

// DirectStore uploads and deletes single objects directly against an
// S3-compatible store, signing every request with AWS Signature Version 4.
// It bypasses the negotiating API entirely. A DirectStore holds no state
// between calls and is safe for concurrent use.
type DirectStore struct {
	endpoint string
	host     string
	bucket   string
	signer   *sigv4.Signer
	transfer *transfer.Client
	log      zerolog.Logger
	now      func() time.Time
}

// NewDirectStore creates a DirectStore for the given endpoint, bucket and
// region. The endpoint is the store's base URL, e.g.
// "https://nyc3.digitaloceanspaces.com".
func NewDirectStore(endpoint, bucket, region string, creds sigv4.Credentials, opts ...Option) (*DirectStore, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, uperrors.NewError("newDirectStore", uperrors.ErrInvalidInput).
			WithMessage("endpoint must be an absolute URL")
	}
	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &DirectStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		host:     parsed.Host,
		bucket:   bucket,
		signer:   sigv4.New(creds, region),
		transfer: transfer.New(httpClient),
		log:      cfg.logger,
		now:      cfg.now,
	}, nil
}

// UploadPhoto stores a photo under a generated key for the owner and
// returns the public object URL. The key follows the
// ownerID/{uuid}_{unix-timestamp}.jpg convention.
func (s *DirectStore) UploadPhoto(ctx context.Context, ownerID string, data []byte) (string, error) {
	if ownerID == "" {
		return "", uperrors.NewError("uploadPhoto", uperrors.ErrInvalidInput).
			WithMessage("owner id cannot be empty")
	}
	key := fmt.Sprintf("%s/%s_%d.jpg", ownerID, uuid.NewString(), s.now().Unix())
	return s.PutObject(ctx, key, data)
}

// PutObject uploads data under the given object key with a public-read ACL
// and returns the public object URL.
func (s *DirectStore) PutObject(ctx context.Context, key string, data []byte) (string, error) {
	if err := validation.ValidateObjectKey(key); err != nil {
		return "", err
	}

	contentType := transfer.DetectImageType(data)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	sig, err := s.signer.Sign(sigv4.Request{
		Method:      http.MethodPut,
		Path:        "/" + s.bucket + "/" + key,
		Host:        s.host,
		ContentType: contentType,
		ACL:         "public-read",
		Body:        data,
		Time:        s.now(),
	})
	if err != nil {
		return "", err
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)
	headers.Set("x-amz-acl", "public-read")
	headers.Set("x-amz-content-sha256", sig.ContentSHA256)
	headers.Set("x-amz-date", sig.AmzDate)
	headers.Set("Authorization", sig.Authorization)

	if err := s.transfer.Put(ctx, s.ObjectURL(key), data, headers); err != nil {
		return "", err
	}

	s.log.Debug().Str("key", key).Int("size", len(data)).Msg("object stored")
	return s.ObjectURL(key), nil
}

// DeleteObject removes the object at the given key.
func (s *DirectStore) DeleteObject(ctx context.Context, key string) error {
	if err := validation.ValidateObjectKey(key); err != nil {
		return err
	}

	sig, err := s.signer.Sign(sigv4.Request{
		Method: http.MethodDelete,
		Path:   "/" + s.bucket + "/" + key,
		Host:   s.host,
		Time:   s.now(),
	})
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("x-amz-content-sha256", sig.ContentSHA256)
	headers.Set("x-amz-date", sig.AmzDate)
	headers.Set("Authorization", sig.Authorization)

	if err := s.transfer.Delete(ctx, s.ObjectURL(key), headers); err != nil {
		return err
	}

	s.log.Debug().Str("key", key).Msg("object deleted")
	return nil
}

// ObjectURL returns the public URL of an object key in the store.
func (s *DirectStore) ObjectURL(key string) string {
	return s.endpoint + "/" + s.bucket + "/" + key
}
