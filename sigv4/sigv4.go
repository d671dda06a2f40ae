// Package sigv4 implements AWS Signature Version 4 request signing for
// S3-compatible object stores.
//
// The signer is a pure function of its inputs: given identical request
// metadata and timestamp it produces a byte-identical Authorization header.
// The canonical header set is held in a fixed, explicitly ordered structure
// so the canonicalization step and the SignedHeaders declaration cannot
// drift apart; a mismatch between the two is rejected by the remote service
// with an authentication error.
package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	uperrors "github.com/grassyhq/uplink/errors"
)

const (
	algorithm   = "AWS4-HMAC-SHA256"
	service     = "s3"
	requestType = "aws4_request"

	// amzDateFormat is ISO 8601 basic format, always UTC.
	amzDateFormat = "20060102T150405Z"
)

// Credentials holds the access key pair for an S3-compatible store.
type Credentials struct {
	// AccessKeyID is the public access key identifier
	AccessKeyID string

	// SecretAccessKey is the secret key used to derive signing keys.
	// It never appears in any request; only HMAC derivations of it do.
	SecretAccessKey string
}

// Signer computes SigV4 authorization headers for requests against a single
// region. It holds no mutable state and is safe for concurrent use.
type Signer struct {
	creds  Credentials
	region string
}

// New creates a Signer for the given credentials and region.
func New(creds Credentials, region string) *Signer {
	return &Signer{creds: creds, region: region}
}

// Request describes one HTTP request to sign.
type Request struct {
	// Method is the HTTP method ("PUT" or "DELETE" for store operations)
	Method string

	// Path is the canonical URI path, starting with "/"
	Path string

	// Host is the store host the request is sent to
	Host string

	// ContentType is the Content-Type header value; signed only when set
	ContentType string

	// ACL is the x-amz-acl header value; signed only when set
	ACL string

	// Body is the request payload; nil for bodiless requests
	Body []byte

	// Time is the request timestamp; the signature is valid around this instant
	Time time.Time
}

// Signature is the result of signing one request. All three values must be
// sent as headers exactly as returned.
type Signature struct {
	// Authorization is the Authorization header value
	Authorization string

	// AmzDate is the x-amz-date header value
	AmzDate string

	// ContentSHA256 is the x-amz-content-sha256 header value
	ContentSHA256 string
}

// canonicalHeader is one entry of the fixed signed-header set.
type canonicalHeader struct {
	name  string
	value string
}

// Sign computes the SigV4 signature for the request.
// It performs no I/O and fails only on malformed input.
func (s *Signer) Sign(req Request) (*Signature, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	t := req.Time.UTC()
	amzDate := t.Format(amzDateFormat)
	dateStamp := amzDate[:8]

	payloadHash := hashHex(req.Body)

	// The canonical header set, already sorted by lower-cased name.
	// Optional headers are appended in their sorted position only when set,
	// so the same slice drives both the canonical request and SignedHeaders.
	headers := make([]canonicalHeader, 0, 5)
	if req.ContentType != "" {
		headers = append(headers, canonicalHeader{"content-type", req.ContentType})
	}
	headers = append(headers, canonicalHeader{"host", req.Host})
	if req.ACL != "" {
		headers = append(headers, canonicalHeader{"x-amz-acl", req.ACL})
	}
	headers = append(headers,
		canonicalHeader{"x-amz-content-sha256", payloadHash},
		canonicalHeader{"x-amz-date", amzDate},
	)

	var canonicalHeaders, signedHeaders strings.Builder
	for i, h := range headers {
		canonicalHeaders.WriteString(h.name)
		canonicalHeaders.WriteByte(':')
		canonicalHeaders.WriteString(h.value)
		canonicalHeaders.WriteByte('\n')
		if i > 0 {
			signedHeaders.WriteByte(';')
		}
		signedHeaders.WriteString(h.name)
	}

	canonicalRequest := strings.Join([]string{
		req.Method,
		req.Path,
		"", // canonical query string; store operations carry no query
		canonicalHeaders.String(),
		signedHeaders.String(),
		payloadHash,
	}, "\n")

	credentialScope := dateStamp + "/" + s.region + "/" + service + "/" + requestType
	stringToSign := strings.Join([]string{
		algorithm,
		amzDate,
		credentialScope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	signingKey := s.deriveKey(dateStamp)
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	authorization := algorithm +
		" Credential=" + s.creds.AccessKeyID + "/" + credentialScope +
		", SignedHeaders=" + signedHeaders.String() +
		", Signature=" + signature

	return &Signature{
		Authorization: authorization,
		AmzDate:       amzDate,
		ContentSHA256: payloadHash,
	}, nil
}

// validate rejects signing input the canonical request cannot represent.
func (s *Signer) validate(req Request) error {
	switch {
	case s.creds.AccessKeyID == "" || s.creds.SecretAccessKey == "":
		return &uperrors.SigningError{Reason: "credentials are not set"}
	case s.region == "":
		return &uperrors.SigningError{Reason: "region is not set"}
	case req.Method == "":
		return &uperrors.SigningError{Reason: "method is empty"}
	case !strings.HasPrefix(req.Path, "/"):
		return &uperrors.SigningError{Reason: "path must start with /"}
	case req.Host == "":
		return &uperrors.SigningError{Reason: "host is empty"}
	case req.Time.IsZero():
		return &uperrors.SigningError{Reason: "timestamp is not set"}
	}
	for _, v := range []string{req.Path, req.Host, req.ContentType, req.ACL} {
		if strings.ContainsAny(v, "\r\n") {
			return &uperrors.SigningError{Reason: "header value contains line break"}
		}
	}
	return nil
}

// deriveKey runs the SigV4 key derivation chain for the given date.
func (s *Signer) deriveKey(dateStamp string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+s.creds.SecretAccessKey), dateStamp)
	kRegion := hmacSHA256(kDate, s.region)
	kService := hmacSHA256(kRegion, service)
	return hmacSHA256(kService, requestType)
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
