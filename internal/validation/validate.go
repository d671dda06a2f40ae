// Package validation provides input validation applied before any network
// call. Bucket names, object keys and filenames are checked against
// S3-compatible store rules, including path-traversal prevention.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	uperrors "github.com/grassyhq/uplink/errors"
)

// mimePattern matches a bare MIME type with optional parameters.
var mimePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-+]*\/[a-zA-Z0-9][a-zA-Z0-9\-+.]*(\s*;.*)?$`)

// ValidateBucketName validates that a bucket name is DNS-compliant.
// Returns ErrInvalidBucketName when it is not.
func ValidateBucketName(bucket string) error {
	invalid := func(msg string) error {
		return uperrors.NewError("validateBucketName", uperrors.ErrInvalidBucketName).WithMessage(msg)
	}

	if bucket == "" {
		return invalid("bucket name cannot be empty")
	}
	if len(bucket) < 3 || len(bucket) > 63 {
		return invalid("bucket name must be between 3 and 63 characters long")
	}
	for _, r := range bucket {
		if !isBucketChar(r) {
			return invalid("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}
	if strings.HasPrefix(bucket, "-") || strings.HasPrefix(bucket, ".") ||
		strings.HasSuffix(bucket, "-") || strings.HasSuffix(bucket, ".") {
		return invalid("bucket name cannot start or end with a hyphen or dot")
	}
	if strings.Contains(bucket, "..") || strings.Contains(bucket, "--") {
		return invalid("bucket name cannot contain adjacent dots or hyphens")
	}
	return nil
}

// ValidateObjectKey validates an object key or filename. This prevents path
// traversal and control characters; keys are otherwise free-form UTF-8 up to
// 1024 bytes.
func ValidateObjectKey(key string) error {
	invalid := func(msg string) error {
		return uperrors.NewError("validateObjectKey", uperrors.ErrInvalidObjectKey).WithMessage(msg)
	}

	if key == "" {
		return invalid("object key cannot be empty")
	}
	if len(key) > 1024 {
		return invalid("object key cannot exceed 1024 bytes")
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return invalid("object key cannot contain path traversal sequences")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return invalid("object key cannot contain control characters")
		}
	}
	return nil
}

// ValidateContentType validates that a content type is a well-formed MIME
// type. The empty content type is allowed; the transfer leaves the header
// unset in that case.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if !mimePattern.MatchString(contentType) {
		return uperrors.NewError("validateContentType", uperrors.ErrInvalidInput).
			WithMessage("content type must be a valid MIME type")
	}
	return nil
}

func isBucketChar(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || r == '.' || r == '-'
}
