// Package negotiate talks to the intermediating upload API: it requests
// upload slots for a batch manifest and later confirms the completed batch.
package negotiate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	uperrors "github.com/grassyhq/uplink/errors"
)

// Client is the wire client for the negotiating API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a negotiating API client rooted at baseURL.
// A nil HTTP client falls back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Manifest is the slot-allocation request body.
type Manifest struct {
	UserID   string      `json:"userId"`
	Metadata Metadata    `json:"metadata"`
	Images   []ImageInfo `json:"images"`
}

// Metadata carries per-batch request metadata. A fresh SessionID per call
// keeps batches independent; identical manifests are never deduplicated.
type Metadata struct {
	UploadSource string `json:"uploadSource"`
	SessionID    string `json:"sessionId"`
	Timestamp    string `json:"timestamp"`
}

// ImageInfo describes one object in the manifest.
type ImageInfo struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Response is the slot-allocation response.
type Response struct {
	RecordID string       `json:"recordId"`
	Uploads  []SlotUpload `json:"uploads"`
}

// SlotUpload pairs a filename with the presigned URL allocated for it.
type SlotUpload struct {
	Filename     string `json:"filename"`
	PresignedURL string `json:"presignedUrl"`
}

// ConfirmResponse is the confirmation response. Success is authoritative:
// HTTP 200 with Success=false is still a confirmation failure.
type ConfirmResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"recordId"`
	Message  string `json:"message,omitempty"`
}

// Negotiate submits the batch manifest and returns the allocated record
// identifier and upload slots. Any non-200 response or malformed body is a
// NegotiationError.
func (c *Client) Negotiate(ctx context.Context, manifest Manifest) (*Response, error) {
	body, err := json.Marshal(manifest)
	if err != nil {
		return nil, &uperrors.NegotiationError{Err: fmt.Errorf("encoding manifest: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/upload", bytes.NewReader(body))
	if err != nil {
		return nil, &uperrors.NegotiationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &uperrors.NegotiationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &uperrors.NegotiationError{StatusCode: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &uperrors.NegotiationError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", err),
		}
	}
	if out.RecordID == "" {
		return nil, &uperrors.NegotiationError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response carries no record id"),
		}
	}
	return &out, nil
}

// Confirm finalizes the batch identified by recordID. The API's success
// flag decides the outcome, not just the HTTP status.
func (c *Client) Confirm(ctx context.Context, recordID string) (*ConfirmResponse, error) {
	url := c.baseURL + "/images/" + recordID + "/confirm"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader("{}"))
	if err != nil {
		return nil, &uperrors.ConfirmationError{Record: recordID, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &uperrors.ConfirmationError{Record: recordID, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &uperrors.ConfirmationError{Record: recordID, StatusCode: resp.StatusCode}
	}

	var out ConfirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &uperrors.ConfirmationError{
			Record:     recordID,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("decoding response: %v", err),
		}
	}
	if !out.Success {
		return nil, &uperrors.ConfirmationError{
			Record:     recordID,
			StatusCode: resp.StatusCode,
			Message:    out.Message,
		}
	}
	return &out, nil
}
