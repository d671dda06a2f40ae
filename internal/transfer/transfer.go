// Package transfer executes single object transfers against a destination
// URL. It performs exactly one PUT or DELETE per call; retry is layered on
// top by the caller.
package transfer

import (
	"bytes"
	"context"
	"io"
	"net/http"

	uperrors "github.com/grassyhq/uplink/errors"
)

// Client executes authenticated or presigned object transfers.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	http *http.Client
}

// New creates a transfer client backed by the given HTTP client.
// A nil client falls back to http.DefaultClient.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// Put uploads body to url with the supplied headers. Any 2xx response is
// success; everything else surfaces as a TransferError.
func (c *Client) Put(ctx context.Context, url string, body []byte, headers http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return &uperrors.TransferError{Err: err}
	}
	req.ContentLength = int64(len(body))
	applyHeaders(req, headers)

	return c.do(req)
}

// Delete removes the object at url with the supplied headers.
func (c *Client) Delete(ctx context.Context, url string, headers http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return &uperrors.TransferError{Err: err}
	}
	applyHeaders(req, headers)

	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// Transport-level failure: no status code to report.
		return &uperrors.TransferError{Err: err}
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &uperrors.TransferError{StatusCode: resp.StatusCode}
	}
	return nil
}

func applyHeaders(req *http.Request, headers http.Header) {
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
}
