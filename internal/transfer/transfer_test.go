package transfer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uperrors "github.com/grassyhq/uplink/errors"
)

func TestPut_Success(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.Client())
	headers := http.Header{}
	headers.Set("Content-Type", "image/jpeg")

	err := client.Put(context.Background(), server.URL+"/R1/a.jpg", []byte("payload"), headers)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("payload"), gotBody)
}

func TestPut_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"forbidden", http.StatusForbidden, false},
		{"not_found", http.StatusNotFound, false},
		{"server_error", http.StatusInternalServerError, true},
		{"bad_gateway", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := New(server.Client()).Put(context.Background(), server.URL, []byte("x"), nil)
			var te *uperrors.TransferError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.retryable, te.Retryable())
		})
	}
}

func TestPut_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	err := New(nil).Put(context.Background(), server.URL, []byte("x"), nil)
	var te *uperrors.TransferError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.True(t, te.Retryable())
	assert.Error(t, te.Err)
}

func TestDelete_Success(t *testing.T) {
	var gotMethod, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Authorization", "AWS4-HMAC-SHA256 Credential=...")

	err := New(server.Client()).Delete(context.Background(), server.URL+"/R1/a.jpg", headers)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.NotEmpty(t, gotAuth)
}

func TestPut_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	err := New(server.Client()).Put(ctx, server.URL, []byte("x"), nil)
	var te *uperrors.TransferError
	require.ErrorAs(t, err, &te)
}
