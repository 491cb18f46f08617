package services_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gallery-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploader_PutsBodyToSignedURL(t *testing.T) {
	payload := bytes.Repeat([]byte{'j'}, 48*1024)

	var gotMethod, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var lastSent int64
	uploader := services.NewUploader()
	err := uploader.Upload(context.Background(), server.URL, "image/jpeg", bytes.NewReader(payload), int64(len(payload)), func(sent int64) {
		assert.Greater(t, sent, lastSent)
		lastSent = sent
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, int64(len(payload)), lastSent)
}

func TestUploader_DefaultsContentType(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	uploader := services.NewUploader()
	err := uploader.Upload(context.Background(), server.URL, "", bytes.NewReader([]byte("x")), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestUploader_NonSuccessStatusIsTransferFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "signature expired", http.StatusForbidden)
	}))
	defer server.Close()

	uploader := services.NewUploader()
	err := uploader.Upload(context.Background(), server.URL, "image/jpeg", bytes.NewReader([]byte("x")), 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrTransferFailed)
	assert.Contains(t, err.Error(), "403")
}

func TestUploader_ConnectionFailureIsTransferFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	uploader := services.NewUploader()
	err := uploader.Upload(context.Background(), server.URL, "image/jpeg", bytes.NewReader([]byte("x")), 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrTransferFailed)
}
