package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employer-registration/storage"
)

func newClient(url string) *storage.Client {
	return storage.NewClient(storage.Config{
		Endpoint: url,
		Preset:   "JobPortal",
		BucketID: "ddvvgxnry",
	})
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "JobPortal", r.FormValue("upload_preset"))
		assert.Equal(t, "ddvvgxnry", r.FormValue("cloud_name"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "pngdata", string(data))
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure_url":"https://res.cloudinary.test/logo.png","public_id":"abc"}`)
	}))
	defer srv.Close()

	ref, err := newClient(srv.URL).Upload(context.Background(), "logo.png", []byte("pngdata"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.test/logo.png", ref.URL)
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"non-success status", http.StatusBadRequest, `{"error":{"message":"Upload preset not found"}}`, "Upload preset not found"},
		{"server error without body", http.StatusInternalServerError, ``, "500 Internal Server Error"},
		{"missing url", http.StatusOK, `{"public_id":"abc"}`, "response has no usable secure_url"},
		{"relative url", http.StatusOK, `{"secure_url":"/logo.png"}`, "response has no usable secure_url"},
		{"malformed body", http.StatusOK, `<html>oops</html>`, "malformed response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(srv.URL).Upload(context.Background(), "logo.png", []byte("pngdata"), "image/png")
			var ue *storage.UploadError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.reason, ue.Reason)
			assert.Equal(t, tt.status, ue.StatusCode)
		})
	}
}

func TestUpload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(url).Upload(context.Background(), "logo.png", []byte("pngdata"), "image/png")
	var ue *storage.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "storage service unreachable", ue.Reason)
}

func TestUpload_RejectsBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	client := newClient(srv.URL)

	var ue *storage.UploadError
	_, err := client.Upload(context.Background(), "logo.gif", []byte("GIF89a"), "image/gif")
	assert.ErrorAs(t, err, &ue)

	_, err = client.Upload(context.Background(), "logo.png", nil, "image/png")
	assert.ErrorAs(t, err, &ue)

	assert.Zero(t, calls.Load())
}
