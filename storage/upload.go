// Package storage sends company logos to the external object-storage service.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"employer-registration/shared"
)

// Multipart field names understood by the upload endpoint.
const (
	fieldFile     = "file"
	fieldPreset   = "upload_preset"
	fieldBucketID = "cloud_name"
)

const maxResponseBytes = 1 << 20

// UploadError reports why an upload produced no usable URL.
type UploadError struct {
	Reason     string
	StatusCode int
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("asset upload failed (HTTP %d): %s", e.StatusCode, e.Reason)
	}
	return "asset upload failed: " + e.Reason
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Config identifies the upload endpoint and the preset/bucket sent with every file.
type Config struct {
	Endpoint   string
	Preset     string
	BucketID   string
	HTTPClient *http.Client
}

// Client uploads one file per call. It never retries.
type Client struct {
	endpoint string
	preset   string
	bucketID string
	http     *http.Client
}

// NewClient builds a Client. A nil HTTPClient uses http.DefaultClient.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		endpoint: cfg.Endpoint,
		preset:   cfg.Preset,
		bucketID: cfg.BucketID,
		http:     hc,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends data to the storage endpoint and returns the durable URL.
// Type constraints are enforced before any request is made.
func (c *Client) Upload(ctx context.Context, fileName string, data []byte, mediaType string) (shared.UploadedAssetRef, error) {
	if len(data) == 0 {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "empty file"}
	}
	if !shared.IsAllowedLogoType(mediaType) {
		return shared.UploadedAssetRef{}, &UploadError{Reason: fmt.Sprintf("unsupported media type %q", mediaType)}
	}

	body, contentType, err := c.encode(fileName, data, mediaType)
	if err != nil {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "storage service unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "reading response", StatusCode: resp.StatusCode, Err: err}
	}

	var parsed uploadResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			reason = parsed.Error.Message
		}
		return shared.UploadedAssetRef{}, &UploadError{Reason: reason, StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "malformed response", StatusCode: resp.StatusCode, Err: decodeErr}
	}
	if !usableURL(parsed.SecureURL) {
		return shared.UploadedAssetRef{}, &UploadError{Reason: "response has no usable secure_url", StatusCode: resp.StatusCode}
	}

	return shared.UploadedAssetRef{URL: parsed.SecureURL}, nil
}

func (c *Client) encode(fileName string, data []byte, mediaType string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if fileName == "" {
		fileName = "logo"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFile, fileName))
	h.Set("Content-Type", strings.ToLower(mediaType))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(fieldPreset, c.preset); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(fieldBucketID, c.bucketID); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func usableURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
