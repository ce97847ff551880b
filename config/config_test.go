package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employer-registration/config"
	"employer-registration/shared"
)

var testKey = strings.Repeat("0f", 32)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("REGISTRATION_CODEC_KEY", testKey)
	t.Setenv("API_BASE_URL", "https://jobs.example.com")
	t.Setenv("SUBMIT_TIMEOUT", "5s")
	t.Setenv("MAX_LOGO_BYTES", "1024")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost:7233", cfg.TemporalHostPort)
	assert.Equal(t, "https://jobs.example.com", cfg.APIBaseURL)
	assert.Equal(t, "JobPortal", cfg.UploadPreset)
	assert.Equal(t, 5*time.Second, cfg.SubmitTimeout)
	assert.Equal(t, shared.DefaultUploadTimeout, cfg.UploadTimeout)
	assert.Equal(t, 1024, cfg.MaxLogoBytes)

	settings := cfg.RegistrationSettings()
	assert.Equal(t, 5*time.Second, settings.SubmitTimeout)
	assert.Equal(t, 1024, settings.MaxLogoBytes)

	dc, err := cfg.DataConverter()
	require.NoError(t, err)
	assert.NotNil(t, dc)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
temporalHostPort: temporal.internal:7233
uploadPreset: Staging
sessionIdleTimeout: 10m
logFormat: json
`), 0o600))

	t.Setenv("REGISTRATION_CODEC_KEY", testKey)
	t.Setenv("UPLOAD_PRESET", "FromEnv")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "temporal.internal:7233", cfg.TemporalHostPort)
	assert.Equal(t, "FromEnv", cfg.UploadPreset)
	assert.Equal(t, 10*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("REGISTRATION_CODEC_KEY", "abcd")
	t.Setenv("API_BASE_URL", "not a url")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := config.Load("")
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "api base URL")
	assert.Contains(t, msg, "log format")
	assert.Contains(t, msg, "REGISTRATION_CODEC_KEY")
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("REGISTRATION_CODEC_KEY", testKey)
	t.Setenv("UPLOAD_TIMEOUT", "soon")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "UPLOAD_TIMEOUT")
}

func TestValidate_MissingKey(t *testing.T) {
	err := config.Default().Validate()
	assert.ErrorContains(t, err, "REGISTRATION_CODEC_KEY is required")
}

func TestClientOptions(t *testing.T) {
	cfg := config.Default()
	cfg.CodecKeyHex = testKey
	cfg.TemporalNamespace = "registration"

	opts, err := cfg.ClientOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7233", opts.HostPort)
	assert.Equal(t, "registration", opts.Namespace)
	assert.NotNil(t, opts.DataConverter)

	cfg.CodecKeyHex = "nope"
	_, err = cfg.ClientOptions(nil)
	assert.Error(t, err)
}
