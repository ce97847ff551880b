// Package config loads worker and CLI settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/log"
	"gopkg.in/yaml.v3"

	"employer-registration/codec"
	"employer-registration/shared"
)

// Config holds every process-level setting.
type Config struct {
	TemporalHostPort  string `yaml:"temporalHostPort"`
	TemporalNamespace string `yaml:"temporalNamespace"`

	APIBaseURL     string `yaml:"apiBaseUrl"`
	UploadEndpoint string `yaml:"uploadEndpoint"`
	UploadPreset   string `yaml:"uploadPreset"`
	UploadBucketID string `yaml:"uploadBucketId"`

	CodecKeyHex string `yaml:"codecKey"`
	CodecKeyID  string `yaml:"codecKeyId"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	UploadTimeout      time.Duration `yaml:"uploadTimeout"`
	SubmitTimeout      time.Duration `yaml:"submitTimeout"`
	SessionIdleTimeout time.Duration `yaml:"sessionIdleTimeout"`
	MaxLogoBytes       int           `yaml:"maxLogoBytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TemporalHostPort:   "localhost:7233",
		TemporalNamespace:  "default",
		APIBaseURL:         "http://localhost:5000",
		UploadEndpoint:     "https://api.cloudinary.com/v1_1/ddvvgxnry/image/upload",
		UploadPreset:       "JobPortal",
		UploadBucketID:     "ddvvgxnry",
		CodecKeyID:         "default",
		LogLevel:           "info",
		LogFormat:          "text",
		UploadTimeout:      shared.DefaultUploadTimeout,
		SubmitTimeout:      shared.DefaultSubmitTimeout,
		SessionIdleTimeout: shared.DefaultIdleTimeout,
		MaxLogoBytes:       shared.DefaultMaxLogoBytes,
	}
}

// Load builds the configuration. path may be empty; a missing .env file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.TemporalHostPort, "TEMPORAL_HOST_PORT")
	setString(&c.TemporalNamespace, "TEMPORAL_NAMESPACE")
	setString(&c.APIBaseURL, "API_BASE_URL")
	setString(&c.UploadEndpoint, "UPLOAD_ENDPOINT")
	setString(&c.UploadPreset, "UPLOAD_PRESET")
	setString(&c.UploadBucketID, "UPLOAD_BUCKET_ID")
	setString(&c.CodecKeyHex, "REGISTRATION_CODEC_KEY")
	setString(&c.CodecKeyID, "REGISTRATION_CODEC_KEY_ID")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	var errs []error
	errs = append(errs,
		setDuration(&c.UploadTimeout, "UPLOAD_TIMEOUT"),
		setDuration(&c.SubmitTimeout, "SUBMIT_TIMEOUT"),
		setDuration(&c.SessionIdleTimeout, "SESSION_IDLE_TIMEOUT"),
	)
	if v, ok := os.LookupEnv("MAX_LOGO_BYTES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_LOGO_BYTES: %w", err))
		} else {
			c.MaxLogoBytes = n
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.TemporalHostPort) == "" {
		errs = append(errs, errors.New("temporal host:port is required"))
	}
	if err := checkURL("api base URL", c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := checkURL("upload endpoint", c.UploadEndpoint); err != nil {
		errs = append(errs, err)
	}
	if c.UploadPreset == "" || c.UploadBucketID == "" {
		errs = append(errs, errors.New("upload preset and bucket id are required"))
	}
	if c.UploadTimeout <= 0 || c.SubmitTimeout <= 0 || c.SessionIdleTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.MaxLogoBytes <= 0 {
		errs = append(errs, errors.New("max logo bytes must be positive"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.CodecKeyHex == "" {
		errs = append(errs, errors.New("REGISTRATION_CODEC_KEY is required"))
	} else if _, err := codec.ParseHexKey(c.CodecKeyHex); err != nil {
		errs = append(errs, fmt.Errorf("REGISTRATION_CODEC_KEY: %w", err))
	}
	return errors.Join(errs...)
}

// DataConverter builds the payload-encrypting converter shared by workers and the CLI.
func (c Config) DataConverter() (converter.DataConverter, error) {
	key, err := codec.ParseHexKey(c.CodecKeyHex)
	if err != nil {
		return nil, err
	}
	return codec.NewDataConverter(c.CodecKeyID, key)
}

// RegistrationSettings converts the session-related values for the workflow input.
func (c Config) RegistrationSettings() shared.RegistrationSettings {
	return shared.RegistrationSettings{
		IdleTimeout:   c.SessionIdleTimeout,
		UploadTimeout: c.UploadTimeout,
		SubmitTimeout: c.SubmitTimeout,
		MaxLogoBytes:  c.MaxLogoBytes,
	}.WithDefaults()
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s %q is not an absolute URL", name, raw)
	}
	return nil
}

// ClientOptions returns Temporal client options carrying the encrypting data
// converter and logger.
func (c Config) ClientOptions(logger log.Logger) (client.Options, error) {
	dc, err := c.DataConverter()
	if err != nil {
		return client.Options{}, err
	}
	return client.Options{
		HostPort:      c.TemporalHostPort,
		Namespace:     c.TemporalNamespace,
		Logger:        logger,
		DataConverter: dc,
	}, nil
}
