package shared

import "time"

// RegistrationStatus represents the current state of an employer registration attempt.
type RegistrationStatus string

const (
	StatusIdle           RegistrationStatus = "IDLE"
	StatusValidating     RegistrationStatus = "VALIDATING"
	StatusUploadingAsset RegistrationStatus = "UPLOADING_ASSET"
	StatusSubmitting     RegistrationStatus = "SUBMITTING"
	StatusSucceeded      RegistrationStatus = "SUCCEEDED"
	StatusFailed         RegistrationStatus = "FAILED"
)

// InFlight reports whether a registration attempt is outstanding in this status.
func (s RegistrationStatus) InFlight() bool {
	switch s {
	case StatusValidating, StatusUploadingAsset, StatusSubmitting:
		return true
	default:
		return false
	}
}

// AttemptOutcome is the reduced result of one submit attempt.
type AttemptOutcome string

const (
	OutcomeNone            AttemptOutcome = ""
	OutcomeSuccess         AttemptOutcome = "success"
	OutcomeValidationError AttemptOutcome = "validation-error"
	OutcomeUploadError     AttemptOutcome = "upload-error"
	OutcomeSubmissionError AttemptOutcome = "submission-error"
)

// SessionOutcome describes how a registration session ended.
type SessionOutcome string

const (
	SessionRegistered SessionOutcome = "registered"
	SessionAbandoned  SessionOutcome = "abandoned"
	SessionExpired    SessionOutcome = "expired"
)

// NotificationLevel is the severity of a transient user notification.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// RegistrationSettings tunes a single session. Zero values fall back to the defaults.
type RegistrationSettings struct {
	IdleTimeout    time.Duration `json:"idleTimeout"`
	UploadTimeout  time.Duration `json:"uploadTimeout"`
	SubmitTimeout  time.Duration `json:"submitTimeout"`
	PreviewTimeout time.Duration `json:"previewTimeout"`
	MaxLogoBytes   int           `json:"maxLogoBytes"`
}

// WithDefaults returns a copy with every unset value replaced by its default.
func (s RegistrationSettings) WithDefaults() RegistrationSettings {
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.UploadTimeout <= 0 {
		s.UploadTimeout = DefaultUploadTimeout
	}
	if s.SubmitTimeout <= 0 {
		s.SubmitTimeout = DefaultSubmitTimeout
	}
	if s.PreviewTimeout <= 0 {
		s.PreviewTimeout = DefaultPreviewTimeout
	}
	if s.MaxLogoBytes <= 0 {
		s.MaxLogoBytes = DefaultMaxLogoBytes
	}
	return s
}

// RegistrationSession is the input to the RegistrationWorkflow.
type RegistrationSession struct {
	SessionID string               `json:"sessionId"`
	Settings  RegistrationSettings `json:"settings"`
}

// FieldChange is the payload of SignalFieldChanged.
type FieldChange struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// AssetSelection is the payload of SignalAssetSelected. Empty Data clears the selection.
type AssetSelection struct {
	Name      string `json:"name"`
	Data      []byte `json:"data"`
	MediaType string `json:"mediaType"`
}

// PreviewRequest is the input to the RenderPreview local activity.
type PreviewRequest struct {
	Generation int    `json:"generation"`
	Data       []byte `json:"data"`
	MediaType  string `json:"mediaType"`
}

// PreviewResult is the output of the RenderPreview local activity.
type PreviewResult struct {
	Generation int    `json:"generation"`
	Handle     string `json:"handle"`
}

// UploadRequest is the input to the UploadAsset activity.
type UploadRequest struct {
	FileName  string `json:"fileName"`
	Data      []byte `json:"data"`
	MediaType string `json:"mediaType"`
}

// UploadedAssetRef points at the durable copy of an uploaded asset.
type UploadedAssetRef struct {
	URL string `json:"url"`
}

// SubmissionOutcome is the interpreted backend response to a registration.
type SubmissionOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded builds a successful SubmissionOutcome.
func Succeeded(message string) SubmissionOutcome {
	return SubmissionOutcome{Success: true, Message: message}
}

// Failed builds a failed SubmissionOutcome.
func Failed(message string) SubmissionOutcome {
	return SubmissionOutcome{Success: false, Message: message}
}

// Notification is a transient, attempt-level message for the user.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// AssetInfo describes the selected asset without its bytes.
type AssetInfo struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Size      int    `json:"size"`
}

// PreviewState is the preview currently shown for the selected asset.
type PreviewState struct {
	Handle     string `json:"handle,omitempty"`
	Generation int    `json:"generation"`
}

// RegistrationState is returned by the query handler.
type RegistrationState struct {
	Status       RegistrationStatus `json:"status"`
	InFlight     bool               `json:"inFlight"`
	Attempt      int                `json:"attempt"`
	Fields       map[string]string  `json:"fields"`
	Asset        *AssetInfo         `json:"asset,omitempty"`
	Preview      PreviewState       `json:"preview"`
	FieldErrors  map[string]string  `json:"fieldErrors,omitempty"`
	LastOutcome  AttemptOutcome     `json:"lastOutcome,omitempty"`
	Notification *Notification      `json:"notification,omitempty"`
}

// RegistrationResult is the output of the RegistrationWorkflow.
type RegistrationResult struct {
	Outcome        SessionOutcome `json:"outcome"`
	Message        string         `json:"message,omitempty"`
	Redirect       string         `json:"redirect,omitempty"`
	CompanyLogoURL string         `json:"companyLogoUrl,omitempty"`
}
