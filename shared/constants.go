package shared

import "time"

// Task queue names.
const (
	RegistrationWorkflowTaskQueue = "employer-registration-workflow-tq"
	ActivityTaskQueue             = "employer-registration-activity-tq"
)

// Signal and query names.
const (
	SignalFieldChanged  = "signal-field-changed"
	SignalAssetSelected = "signal-asset-selected"
	SignalSubmit        = "signal-submit"
	SignalReset         = "signal-reset"
	SignalAbandon       = "signal-abandon"
	QueryRegistration   = "query-registration-state"
)

// Session defaults, applied when RegistrationSettings leaves a value unset.
const (
	DefaultIdleTimeout    = 30 * time.Minute
	DefaultUploadTimeout  = 30 * time.Second
	DefaultSubmitTimeout  = 15 * time.Second
	DefaultPreviewTimeout = 5 * time.Second
	DefaultMaxLogoBytes   = 1 << 20 // stays below the 2 MB Temporal payload limit
)

// Error types for non-retryable failures.
const (
	ErrTypeAssetUploadFailed = "AssetUploadFailed"
)

// Navigation targets.
const (
	RouteSignIn = "/login"
)

// User-facing notification texts.
const (
	MessageUploadFailed     = "Unable To Upload Image"
	MessageUnexpectedError  = "Error occurred while uploading image or submitting form."
	MessageFixFieldErrors   = "Please correct the highlighted fields"
	MessageRegistrationDone = "Registration successful"
)
