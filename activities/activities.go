package activities

import (
	"context"

	"employer-registration/shared"
)

// Uploader stores a logo and returns its durable URL. *storage.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, fileName string, data []byte, mediaType string) (shared.UploadedAssetRef, error)
}

// Submitter sends a registration record to the backend. *backend.Submitter implements it.
type Submitter interface {
	Submit(ctx context.Context, rec shared.RegistrationRecord) (shared.SubmissionOutcome, error)
}

// Activities is the receiver for all activity methods. Using a struct allows
// Temporal to auto-discover and register all methods via RegisterActivity(a),
// and lets the worker inject the storage and backend clients. Tests replace
// them with fakes.
type Activities struct {
	Uploader  Uploader
	Submitter Submitter
}
