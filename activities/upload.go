package activities

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"employer-registration/shared"
	"employer-registration/storage"
)

// UploadAsset sends the selected company logo to object storage. Upload
// failures are non-retryable; the user decides whether to submit again.
func (a *Activities) UploadAsset(ctx context.Context, req shared.UploadRequest) (shared.UploadedAssetRef, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Uploading company logo",
		"fileName", req.FileName,
		"mediaType", req.MediaType,
		"size", len(req.Data),
	)

	ref, err := a.Uploader.Upload(ctx, req.FileName, req.Data, req.MediaType)
	if err != nil {
		var ue *storage.UploadError
		if errors.As(err, &ue) {
			logger.Warn("Company logo upload failed", "reason", ue.Reason, "statusCode", ue.StatusCode)
		} else {
			logger.Warn("Company logo upload failed", "error", err)
		}
		return shared.UploadedAssetRef{}, temporal.NewNonRetryableApplicationError(
			err.Error(),
			shared.ErrTypeAssetUploadFailed,
			err,
		)
	}

	logger.Info("Company logo uploaded", "url", ref.URL)
	return ref, nil
}
