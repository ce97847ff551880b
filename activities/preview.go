package activities

import (
	"context"

	"employer-registration/preview"
	"employer-registration/shared"
)

// RenderPreview builds the local preview for one asset generation. It runs as
// a local activity and never touches the network.
func RenderPreview(_ context.Context, req shared.PreviewRequest) (shared.PreviewResult, error) {
	uri, err := preview.DataURI(req.Data, req.MediaType)
	if err != nil {
		return shared.PreviewResult{Generation: req.Generation}, err
	}
	return shared.PreviewResult{Generation: req.Generation, Handle: uri}, nil
}
