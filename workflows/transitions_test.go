package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"employer-registration/shared"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to shared.RegistrationStatus
		want     bool
	}{
		{shared.StatusIdle, shared.StatusValidating, true},
		{shared.StatusValidating, shared.StatusFailed, true},
		{shared.StatusValidating, shared.StatusUploadingAsset, true},
		{shared.StatusUploadingAsset, shared.StatusSubmitting, true},
		{shared.StatusUploadingAsset, shared.StatusFailed, true},
		{shared.StatusSubmitting, shared.StatusSucceeded, true},
		{shared.StatusSubmitting, shared.StatusFailed, true},
		{shared.StatusFailed, shared.StatusValidating, true},

		{shared.StatusIdle, shared.StatusUploadingAsset, false},
		{shared.StatusValidating, shared.StatusSubmitting, false},
		{shared.StatusUploadingAsset, shared.StatusSucceeded, false},
		{shared.StatusSucceeded, shared.StatusValidating, false},
		{shared.StatusFailed, shared.StatusSubmitting, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
