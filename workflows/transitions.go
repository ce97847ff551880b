package workflows

import "employer-registration/shared"

// legalTransitions is the registration state machine. Reset is handled
// separately and may return any non-terminal state to Idle.
var legalTransitions = map[shared.RegistrationStatus][]shared.RegistrationStatus{
	shared.StatusIdle:           {shared.StatusValidating},
	shared.StatusValidating:     {shared.StatusUploadingAsset, shared.StatusFailed},
	shared.StatusUploadingAsset: {shared.StatusSubmitting, shared.StatusFailed},
	shared.StatusSubmitting:     {shared.StatusSucceeded, shared.StatusFailed},
	shared.StatusFailed:         {shared.StatusValidating},
}

func canTransition(from, to shared.RegistrationStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
