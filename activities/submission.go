package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"employer-registration/shared"
)

// SubmitRegistration sends the resolved record to the backend exactly once.
// Every outcome, including transport failures, is returned as a value.
func (a *Activities) SubmitRegistration(ctx context.Context, rec shared.RegistrationRecord) (shared.SubmissionOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Submitting employer registration",
		"companyName", rec.CompanyName,
		"email", rec.Email,
	)

	outcome, err := a.Submitter.Submit(ctx, rec)
	if err != nil {
		logger.Warn("Registration response not usable", "error", err)
	}

	logger.Info("Registration submitted", "success", outcome.Success, "message", outcome.Message)
	return outcome, nil
}
