package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"employer-registration/activities"
	"employer-registration/shared"
	"employer-registration/validation"
)

// registrationWorkflow holds the state of one employer registration form
// session and provides a handler for every user event and async completion.
type registrationWorkflow struct {
	// Form state
	draft       shared.FormDraft
	touched     map[string]bool
	submitted   bool
	fieldErrors validation.Result

	// Attempt state
	status       shared.RegistrationStatus
	attempt      int
	generation   int
	lastOutcome  shared.AttemptOutcome
	notification *shared.Notification

	// Session state
	settings  shared.RegistrationSettings
	lastEvent time.Time
	done      bool
	result    shared.RegistrationResult

	// Workflow context
	logger     log.Logger
	validator  *validation.Validator
	selector   workflow.Selector
	uploadCtx  workflow.Context
	submitCtx  workflow.Context
	previewCtx workflow.Context
}

// newRegistrationWorkflow initializes the workflow struct, registers the query
// handler, wires the signal channels into one selector and sets up activity options.
func newRegistrationWorkflow(ctx workflow.Context, session shared.RegistrationSession) (*registrationWorkflow, error) {
	settings := session.Settings.WithDefaults()
	w := &registrationWorkflow{
		touched:   map[string]bool{},
		status:    shared.StatusIdle,
		settings:  settings,
		lastEvent: workflow.Now(ctx),
		logger:    workflow.GetLogger(ctx),
		validator: validation.New(validation.WithMaxLogoBytes(settings.MaxLogoBytes)),
		selector:  workflow.NewSelector(ctx),
	}
	w.fieldErrors = w.validator.Validate(w.draft)

	if err := workflow.SetQueryHandler(ctx, shared.QueryRegistration, func() (shared.RegistrationState, error) {
		return w.state(), nil
	}); err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	noRetry := &temporal.RetryPolicy{MaximumAttempts: 1}
	w.uploadCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: settings.UploadTimeout,
		RetryPolicy:         noRetry,
	})
	w.submitCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: settings.SubmitTimeout,
		RetryPolicy:         noRetry,
	})
	w.previewCtx = workflow.WithLocalActivityOptions(ctx, workflow.LocalActivityOptions{
		StartToCloseTimeout: settings.PreviewTimeout,
		RetryPolicy:         noRetry,
	})

	w.selector.AddReceive(workflow.GetSignalChannel(ctx, shared.SignalFieldChanged), func(c workflow.ReceiveChannel, _ bool) {
		var change shared.FieldChange
		c.Receive(ctx, &change)
		w.onFieldChanged(ctx, change)
	})
	w.selector.AddReceive(workflow.GetSignalChannel(ctx, shared.SignalAssetSelected), func(c workflow.ReceiveChannel, _ bool) {
		var sel shared.AssetSelection
		c.Receive(ctx, &sel)
		w.onAssetSelected(ctx, sel)
	})
	w.selector.AddReceive(workflow.GetSignalChannel(ctx, shared.SignalSubmit), func(c workflow.ReceiveChannel, _ bool) {
		c.Receive(ctx, nil)
		w.onSubmit(ctx)
	})
	w.selector.AddReceive(workflow.GetSignalChannel(ctx, shared.SignalReset), func(c workflow.ReceiveChannel, _ bool) {
		c.Receive(ctx, nil)
		w.onReset(ctx)
	})
	w.selector.AddReceive(workflow.GetSignalChannel(ctx, shared.SignalAbandon), func(c workflow.ReceiveChannel, _ bool) {
		c.Receive(ctx, nil)
		w.logger.Info("Registration abandoned", "attempt", w.attempt)
		w.finish(shared.RegistrationResult{Outcome: shared.SessionAbandoned})
	})

	return w, nil
}

// RegistrationWorkflow orchestrates one employer registration form session.
//
// User events arrive as signals; the asset preview, the logo upload and the
// record submission run as activities whose completions resume the state machine:
//
//	Idle → Validating → UploadingAsset → Submitting → Succeeded | Failed
//
// Only one attempt is in flight at a time. Every completion carries the
// attempt token it was started with and is dropped if the token is stale.
// The session ends on success, abandonment or after IdleTimeout without events.
func RegistrationWorkflow(ctx workflow.Context, session shared.RegistrationSession) (shared.RegistrationResult, error) {
	w, err := newRegistrationWorkflow(ctx, session)
	if err != nil {
		return shared.RegistrationResult{}, err
	}

	w.logger.Info("Registration session started", "sessionId", session.SessionID)
	w.armIdleTimer(ctx, w.settings.IdleTimeout)

	for !w.done {
		w.selector.Select(ctx)
	}

	w.logger.Info("Registration session finished", "outcome", w.result.Outcome)
	return w.result, nil
}

func (w *registrationWorkflow) onFieldChanged(ctx workflow.Context, change shared.FieldChange) {
	w.lastEvent = workflow.Now(ctx)
	if err := w.draft.Set(change.Field, change.Value); err != nil {
		w.logger.Warn("Ignoring field change", "field", change.Field, "error", err)
		return
	}
	w.touched[change.Field] = true
	w.revalidate()
}

func (w *registrationWorkflow) onAssetSelected(ctx workflow.Context, sel shared.AssetSelection) {
	w.lastEvent = workflow.Now(ctx)
	w.touched[shared.FieldCompanyLogo] = true

	if len(sel.Data) == 0 {
		w.logger.Info("Company logo cleared")
		w.draft.CompanyLogo = nil
		w.revalidate()
		return
	}

	w.generation++
	w.draft.CompanyLogo = &shared.SelectedAsset{
		Name:       sel.Name,
		Data:       sel.Data,
		MediaType:  sel.MediaType,
		Generation: w.generation,
	}
	w.revalidate()
	w.logger.Info("Company logo selected",
		"name", sel.Name,
		"mediaType", sel.MediaType,
		"size", len(sel.Data),
		"generation", w.generation,
	)

	req := shared.PreviewRequest{Generation: w.generation, Data: sel.Data, MediaType: sel.MediaType}
	f := workflow.ExecuteLocalActivity(w.previewCtx, activities.RenderPreview, req)
	w.selector.AddFuture(f, func(f workflow.Future) {
		var res shared.PreviewResult
		if err := f.Get(ctx, &res); err != nil {
			w.logger.Warn("Preview failed", "generation", req.Generation, "error", err)
			return
		}
		logo := w.draft.CompanyLogo
		if logo == nil || logo.Generation != req.Generation {
			w.logger.Debug("Discarding stale preview", "generation", req.Generation)
			return
		}
		logo.PreviewHandle = res.Handle
	})
}

func (w *registrationWorkflow) onSubmit(ctx workflow.Context) {
	w.lastEvent = workflow.Now(ctx)
	if w.status.InFlight() {
		w.logger.Info("Ignoring submit while a registration is in flight",
			"attempt", w.attempt,
			"status", w.status,
		)
		return
	}

	w.attempt++
	w.submitted = true
	w.notification = nil
	w.transition(shared.StatusValidating)

	w.revalidate()
	if !w.fieldErrors.Valid() {
		w.logger.Info("Registration form invalid", "attempt", w.attempt, "fields", w.fieldErrors.Fields())
		w.fail(shared.OutcomeValidationError, shared.MessageFixFieldErrors)
		return
	}

	w.transition(shared.StatusUploadingAsset)
	w.startUpload(ctx, w.attempt, w.draft)
}

// startUpload uploads the logo of the validated snapshot.
func (w *registrationWorkflow) startUpload(ctx workflow.Context, token int, snapshot shared.FormDraft) {
	logo := snapshot.CompanyLogo
	req := shared.UploadRequest{FileName: logo.Name, Data: logo.Data, MediaType: logo.MediaType}

	f := workflow.ExecuteActivity(w.uploadCtx, a.UploadAsset, req)
	w.selector.AddFuture(f, func(f workflow.Future) {
		var ref shared.UploadedAssetRef
		err := f.Get(ctx, &ref)
		if !w.current(token, shared.StatusUploadingAsset) {
			w.logger.Info("Discarding stale upload result", "attempt", token, "current", w.attempt)
			return
		}
		w.onUploaded(ctx, token, snapshot, ref, err)
	})
}

func (w *registrationWorkflow) onUploaded(ctx workflow.Context, token int, snapshot shared.FormDraft, ref shared.UploadedAssetRef, err error) {
	if err != nil {
		var appErr *temporal.ApplicationError
		msg := shared.MessageUnexpectedError
		if errors.As(err, &appErr) && appErr.Type() == shared.ErrTypeAssetUploadFailed {
			msg = shared.MessageUploadFailed
		}
		w.logger.Warn("Company logo upload failed", "attempt", token, "error", err)
		w.fail(shared.OutcomeUploadError, msg)
		return
	}

	rec, err := shared.NewRegistrationRecord(snapshot, ref)
	if err != nil {
		w.logger.Warn("Upload returned no usable URL", "attempt", token, "error", err)
		w.fail(shared.OutcomeUploadError, shared.MessageUploadFailed)
		return
	}

	w.transition(shared.StatusSubmitting)
	f := workflow.ExecuteActivity(w.submitCtx, a.SubmitRegistration, rec)
	w.selector.AddFuture(f, func(f workflow.Future) {
		var outcome shared.SubmissionOutcome
		if err := f.Get(ctx, &outcome); err != nil {
			w.logger.Warn("Registration submission failed", "attempt", token, "error", err)
			outcome = shared.Failed(shared.MessageUnexpectedError)
		}
		if !w.current(token, shared.StatusSubmitting) {
			w.logger.Info("Discarding stale submission result", "attempt", token, "current", w.attempt)
			return
		}
		w.onSubmitted(ref, outcome)
	})
}

func (w *registrationWorkflow) onSubmitted(ref shared.UploadedAssetRef, outcome shared.SubmissionOutcome) {
	if !outcome.Success {
		w.logger.Info("Registration rejected", "attempt", w.attempt, "message", outcome.Message)
		w.fail(shared.OutcomeSubmissionError, outcome.Message)
		return
	}

	w.transition(shared.StatusSucceeded)
	w.lastOutcome = shared.OutcomeSuccess
	w.notification = &shared.Notification{Level: shared.LevelSuccess, Message: outcome.Message}
	w.clearDraft()
	w.logger.Info("Employer registered", "attempt", w.attempt)

	w.finish(shared.RegistrationResult{
		Outcome:        shared.SessionRegistered,
		Message:        outcome.Message,
		Redirect:       shared.RouteSignIn,
		CompanyLogoURL: ref.URL,
	})
}

func (w *registrationWorkflow) onReset(ctx workflow.Context) {
	w.lastEvent = workflow.Now(ctx)
	w.logger.Info("Registration form reset", "attempt", w.attempt, "status", w.status)

	w.attempt++
	w.status = shared.StatusIdle
	w.lastOutcome = shared.OutcomeNone
	w.notification = nil
	w.clearDraft()
}

// fail ends the current attempt. The draft is kept for correction.
func (w *registrationWorkflow) fail(outcome shared.AttemptOutcome, message string) {
	w.transition(shared.StatusFailed)
	w.lastOutcome = outcome
	w.notification = &shared.Notification{Level: shared.LevelError, Message: message}
}

func (w *registrationWorkflow) transition(to shared.RegistrationStatus) {
	if !canTransition(w.status, to) {
		w.logger.Error("Illegal registration transition", "from", w.status, "to", to, "attempt", w.attempt)
		return
	}
	w.logger.Debug("Registration transition", "from", w.status, "to", to, "attempt", w.attempt)
	w.status = to
}

// current reports whether a completion started for token still belongs to
// the attempt in progress.
func (w *registrationWorkflow) current(token int, expected shared.RegistrationStatus) bool {
	return token == w.attempt && w.status == expected
}

func (w *registrationWorkflow) revalidate() {
	w.fieldErrors = w.validator.Validate(w.draft)
}

func (w *registrationWorkflow) clearDraft() {
	w.draft = shared.FormDraft{}
	w.touched = map[string]bool{}
	w.submitted = false
	w.revalidate()
}

// armIdleTimer keeps a single idle timer pending. When it fires early
// because of newer events, or while an attempt is in flight, it re-arms.
func (w *registrationWorkflow) armIdleTimer(ctx workflow.Context, d time.Duration) {
	w.selector.AddFuture(workflow.NewTimer(ctx, d), func(f workflow.Future) {
		if err := f.Get(ctx, nil); err != nil {
			w.logger.Warn("Idle timer failed", "error", err)
			return
		}
		if w.status.InFlight() {
			w.armIdleTimer(ctx, w.settings.IdleTimeout)
			return
		}
		idle := workflow.Now(ctx).Sub(w.lastEvent)
		if idle < w.settings.IdleTimeout {
			w.armIdleTimer(ctx, w.settings.IdleTimeout-idle)
			return
		}
		w.logger.Info("Registration session expired", "idle", idle)
		w.clearDraft()
		w.finish(shared.RegistrationResult{Outcome: shared.SessionExpired})
	})
}

func (w *registrationWorkflow) finish(result shared.RegistrationResult) {
	w.result = result
	w.done = true
}

func (w *registrationWorkflow) state() shared.RegistrationState {
	st := shared.RegistrationState{
		Status:       w.status,
		InFlight:     w.status.InFlight(),
		Attempt:      w.attempt,
		Fields:       w.draft.Masked(),
		Asset:        w.draft.CompanyLogo.Info(),
		FieldErrors:  w.visibleErrors(),
		LastOutcome:  w.lastOutcome,
		Notification: w.notification,
	}
	if logo := w.draft.CompanyLogo; logo != nil {
		st.Preview = shared.PreviewState{Handle: logo.PreviewHandle, Generation: logo.Generation}
	}
	return st
}

// visibleErrors returns errors for touched fields, or for every field once
// a submit has been attempted.
func (w *registrationWorkflow) visibleErrors() map[string]string {
	out := map[string]string{}
	for field, msg := range w.fieldErrors {
		if w.submitted || w.touched[field] {
			out[field] = msg
		}
	}
	return out
}
