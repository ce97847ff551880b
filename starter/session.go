package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.temporal.io/sdk/converter"

	"employer-registration/backend"
	"employer-registration/preview"
	"employer-registration/shared"
	"employer-registration/validation"
)

// registrationClient is the part of client.Client the CLI uses.
type registrationClient interface {
	SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error
	QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (converter.EncodedValue, error)
}

// companyLister is implemented by *backend.ListingClient.
type companyLister interface {
	Companies(ctx context.Context) ([]backend.Company, error)
}

var fieldLabels = map[string]string{
	shared.FieldCompanyName:        "Company name",
	shared.FieldAddress:            "Company location",
	shared.FieldEmail:              "Email",
	shared.FieldCompanyLogo:        "Company logo",
	shared.FieldCompanyDescription: "Company description",
	shared.FieldPassword:           "Password",
	shared.FieldConfirmPassword:    "Confirm password",
}

// session drives one registration workflow from the terminal.
type session struct {
	client     registrationClient
	lister     companyLister
	prompt     PromptDriver
	out        io.Writer
	workflowID string

	maxLogoBytes int
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func (s *session) signal(ctx context.Context, name string, arg interface{}) error {
	if err := s.client.SignalWorkflow(ctx, s.workflowID, "", name, arg); err != nil {
		return fmt.Errorf("signal %s: %w", name, err)
	}
	return nil
}

func (s *session) state(ctx context.Context) (shared.RegistrationState, error) {
	resp, err := s.client.QueryWorkflow(ctx, s.workflowID, "", shared.QueryRegistration)
	if err != nil {
		return shared.RegistrationState{}, fmt.Errorf("query registration state: %w", err)
	}
	var st shared.RegistrationState
	if err := resp.Get(&st); err != nil {
		return shared.RegistrationState{}, fmt.Errorf("decode registration state: %w", err)
	}
	return st, nil
}

// editField asks for one text field and reports its validation error, if any.
func (s *session) editField(ctx context.Context) error {
	var fields []string
	var options []string
	for _, f := range shared.FormFields {
		if f == shared.FieldCompanyLogo {
			continue
		}
		fields = append(fields, f)
		options = append(options, fieldLabels[f])
	}
	idx, err := s.prompt.Select(ctx, SelectConfig{Message: "Field", Options: options})
	if err != nil {
		return err
	}
	field := fields[idx]

	cfg := InputConfig{Message: fieldLabels[field]}
	var value string
	switch {
	case shared.IsSecretField(field):
		value, err = s.prompt.Password(ctx, cfg)
	case field == shared.FieldCompanyDescription:
		value, err = s.prompt.TextArea(ctx, cfg)
	default:
		value, err = s.prompt.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if err := s.signal(ctx, shared.SignalFieldChanged, shared.FieldChange{Field: field, Value: value}); err != nil {
		return err
	}
	return s.reportField(ctx, field)
}

// pickLogo reads a logo from disk and selects it. An empty path clears the selection.
func (s *session) pickLogo(ctx context.Context) error {
	path, err := s.prompt.Input(ctx, InputConfig{
		Message:   "Path to company logo (PNG, JPG or JPEG, empty to clear)",
		Validator: fileReadable,
	})
	if err != nil {
		return err
	}

	sel, err := readLogo(strings.TrimSpace(path), s.maxLogoBytes)
	if err != nil {
		return s.prompt.Info(ctx, "❌ "+err.Error())
	}
	if err := s.signal(ctx, shared.SignalAssetSelected, sel); err != nil {
		return err
	}
	return s.reportField(ctx, shared.FieldCompanyLogo)
}

func (s *session) reportField(ctx context.Context, field string) error {
	st, err := s.state(ctx)
	if err != nil {
		return err
	}
	if msg, ok := st.FieldErrors[field]; ok {
		return s.prompt.Info(ctx, fmt.Sprintf("   ⚠️  %s: %s", fieldLabels[field], msg))
	}
	return s.prompt.Info(ctx, fmt.Sprintf("   ✅ %s updated", fieldLabels[field]))
}

func (s *session) show(ctx context.Context) error {
	st, err := s.state(ctx)
	if err != nil {
		return err
	}
	renderState(s.out, st)
	return nil
}

// submit sends a submit intent and waits until the attempt settles.
// It returns true when the registration succeeded.
func (s *session) submit(ctx context.Context) (bool, error) {
	before, err := s.state(ctx)
	if err != nil {
		return false, err
	}
	if before.InFlight {
		return false, s.prompt.Info(ctx, "⏳ A registration is already in flight")
	}

	if err := s.signal(ctx, shared.SignalSubmit, nil); err != nil {
		return false, err
	}
	_ = s.prompt.Info(ctx, "📤 Submitting registration...")

	st, err := s.awaitAttempt(ctx, before.Attempt)
	if err != nil {
		return false, err
	}
	if st.Notification != nil {
		_ = s.prompt.Info(ctx, renderNotification(*st.Notification))
	}
	if st.LastOutcome == shared.OutcomeValidationError {
		renderErrors(s.out, st.FieldErrors)
	}
	return st.Status == shared.StatusSucceeded, nil
}

// awaitAttempt polls until an attempt newer than prev is no longer in flight.
func (s *session) awaitAttempt(ctx context.Context, prev int) (shared.RegistrationState, error) {
	ctx, cancel := context.WithTimeout(ctx, s.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		st, err := s.state(ctx)
		if err != nil {
			return shared.RegistrationState{}, err
		}
		if st.Attempt > prev && !st.InFlight {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return shared.RegistrationState{}, fmt.Errorf("waiting for registration result: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *session) reset(ctx context.Context) error {
	if err := s.signal(ctx, shared.SignalReset, nil); err != nil {
		return err
	}
	return s.prompt.Info(ctx, "🧹 Form cleared")
}

func (s *session) abandon(ctx context.Context) error {
	return s.signal(ctx, shared.SignalAbandon, nil)
}

func (s *session) browse(ctx context.Context) error {
	companies, err := s.lister.Companies(ctx)
	if err != nil {
		return s.prompt.Info(ctx, "❌ Unable to load companies: "+err.Error())
	}
	renderCompanies(s.out, backend.Summarize(companies, backend.DefaultListedJobs))
	return nil
}

func fileReadable(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot open %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// readLogo loads a logo file and checks it against the logo rules before it
// is signalled. Oversized files could not be carried by a signal at all.
func readLogo(path string, maxBytes int) (shared.AssetSelection, error) {
	if path == "" {
		return shared.AssetSelection{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return shared.AssetSelection{}, fmt.Errorf("reading logo: %w", err)
	}
	sel := shared.AssetSelection{
		Name:      filepath.Base(path),
		Data:      data,
		MediaType: preview.DetectMediaType(data),
	}

	draft := shared.FormDraft{CompanyLogo: &shared.SelectedAsset{Name: sel.Name, Data: sel.Data, MediaType: sel.MediaType}}
	if msg := validation.New(validation.WithMaxLogoBytes(maxBytes)).ValidateField(draft, shared.FieldCompanyLogo); msg != "" {
		return shared.AssetSelection{}, errors.New(msg)
	}
	return sel, nil
}

func renderState(w io.Writer, st shared.RegistrationState) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "📋 Status: %s (attempt %d)\n", st.Status, st.Attempt)
	for _, field := range shared.FormFields {
		if field == shared.FieldCompanyLogo {
			if st.Asset == nil {
				fmt.Fprintf(w, "   %-20s -\n", fieldLabels[field]+":")
				continue
			}
			shown := "pending"
			if st.Preview.Handle != "" {
				shown = fmt.Sprintf("%d chars", len(st.Preview.Handle))
			}
			fmt.Fprintf(w, "   %-20s %s (%s, %d bytes, preview %s)\n",
				fieldLabels[field]+":", st.Asset.Name, st.Asset.MediaType, st.Asset.Size, shown)
			continue
		}
		fmt.Fprintf(w, "   %-20s %s\n", fieldLabels[field]+":", st.Fields[field])
	}
	renderErrors(w, st.FieldErrors)
	if st.Notification != nil {
		fmt.Fprintln(w, renderNotification(*st.Notification))
	}
}

func renderErrors(w io.Writer, errs map[string]string) {
	if len(errs) == 0 {
		return
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "   ⚠️  %s: %s\n", fieldLabels[f], errs[f])
	}
}

func renderNotification(n shared.Notification) string {
	switch n.Level {
	case shared.LevelSuccess:
		return "✅ " + n.Message
	default:
		return "❌ " + n.Message
	}
}

func renderCompanies(w io.Writer, companies []backend.CompanySummary) {
	if len(companies) == 0 {
		fmt.Fprintln(w, "No companies yet.")
		return
	}
	for _, c := range companies {
		fmt.Fprintf(w, "\n🏢 %s (%s)\n", c.Name, c.Address)
		if c.LogoURL != "" {
			fmt.Fprintf(w, "   %s\n", c.LogoURL)
		}
		for _, j := range c.Jobs {
			fmt.Fprintf(w, "   • %s  %s\n", j.Title, j.Path)
		}
	}
}
