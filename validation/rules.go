// Package validation checks a registration draft against an ordered rule table.
package validation

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"employer-registration/shared"
)

var syntax = validator.New()

// Rule is one declarative constraint. Check reports whether the draft satisfies it.
type Rule struct {
	Field   string
	Message string
	Check   func(shared.FormDraft) bool
}

// Result maps field names to the first failing rule's message. Empty means valid.
type Result map[string]string

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Fields returns the failing field names, sorted.
func (r Result) Fields() []string {
	out := make([]string, 0, len(r))
	for field := range r {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Rules builds the registration rule table. Rules for a field are ordered;
// only the first failing one is reported.
func Rules(maxLogoBytes int) []Rule {
	return []Rule{
		{shared.FieldCompanyName, "Company name is required", required(shared.FieldCompanyName)},
		{shared.FieldCompanyName, "Too Short!", minLen(shared.FieldCompanyName, 3)},
		{shared.FieldCompanyName, "Too Long!", maxLen(shared.FieldCompanyName, 50)},

		{shared.FieldAddress, "Company location is required", required(shared.FieldAddress)},

		{shared.FieldCompanyLogo, "Company logo is required", logoPresent},
		{shared.FieldCompanyLogo, "Only PNG, JPG, and JPEG are allowed", logoType},
		{shared.FieldCompanyLogo, LogoTooLarge(maxLogoBytes), logoSize(maxLogoBytes)},

		{shared.FieldEmail, "Email is required", required(shared.FieldEmail)},
		{shared.FieldEmail, "Invalid email", emailSyntax},

		{shared.FieldCompanyDescription, "Company description is required", required(shared.FieldCompanyDescription)},
		{shared.FieldCompanyDescription, "Too Short!", minLen(shared.FieldCompanyDescription, 3)},
		{shared.FieldCompanyDescription, "Too Long!", maxLen(shared.FieldCompanyDescription, 400)},

		{shared.FieldPassword, "Password is required", required(shared.FieldPassword)},
		{shared.FieldPassword, "Password must be at least 6 characters", minLen(shared.FieldPassword, 6)},
		{shared.FieldPassword, "Password too long", maxLen(shared.FieldPassword, 50)},

		{shared.FieldConfirmPassword, "Confirm password is required", required(shared.FieldConfirmPassword)},
		{shared.FieldConfirmPassword, "Passwords must match", matches(shared.FieldConfirmPassword, shared.FieldPassword)},
	}
}

func required(field string) func(shared.FormDraft) bool {
	return func(d shared.FormDraft) bool {
		return d.Value(field) != ""
	}
}

func minLen(field string, n int) func(shared.FormDraft) bool {
	return func(d shared.FormDraft) bool {
		return textLen(d.Value(field)) >= n
	}
}

func maxLen(field string, n int) func(shared.FormDraft) bool {
	return func(d shared.FormDraft) bool {
		return textLen(d.Value(field)) <= n
	}
}

func matches(field, other string) func(shared.FormDraft) bool {
	return func(d shared.FormDraft) bool {
		return d.Value(field) == d.Value(other)
	}
}

func emailSyntax(d shared.FormDraft) bool {
	return syntax.Var(d.Email, "email") == nil
}

func logoPresent(d shared.FormDraft) bool {
	return d.CompanyLogo != nil && len(d.CompanyLogo.Data) > 0
}

func logoType(d shared.FormDraft) bool {
	return d.CompanyLogo != nil && shared.IsAllowedLogoType(d.CompanyLogo.MediaType)
}

func logoSize(limit int) func(shared.FormDraft) bool {
	return func(d shared.FormDraft) bool {
		return d.CompanyLogo != nil && len(d.CompanyLogo.Data) <= limit
	}
}

// textLen counts characters after NFC normalization, so composed and
// decomposed input have the same length.
func textLen(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}

// LogoTooLarge is the message reported for a logo above limit bytes.
func LogoTooLarge(limit int) string {
	return fmt.Sprintf("Company logo must be at most %s", humanBytes(limit))
}

func humanBytes(n int) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%d KB", n/(1<<10))
	}
	return fmt.Sprintf("%d bytes", n)
}
