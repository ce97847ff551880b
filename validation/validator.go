package validation

import "employer-registration/shared"

// Validator evaluates the rule table against drafts. It holds no state
// besides the table and is safe to share.
type Validator struct {
	rules []Rule
}

// Option configures a Validator.
type Option func(*config)

type config struct {
	maxLogoBytes int
}

// WithMaxLogoBytes overrides the largest accepted logo size.
func WithMaxLogoBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLogoBytes = n
		}
	}
}

// New builds a Validator over the registration rule table.
func New(opts ...Option) *Validator {
	cfg := config{maxLogoBytes: shared.DefaultMaxLogoBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Validator{rules: Rules(cfg.maxLogoBytes)}
}

// Validate returns the first failing rule message for every invalid field.
func (v *Validator) Validate(d shared.FormDraft) Result {
	result := make(Result)
	for _, rule := range v.rules {
		if _, failed := result[rule.Field]; failed {
			continue
		}
		if !rule.Check(d) {
			result[rule.Field] = rule.Message
		}
	}
	return result
}

// ValidateField returns the message for field, or "" when it is valid.
func (v *Validator) ValidateField(d shared.FormDraft, field string) string {
	for _, rule := range v.rules {
		if rule.Field == field && !rule.Check(d) {
			return rule.Message
		}
	}
	return ""
}
