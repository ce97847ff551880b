package shared

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Form field names, as used by the registration endpoint and the validation rules.
const (
	FieldCompanyName        = "companyName"
	FieldAddress            = "address"
	FieldCompanyLogo        = "companyLogo"
	FieldEmail              = "email"
	FieldCompanyDescription = "companyDescription"
	FieldPassword           = "password"
	FieldConfirmPassword    = "confirmPassword"
)

// FormFields lists every field in display order.
var FormFields = []string{
	FieldCompanyName,
	FieldAddress,
	FieldEmail,
	FieldCompanyLogo,
	FieldCompanyDescription,
	FieldPassword,
	FieldConfirmPassword,
}

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrIncompleteRecord = errors.New("registration record requires an uploaded logo URL")
)

const redacted = "[REDACTED]"

// AllowedLogoMediaTypes are the media types accepted for a company logo.
var AllowedLogoMediaTypes = []string{"image/png", "image/jpg", "image/jpeg"}

// IsAllowedLogoType reports whether mediaType is an accepted logo type.
func IsAllowedLogoType(mediaType string) bool {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	for _, allowed := range AllowedLogoMediaTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// IsSecretField reports whether values of field must never be displayed or logged.
func IsSecretField(field string) bool {
	return field == FieldPassword || field == FieldConfirmPassword
}

// SelectedAsset is the logo picked by the user. Generation increases with every
// pick so late previews for an older pick can be recognised.
type SelectedAsset struct {
	Name          string `json:"name"`
	Data          []byte `json:"data"`
	MediaType     string `json:"mediaType"`
	Generation    int    `json:"generation"`
	PreviewHandle string `json:"previewHandle,omitempty"`
}

// Info describes the asset without its bytes.
func (a *SelectedAsset) Info() *AssetInfo {
	if a == nil {
		return nil
	}
	return &AssetInfo{Name: a.Name, MediaType: a.MediaType, Size: len(a.Data)}
}

// FormDraft is the unvalidated user input of one registration attempt.
type FormDraft struct {
	CompanyName        string         `json:"companyName"`
	Address            string         `json:"address"`
	Email              string         `json:"email"`
	CompanyDescription string         `json:"companyDescription"`
	Password           string         `json:"password"`
	ConfirmPassword    string         `json:"confirmPassword"`
	CompanyLogo        *SelectedAsset `json:"companyLogo,omitempty"`
}

// Set assigns a text field. The logo is set through SelectedAsset only.
func (d *FormDraft) Set(field, value string) error {
	switch field {
	case FieldCompanyName:
		d.CompanyName = value
	case FieldAddress:
		d.Address = value
	case FieldEmail:
		d.Email = value
	case FieldCompanyDescription:
		d.CompanyDescription = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Value returns the text value of field, or "" for the logo and unknown names.
func (d FormDraft) Value(field string) string {
	switch field {
	case FieldCompanyName:
		return d.CompanyName
	case FieldAddress:
		return d.Address
	case FieldEmail:
		return d.Email
	case FieldCompanyDescription:
		return d.CompanyDescription
	case FieldPassword:
		return d.Password
	case FieldConfirmPassword:
		return d.ConfirmPassword
	default:
		return ""
	}
}

// Masked returns the text fields with secret values replaced by asterisks.
func (d FormDraft) Masked() map[string]string {
	out := make(map[string]string, len(FormFields))
	for _, field := range FormFields {
		if field == FieldCompanyLogo {
			continue
		}
		value := d.Value(field)
		if IsSecretField(field) {
			value = strings.Repeat("*", len(value))
		}
		out[field] = value
	}
	return out
}

// RegistrationRecord is the fully resolved payload sent to the backend.
type RegistrationRecord struct {
	CompanyName        string `json:"companyName"`
	Address            string `json:"address"`
	CompanyLogo        string `json:"companyLogo"`
	Email              string `json:"email"`
	CompanyDescription string `json:"companyDescription"`
	Password           string `json:"password"`
}

// NewRegistrationRecord merges a validated draft with the uploaded logo reference.
func NewRegistrationRecord(draft FormDraft, logo UploadedAssetRef) (RegistrationRecord, error) {
	if strings.TrimSpace(logo.URL) == "" {
		return RegistrationRecord{}, ErrIncompleteRecord
	}
	return RegistrationRecord{
		CompanyName:        draft.CompanyName,
		Address:            draft.Address,
		CompanyLogo:        logo.URL,
		Email:              draft.Email,
		CompanyDescription: draft.CompanyDescription,
		Password:           draft.Password,
	}, nil
}

// String keeps the password out of formatted output.
func (r RegistrationRecord) String() string {
	return fmt.Sprintf("RegistrationRecord{companyName=%q email=%q companyLogo=%q password=%s}",
		r.CompanyName, r.Email, r.CompanyLogo, redacted)
}

// GoString keeps the password out of %#v output.
func (r RegistrationRecord) GoString() string {
	return r.String()
}

// LogValue keeps the password out of slog output.
func (r RegistrationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("companyName", r.CompanyName),
		slog.String("email", r.Email),
		slog.String("companyLogo", r.CompanyLogo),
		slog.String("password", redacted),
	)
}

// String keeps secrets and asset bytes out of formatted output.
func (d FormDraft) String() string {
	logo := "none"
	if d.CompanyLogo != nil {
		logo = fmt.Sprintf("%s(%s, %d bytes)", d.CompanyLogo.Name, d.CompanyLogo.MediaType, len(d.CompanyLogo.Data))
	}
	return fmt.Sprintf("FormDraft{companyName=%q email=%q companyLogo=%s password=%s}",
		d.CompanyName, d.Email, logo, redacted)
}
