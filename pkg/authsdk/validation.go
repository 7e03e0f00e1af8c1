package authsdk

import (
	"regexp"
	"strings"
)

const (
	reasonRequired = "required"

	// MinPasswordLength is the only password policy enforced.
	MinPasswordLength = 8
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks the bootstrap request. Returns nil when every field is valid.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)

	email := NormalizeEmail(b.Email)
	switch {
	case email == "":
		errs["email"] = reasonRequired
	case !ValidEmail(email):
		errs["email"] = "must be a valid email address"
	}

	switch {
	case b.Password == "":
		errs["password"] = reasonRequired
	case len(b.Password) < MinPasswordLength:
		errs["password"] = "must be at least 8 characters"
	}

	if len(strings.TrimSpace(b.Name)) > 64 {
		errs["name"] = "too long (max 64)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks a settings update. At least one field must be present.
func (u UpdateSettingsRequest) Validate() map[string]string {
	errs := make(map[string]string)

	if u.SiteName == nil && u.PrimaryColor == nil {
		errs["site_name"] = "at least one of site_name or primary_color is required"
	}
	if u.SiteName != nil {
		switch n := strings.TrimSpace(*u.SiteName); {
		case n == "":
			errs["site_name"] = "must not be empty"
		case len(n) > 100:
			errs["site_name"] = "too long (max 100)"
		}
	}
	if u.PrimaryColor != nil && !colorRe.MatchString(*u.PrimaryColor) {
		errs["primary_color"] = "must be a hex colour such as #cd0269"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
