package verify

import (
	"strings"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
)

// Secret is the site secret sent with every verification request.
//
// Only emptiness is checked. Secrets issued before September 2023 look like
// "0x..." and newer ones like "ES_...", and the format may change again.
type Secret struct {
	value string
}

// ParseSecret wraps raw, rejecting empty or whitespace-only values.
func ParseSecret(raw string) (Secret, error) {
	if strings.TrimSpace(raw) == "" {
		log.Debug("hcaptcha secret string is missing")
		return Secret{}, captchaErrors.NewValidationError("secret is missing", captchaErrors.MissingSecret)
	}
	return Secret{value: raw}, nil
}

// MustParseSecret is like ParseSecret but panics on error.
func MustParseSecret(raw string) Secret {
	s, err := ParseSecret(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the secret exactly as it was parsed.
func (s Secret) String() string {
	return s.value
}

// IsZero reports whether s was not produced by ParseSecret.
func (s Secret) IsZero() bool {
	return s.value == ""
}
