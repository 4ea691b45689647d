package errors

import "fmt"

// Kind identifies a service error code. KindUnknown is the catch-all.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingSecret
	KindInvalidSecret
	KindMissingResponse
	KindInvalidResponse
	KindBadRequest
	KindInvalidOrAlreadySeenResponse
	KindNotUsingDummyPasscode
	KindSitekeySecretMismatch
	KindExpiredResponse
	KindAlreadySeenResponse
	KindMissingRemoteIP
	KindInvalidRemoteIP
	KindMissingSiteKey
	KindInvalidSiteKey
)

var wireTokens = map[Kind]string{
	KindMissingSecret:                "missing-input-secret",
	KindInvalidSecret:                "invalid-input-secret",
	KindMissingResponse:              "missing-input-response",
	KindInvalidResponse:              "invalid-input-response",
	KindBadRequest:                   "bad-request",
	KindInvalidOrAlreadySeenResponse: "invalid-or-already-seen-response",
	KindNotUsingDummyPasscode:        "not-using-dummy-passcode",
	KindSitekeySecretMismatch:        "sitekey-secret-mismatch",
	KindExpiredResponse:              "expired-input-response",
	KindAlreadySeenResponse:          "already-seen-response",
	KindMissingRemoteIP:              "missing-remoteip",
	KindInvalidRemoteIP:              "invalid-remoteip",
	KindMissingSiteKey:               "missing-sitekey",
	KindInvalidSiteKey:               "invalid-sitekey",
}

var kindsByWire = func() map[string]Kind {
	m := make(map[string]Kind, len(wireTokens))
	for k, s := range wireTokens {
		m[s] = k
	}
	return m
}()

// String returns the wire token of the kind, or "unknown".
func (k Kind) String() string {
	if s, ok := wireTokens[k]; ok {
		return s
	}
	return "unknown"
}

// Code is a single error reported by the verification service.
//
// Code is comparable and safe to use as a map key: two named codes of the same
// kind are equal, and two unknown codes are equal only when they carry the same
// wire text.
type Code struct {
	kind Kind
	raw  string
}

// Named codes of the hCaptcha siteverify API.
var (
	MissingSecret                = Code{kind: KindMissingSecret}
	InvalidSecret                = Code{kind: KindInvalidSecret}
	MissingResponse              = Code{kind: KindMissingResponse}
	InvalidResponse              = Code{kind: KindInvalidResponse}
	BadRequest                   = Code{kind: KindBadRequest}
	InvalidOrAlreadySeenResponse = Code{kind: KindInvalidOrAlreadySeenResponse}
	NotUsingDummyPasscode        = Code{kind: KindNotUsingDummyPasscode}
	SitekeySecretMismatch        = Code{kind: KindSitekeySecretMismatch}
	ExpiredResponse              = Code{kind: KindExpiredResponse}
	AlreadySeenResponse          = Code{kind: KindAlreadySeenResponse}
	MissingRemoteIP              = Code{kind: KindMissingRemoteIP}
	InvalidRemoteIP              = Code{kind: KindInvalidRemoteIP}
	MissingSiteKey               = Code{kind: KindMissingSiteKey}
	InvalidSiteKey               = Code{kind: KindInvalidSiteKey}

	// NoErrorCodes is reported when the service answers success=false without
	// listing any error-codes.
	NoErrorCodes = Unknown("no error codes returned")
)

// Unknown builds the catch-all code carrying the original wire text.
func Unknown(raw string) Code {
	return Code{kind: KindUnknown, raw: raw}
}

// CodeFromWire maps a wire token to its code. It never fails: unrecognized
// tokens become Unknown codes.
func CodeFromWire(s string) Code {
	if k, ok := kindsByWire[s]; ok {
		return Code{kind: k}
	}
	return Unknown(s)
}

// Kind returns the code kind.
func (c Code) Kind() Kind {
	return c.kind
}

// IsUnknown reports whether c is the catch-all variant.
func (c Code) IsUnknown() bool {
	return c.kind == KindUnknown
}

// Wire returns the token as the service spells it.
func (c Code) Wire() string {
	if c.kind == KindUnknown {
		return c.raw
	}
	return wireTokens[c.kind]
}

// String returns a human readable description of the code.
func (c Code) String() string {
	switch c.kind {
	case KindMissingSecret:
		return "Your secret key is missing."
	case KindInvalidSecret:
		return "Your secret key is invalid or malformed."
	case KindMissingResponse:
		return "The response parameter (verification token) is missing."
	case KindInvalidResponse:
		return "The response parameter (verification token) is invalid or malformed."
	case KindBadRequest:
		return "The request is invalid or malformed."
	case KindInvalidOrAlreadySeenResponse:
		return "The response parameter has already been checked, or has another issue."
	case KindNotUsingDummyPasscode:
		return "You have used a testing sitekey but have not used its matching secret."
	case KindSitekeySecretMismatch:
		return "The sitekey is not registered with the provided secret."
	case KindExpiredResponse:
		return "The response parameter (verification token) has expired."
	case KindAlreadySeenResponse:
		return "The response parameter (verification token) was already verified once."
	case KindMissingRemoteIP:
		return "The remoteip parameter is missing."
	case KindInvalidRemoteIP:
		return "The remoteip parameter is not a valid IP address."
	case KindMissingSiteKey:
		return "The sitekey parameter is missing."
	case KindInvalidSiteKey:
		return "The sitekey is invalid or malformed."
	default:
		return fmt.Sprintf("Unknown error: %s", c.raw)
	}
}

// Error fulfills the error interface
func (c Code) Error() string {
	return c.String()
}

// MarshalText encodes the code as its wire token.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.Wire()), nil
}

// UnmarshalText decodes a wire token.
func (c *Code) UnmarshalText(text []byte) error {
	*c = CodeFromWire(string(text))
	return nil
}
