package errors

import (
	"errors"
	"fmt"
)

// Sentinels matched by the error kinds through errors.Is
var (
	ErrValidation   = errors.New("captcha request validation failed")
	ErrTransport    = errors.New("captcha service unreachable")
	ErrDecode       = errors.New("captcha service reply could not be decoded")
	ErrVerification = errors.New("captcha verification failed")
	ErrTokenMissing = errors.New("missing captcha token")
)

// ValidationError is a local precondition failure raised before any network call.
type ValidationError struct {
	Message string
	Codes   CodeSet
}

// NewValidationError creates a new validation error
func NewValidationError(message string, codes ...Code) *ValidationError {
	return &ValidationError{
		Message: message,
		Codes:   NewCodeSet(codes...),
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Codes) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrValidation, e.Message, e.Codes)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError wraps a network failure or a non-2xx reply.
type TransportError struct {
	URL        string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("%s: %s returned HTTP %d: %v", ErrTransport, e.URL, e.StatusCode, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s returned HTTP %d", ErrTransport, e.URL, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", ErrTransport, e.Cause)
	default:
		return ErrTransport.Error()
	}
}

// Unwrap returns the underlying cause error
func (e *TransportError) Unwrap() error {
	return e.Cause
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// DecodeError reports a reply that is not JSON or does not have the expected shape.
type DecodeError struct {
	Cause error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return ErrDecode.Error()
	}
	return fmt.Sprintf("%s: %v", ErrDecode, e.Cause)
}

// Unwrap returns the underlying cause error
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// VerificationError is returned when the service rejected the response token.
// Codes is never empty.
type VerificationError struct {
	Codes CodeSet
}

// NewVerificationError creates a verification error, falling back to
// NoErrorCodes when codes is empty.
func NewVerificationError(codes CodeSet) *VerificationError {
	if len(codes) == 0 {
		codes = NewCodeSet(NoErrorCodes)
	}
	return &VerificationError{Codes: codes}
}

// Error implements the error interface
func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrVerification, e.Codes)
}

func (e *VerificationError) Is(target error) bool {
	return target == ErrVerification
}

// CodesOf extracts the code set carried by a validation or verification error.
func CodesOf(err error) (CodeSet, bool) {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Codes, true
	}
	var vaerr *ValidationError
	if errors.As(err, &vaerr) {
		return vaerr.Codes, true
	}
	return nil, false
}

// IsRetryableByUser reports whether err means the end user should solve the
// captcha again, as opposed to a broken integration.
func IsRetryableByUser(err error) bool {
	return errors.Is(err, ErrVerification)
}
