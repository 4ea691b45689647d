package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
)

func TestCodeFromWire_KnownTokens(t *testing.T) {
	testCases := []struct {
		wire string
		want captchaErrors.Code
	}{
		{"missing-input-secret", captchaErrors.MissingSecret},
		{"invalid-input-secret", captchaErrors.InvalidSecret},
		{"missing-input-response", captchaErrors.MissingResponse},
		{"invalid-input-response", captchaErrors.InvalidResponse},
		{"bad-request", captchaErrors.BadRequest},
		{"invalid-or-already-seen-response", captchaErrors.InvalidOrAlreadySeenResponse},
		{"not-using-dummy-passcode", captchaErrors.NotUsingDummyPasscode},
		{"sitekey-secret-mismatch", captchaErrors.SitekeySecretMismatch},
		{"expired-input-response", captchaErrors.ExpiredResponse},
		{"already-seen-response", captchaErrors.AlreadySeenResponse},
		{"missing-remoteip", captchaErrors.MissingRemoteIP},
		{"invalid-remoteip", captchaErrors.InvalidRemoteIP},
		{"missing-sitekey", captchaErrors.MissingSiteKey},
		{"invalid-sitekey", captchaErrors.InvalidSiteKey},
	}

	for _, tc := range testCases {
		t.Run(tc.wire, func(t *testing.T) {
			first := captchaErrors.CodeFromWire(tc.wire)
			second := captchaErrors.CodeFromWire(tc.wire)

			assert.Equal(t, tc.want, first)
			assert.Equal(t, first, second)
			assert.False(t, first.IsUnknown())
			assert.Equal(t, tc.wire, first.Wire())
			assert.Equal(t, tc.wire, first.Kind().String())
			assert.NotEmpty(t, first.String())

			set := captchaErrors.NewCodeSet(first, second)
			assert.Equal(t, 1, set.Len())
		})
	}
}

func TestCodeFromWire_UnknownTokens(t *testing.T) {
	foo := captchaErrors.CodeFromWire("foo")
	bar := captchaErrors.CodeFromWire("bar")

	assert.True(t, foo.IsUnknown())
	assert.Equal(t, captchaErrors.KindUnknown, foo.Kind())
	assert.Equal(t, "foo", foo.Wire())
	assert.NotEqual(t, foo, bar)
	assert.Equal(t, foo, captchaErrors.Unknown("foo"))
	assert.Contains(t, foo.String(), "foo")

	set := captchaErrors.NewCodeSet(foo, bar, captchaErrors.CodeFromWire("foo"))
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(captchaErrors.Unknown("bar")))
}

func TestCode_TextRoundTrip(t *testing.T) {
	for _, wire := range []string{"missing-input-secret", "something-new"} {
		var c captchaErrors.Code
		require.NoError(t, c.UnmarshalText([]byte(wire)))
		text, err := c.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, wire, string(text))
	}
}

func TestCodeSet_SliceIsSorted(t *testing.T) {
	set := captchaErrors.CodeSetFromWire("missing-input-secret", "foo", "bad-request", "foo")

	assert.Equal(t, []string{"bad-request", "foo", "missing-input-secret"}, set.Wire())
	assert.Equal(t, "bad-request, foo, missing-input-secret", set.String())

	clone := set.Clone()
	clone.Add(captchaErrors.MissingResponse)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 4, clone.Len())

	var empty captchaErrors.CodeSet
	assert.Nil(t, empty.Clone())
	assert.Empty(t, empty.Wire())
}

func TestErrorKinds_AreDistinguishable(t *testing.T) {
	cause := errors.New("connection refused")

	testCases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", captchaErrors.NewValidationError("secret is missing", captchaErrors.MissingSecret), captchaErrors.ErrValidation},
		{"transport", &captchaErrors.TransportError{URL: "https://example.test", Cause: cause}, captchaErrors.ErrTransport},
		{"decode", &captchaErrors.DecodeError{Cause: cause}, captchaErrors.ErrDecode},
		{"verification", captchaErrors.NewVerificationError(captchaErrors.NewCodeSet(captchaErrors.InvalidResponse)), captchaErrors.ErrVerification},
	}

	sentinels := []error{
		captchaErrors.ErrValidation,
		captchaErrors.ErrTransport,
		captchaErrors.ErrDecode,
		captchaErrors.ErrVerification,
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("verify: %w", tc.err)
			for _, s := range sentinels {
				assert.Equal(t, s == tc.sentinel, errors.Is(wrapped, s), "sentinel %v", s)
			}
			assert.Equal(t, tc.sentinel == captchaErrors.ErrVerification, captchaErrors.IsRetryableByUser(wrapped))
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &captchaErrors.TransportError{URL: "https://example.test", Cause: cause}
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "timeout")

	status := &captchaErrors.TransportError{URL: "https://example.test", StatusCode: 503}
	assert.Contains(t, status.Error(), "HTTP 503")
}

func TestNewVerificationError_EmptyFallsBack(t *testing.T) {
	err := captchaErrors.NewVerificationError(nil)
	require.Equal(t, 1, err.Codes.Len())
	assert.True(t, err.Codes.Contains(captchaErrors.NoErrorCodes))
}

func TestCodesOf(t *testing.T) {
	codes, ok := captchaErrors.CodesOf(captchaErrors.NewValidationError("secret is missing", captchaErrors.MissingSecret))
	require.True(t, ok)
	assert.True(t, codes.Contains(captchaErrors.MissingSecret))

	codes, ok = captchaErrors.CodesOf(fmt.Errorf("wrapped: %w", captchaErrors.NewVerificationError(captchaErrors.CodeSetFromWire("foo"))))
	require.True(t, ok)
	assert.True(t, codes.Contains(captchaErrors.Unknown("foo")))

	_, ok = captchaErrors.CodesOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestResponseFor(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"token missing", captchaErrors.ErrTokenMissing, http.StatusBadRequest, captchaErrors.CodeTokenMissing},
		{"verification", captchaErrors.NewVerificationError(captchaErrors.CodeSetFromWire("invalid-input-response")), http.StatusBadRequest, captchaErrors.CodeCaptchaFailed},
		{"transport", &captchaErrors.TransportError{StatusCode: 500}, http.StatusBadGateway, captchaErrors.CodeUnavailable},
		{"decode", &captchaErrors.DecodeError{}, http.StatusBadGateway, captchaErrors.CodeUnavailable},
		{"validation", captchaErrors.NewValidationError("secret is missing", captchaErrors.MissingSecret), http.StatusInternalServerError, captchaErrors.CodeMisconfigured},
		{"other", errors.New("boom"), http.StatusInternalServerError, captchaErrors.CodeSystemError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := captchaErrors.ResponseFor(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}

	_, body := captchaErrors.ResponseFor(captchaErrors.NewVerificationError(captchaErrors.CodeSetFromWire("invalid-input-response")))
	assert.Equal(t, []string{"invalid-input-response"}, body.Details)
}

func TestHandleServiceError(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return captchaErrors.HandleServiceError(c, captchaErrors.NewVerificationError(nil))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
