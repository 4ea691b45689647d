package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to HTTP clients
const (
	CodeTokenMissing   = "CAPTCHA_TOKEN_MISSING"
	CodeCaptchaFailed  = "CAPTCHA_FAILED"
	CodeUnavailable    = "CAPTCHA_UNAVAILABLE"
	CodeMisconfigured  = "CAPTCHA_MISCONFIGURED"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeSystemError    = "SYSTEM_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ResponseFor maps an error to an HTTP status and body.
func ResponseFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeTokenMissing,
			Message: "Captcha token is missing",
		}
	case errors.Is(err, ErrVerification):
		codes, _ := CodesOf(err)
		return http.StatusBadRequest, ErrorResponse{
			Code:    CodeCaptchaFailed,
			Message: "Captcha verification failed",
			Details: codes.Wire(),
		}
	case errors.Is(err, ErrTransport), errors.Is(err, ErrDecode):
		return http.StatusBadGateway, ErrorResponse{
			Code:    CodeUnavailable,
			Message: "Captcha service unavailable",
		}
	case errors.Is(err, ErrValidation):
		codes, _ := CodesOf(err)
		return http.StatusInternalServerError, ErrorResponse{
			Code:    CodeMisconfigured,
			Message: "Captcha verification is misconfigured",
			Details: codes.Wire(),
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Code:    CodeSystemError,
			Message: "System error occurred",
		}
	}
}

// HandleServiceError writes the HTTP response matching err
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	status, body := ResponseFor(err)
	return c.Status(status).JSON(body)
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
	})
}
