package types

// HTTP Header Constants
const (
	HeaderContentType  = "Content-Type"
	HeaderCaptchaToken = "X-Captcha-Token"
	HeaderRequestID    = "X-Request-ID"
)

// Content types
const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
)

// Form fields carrying the captcha token
const (
	FormFieldHCaptcha = "h-captcha-response"
	FormFieldToken    = "token"
)

// Context keys
const (
	CtxCaptchaResponse = "captcha_response"
	CtxRequestID       = "request_id"
)
