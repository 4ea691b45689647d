package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/types"
	"github.com/qolzam/hcaptcha/verify"
)

// FiberConfig extends Config with Fiber specific hooks.
type FiberConfig struct {
	Config

	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// FailureHandler writes the response for a rejected request.
	//
	// Optional. Default: errors.HandleServiceError
	FailureHandler func(c *fiber.Ctx, err error) error
}

// Fiber creates a middleware that rejects requests without a valid captcha token.
func Fiber(config FiberConfig) fiber.Handler {
	cfg := configDefault(config.Config)
	failure := config.FailureHandler
	if failure == nil {
		failure = captchaErrors.HandleServiceError
	}

	return func(c *fiber.Ctx) error {
		if config.Next != nil && config.Next(c) {
			return c.Next()
		}

		resp, err := cfg.check(c.UserContext(), utils.CopyString(fiberToken(c)), c.IP())
		if err != nil {
			return failure(c, err)
		}

		c.Locals(types.CtxCaptchaResponse, resp)
		return c.Next()
	}
}

// FromFiber returns the response stored by Fiber.
func FromFiber(c *fiber.Ctx) (*verify.Response, bool) {
	resp, ok := c.Locals(types.CtxCaptchaResponse).(*verify.Response)
	return resp, ok
}

func fiberToken(c *fiber.Ctx) string {
	if t := c.Get(types.HeaderCaptchaToken); t != "" {
		return t
	}
	if t := c.FormValue(types.FormFieldHCaptcha); t != "" {
		return t
	}
	if t := c.FormValue(types.FormFieldToken); t != "" {
		return t
	}
	if strings.HasPrefix(c.Get(types.HeaderContentType), types.ContentTypeJSON) {
		return tokenFromJSON(c.Body())
	}
	return ""
}
