package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/types"
	"github.com/qolzam/hcaptcha/verify"
)

// GinConfig extends Config with gin specific hooks.
type GinConfig struct {
	Config

	// Next defines a function to skip this middleware when returned true.
	Next func(c *gin.Context) bool

	// FailureHandler must abort the context.
	FailureHandler func(c *gin.Context, err error)
}

// Gin creates a gin middleware that aborts requests without a valid captcha token.
func Gin(config GinConfig) gin.HandlerFunc {
	cfg := configDefault(config.Config)
	failure := config.FailureHandler
	if failure == nil {
		failure = abortWithError
	}

	return func(c *gin.Context) {
		if config.Next != nil && config.Next(c) {
			c.Next()
			return
		}

		resp, err := cfg.check(c.Request.Context(), ginToken(c), c.ClientIP())
		if err != nil {
			failure(c, err)
			return
		}

		c.Set(types.CtxCaptchaResponse, resp)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	status, body := captchaErrors.ResponseFor(err)
	c.AbortWithStatusJSON(status, body)
}

// FromGin returns the response stored by Gin.
func FromGin(c *gin.Context) (*verify.Response, bool) {
	v, ok := c.Get(types.CtxCaptchaResponse)
	if !ok {
		return nil, false
	}
	resp, ok := v.(*verify.Response)
	return resp, ok
}

func ginToken(c *gin.Context) string {
	if t := c.GetHeader(types.HeaderCaptchaToken); t != "" {
		return t
	}
	if t := c.PostForm(types.FormFieldHCaptcha); t != "" {
		return t
	}
	if t := c.PostForm(types.FormFieldToken); t != "" {
		return t
	}
	if strings.HasPrefix(c.GetHeader(types.HeaderContentType), types.ContentTypeJSON) && c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return ""
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		return tokenFromJSON(body)
	}
	return ""
}
