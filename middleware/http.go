package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/types"
	"github.com/qolzam/hcaptcha/verify"
)

type ctxKey struct{}

// HTTPConfig extends Config with net/http specific hooks.
type HTTPConfig struct {
	Config

	// Next defines a function to skip this middleware when returned true.
	Next func(r *http.Request) bool

	FailureHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// HTTP creates a net/http middleware that rejects requests without a valid captcha token.
func HTTP(config HTTPConfig) func(http.Handler) http.Handler {
	cfg := configDefault(config.Config)
	failure := config.FailureHandler
	if failure == nil {
		failure = writeError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Next != nil && config.Next(r) {
				next.ServeHTTP(w, r)
				return
			}

			resp, err := cfg.check(r.Context(), httpToken(r), r.RemoteAddr)
			if err != nil {
				failure(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, resp)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the response stored by HTTP.
func FromContext(ctx context.Context) (*verify.Response, bool) {
	resp, ok := ctx.Value(ctxKey{}).(*verify.Response)
	return resp, ok
}

func httpToken(r *http.Request) string {
	if t := r.Header.Get(types.HeaderCaptchaToken); t != "" {
		return t
	}
	if err := r.ParseForm(); err == nil {
		if t := r.FormValue(types.FormFieldHCaptcha); t != "" {
			return t
		}
		if t := r.FormValue(types.FormFieldToken); t != "" {
			return t
		}
	}
	if strings.HasPrefix(r.Header.Get(types.HeaderContentType), types.ContentTypeJSON) && r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return ""
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		return tokenFromJSON(body)
	}
	return ""
}

func writeError(w http.ResponseWriter, _ *http.Request, err error) {
	status, body := captchaErrors.ResponseFor(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(types.HeaderContentType, types.ContentTypeJSON)
	w.WriteHeader(status)
	_ = jsoniter.NewEncoder(w).Encode(payload)
}
