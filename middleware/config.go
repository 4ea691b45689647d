package middleware

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
	"github.com/qolzam/hcaptcha/verify"
)

// Config defines the config shared by every router adapter.
type Config struct {
	// Verifier checks the extracted token.
	//
	// Required.
	Verifier verify.Verifier

	// Secret is sent with every verification request.
	//
	// Required.
	Secret verify.Secret

	// SiteKey is forwarded to the service so it can check the key/secret pairing.
	//
	// Optional. Default: ""
	SiteKey string

	// SkipRemoteIP stops the client address from being sent as remoteip.
	//
	// Optional. Default: false
	SkipRemoteIP bool

	// Timeout bounds a single verification call.
	//
	// Optional. Default: 6s
	Timeout time.Duration
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	Timeout: 6 * time.Second,
}

func configDefault(config Config) Config {
	cfg := config
	if cfg.Timeout <= 0 {
		cfg.Timeout = ConfigDefault.Timeout
	}
	if cfg.Verifier == nil {
		cfg.Verifier = verify.NewClient()
	}
	return cfg
}

// check verifies token and returns the accepted response.
func (cfg Config) check(ctx context.Context, token, remoteAddr string) (*verify.Response, error) {
	if cfg.Secret.IsZero() {
		log.ErrorWithContext(ctx, "captcha middleware has no secret configured")
		return nil, captchaErrors.NewValidationError("secret is missing", captchaErrors.MissingSecret)
	}
	if token == "" {
		log.DebugWithContext(ctx, "captcha token missing")
		return nil, captchaErrors.ErrTokenMissing
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req := verify.NewRequest(cfg.Secret, token)
	if cfg.SiteKey != "" {
		req = req.WithSiteKey(cfg.SiteKey)
	}
	if !cfg.SkipRemoteIP {
		if addr, ok := parseRemoteAddr(remoteAddr); ok {
			req = req.WithUserIP(addr)
		}
	}

	resp, err := cfg.Verifier.Verify(ctx, req)
	if err != nil {
		if captchaErrors.IsRetryableByUser(err) {
			log.InfoWithContext(ctx, "captcha rejected: %v", err)
		} else {
			log.ErrorWithContext(ctx, "captcha verification error: %v", err)
		}
		return nil, err
	}
	return resp, nil
}

// parseRemoteAddr accepts "ip" or "ip:port".
func parseRemoteAddr(remoteAddr string) (netip.Addr, bool) {
	host := strings.TrimSpace(remoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

type jsonToken struct {
	Token    string `json:"token"`
	HCaptcha string `json:"h-captcha-response"`
}

func tokenFromJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var t jsonToken
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &t); err != nil {
		return ""
	}
	if t.HCaptcha != "" {
		return t.HCaptcha
	}
	return t.Token
}
