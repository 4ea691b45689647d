package verify

import (
	"context"
	"errors"
	"net/http"
	"time"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
)

// DefaultVerifyURL is the hCaptcha siteverify endpoint.
const DefaultVerifyURL = "https://api.hcaptcha.com/siteverify"

// Verifier is implemented by anything able to check a Request.
type Verifier interface {
	Verify(ctx context.Context, req Request) (*Response, error)
}

// Verify posts req to DefaultVerifyURL through transport.
//
// On success the decoded response is returned. Otherwise the error is exactly
// one of *ValidationError, *TransportError, *DecodeError or *VerificationError.
func Verify(ctx context.Context, req Request, transport Transport) (*Response, error) {
	return verifyAt(ctx, DefaultVerifyURL, req, transport)
}

func verifyAt(ctx context.Context, endpoint string, req Request, transport Transport) (*Response, error) {
	form, err := req.FormPayload()
	if err != nil {
		return nil, captchaErrors.NewValidationError("could not encode request: " + err.Error())
	}

	raw, err := transport.Post(ctx, endpoint, form)
	if err != nil {
		var terr *captchaErrors.TransportError
		if errors.As(err, &terr) {
			return nil, err
		}
		return nil, &captchaErrors.TransportError{URL: endpoint, Cause: err}
	}

	resp, err := DecodeResponse(raw)
	if err != nil {
		return nil, err
	}
	log.DebugWithContext(ctx, "hcaptcha response:\n%s", resp)

	if err := resp.Outcome(); err != nil {
		return nil, err
	}
	return resp, nil
}

// Client verifies requests against a configurable endpoint. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	transport Transport
	url       string
}

type clientOptions struct {
	transport  Transport
	httpClient *http.Client
	timeout    time.Duration
	url        string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTransport replaces the HTTP transport, e.g. with a fake in tests.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithTimeout sets the request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithURL overrides DefaultVerifyURL.
func WithURL(u string) Option {
	return func(o *clientOptions) {
		if u != "" {
			o.url = u
		}
	}
}

// NewClient creates a client.
func NewClient(opts ...Option) *Client {
	o := clientOptions{
		url:     DefaultVerifyURL,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.transport
	if transport == nil {
		httpClient := o.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: o.timeout}
		}
		transport = NewHTTPTransport(httpClient)
	}

	return &Client{
		transport: transport,
		url:       o.url,
	}
}

// URL returns the verification endpoint.
func (c *Client) URL() string {
	return c.url
}

// Verify implements Verifier.
func (c *Client) Verify(ctx context.Context, req Request) (*Response, error) {
	return verifyAt(ctx, c.url, req, c.transport)
}

// VerifyToken parses secret, attaches remoteIP when not empty and verifies token.
func (c *Client) VerifyToken(ctx context.Context, secret, token, remoteIP string) (*Response, error) {
	req, err := NewRequestFromStrings(secret, token)
	if err != nil {
		return nil, err
	}
	if remoteIP != "" {
		if req, err = req.WithUserIPString(remoteIP); err != nil {
			return nil, err
		}
	}
	return c.Verify(ctx, req)
}
