package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/types"
)

const (
	defaultTimeout   = 5 * time.Second
	maxResponseBytes = 1 << 20
)

// Transport posts a form to the verification endpoint and returns the raw reply body.
type Transport interface {
	Post(ctx context.Context, endpoint string, form url.Values) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, endpoint string, form url.Values) ([]byte, error)

// Post calls f.
func (f TransportFunc) Post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	return f(ctx, endpoint, form)
}

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	httpClient *http.Client
}

// NewHTTPTransport creates a transport; a nil client gets a 5 second timeout.
func NewHTTPTransport(httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPTransport{httpClient: httpClient}
}

// Post issues a single form-encoded POST. Failures, including non-2xx
// statuses, are returned as *TransportError.
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &captchaErrors.TransportError{URL: endpoint, Cause: fmt.Errorf("failed to create hcaptcha request: %w", err)}
	}
	req.Header.Set(types.HeaderContentType, types.ContentTypeForm)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &captchaErrors.TransportError{URL: endpoint, Cause: fmt.Errorf("failed to call hcaptcha api: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &captchaErrors.TransportError{URL: endpoint, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to read hcaptcha response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &captchaErrors.TransportError{URL: endpoint, StatusCode: resp.StatusCode}
	}
	return body, nil
}
