package testutil

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// FakeTransport records posted forms and replies with a canned body.
type FakeTransport struct {
	Body []byte
	Err  error

	mu    sync.Mutex
	calls []PostedForm
}

// PostedForm is one recorded call.
type PostedForm struct {
	URL  string
	Form url.Values
}

// Post implements verify.Transport.
func (f *FakeTransport) Post(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, PostedForm{URL: endpoint, Form: form})
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Body, nil
}

// Calls returns the recorded posts.
func (f *FakeTransport) Calls() []PostedForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]PostedForm, len(f.calls))
	copy(out, f.calls)
	return out
}

// ServiceReply simulates the siteverify endpoint: a missing secret or response
// is reported the way the real service does.
func ServiceReply(form url.Values) []byte {
	var codes []string
	if form.Get("secret") == "" {
		codes = append(codes, `"missing-input-secret"`)
	}
	if form.Get("response") == "" {
		codes = append(codes, `"missing-input-response"`)
	}
	if len(codes) == 0 {
		return []byte(`{"success":true,"challenge_ts":"2020-11-11T23:27:00Z","hostname":"my-host.ie","credit":false}`)
	}
	return []byte(`{"success":false,"error-codes":[` + strings.Join(codes, ",") + `]}`)
}
