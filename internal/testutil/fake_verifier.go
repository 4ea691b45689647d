package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/qolzam/hcaptcha/verify"
)

// FakeVerifier is a test-only implementation of the verify.Verifier interface.
type FakeVerifier struct {
	// Response is returned when Err is nil.
	Response *verify.Response
	// Err controls the failure outcome.
	Err error
	// ExpectedToken can be used to assert that a specific token was passed.
	ExpectedToken string

	mu       sync.Mutex
	requests []verify.Request
}

// Verify implements the verify.Verifier interface for tests.
func (f *FakeVerifier) Verify(ctx context.Context, req verify.Request) (*verify.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.ExpectedToken != "" && f.ExpectedToken != req.Response() {
		return nil, fmt.Errorf("received unexpected hcaptcha token. Got '%s', want '%s'", req.Response(), f.ExpectedToken)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Response, nil
}

// Requests returns every request seen so far.
func (f *FakeVerifier) Requests() []verify.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]verify.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls returns the number of Verify calls.
func (f *FakeVerifier) Calls() int {
	return len(f.Requests())
}

// MustDecode decodes a reply fixture or panics.
func MustDecode(body string) *verify.Response {
	resp, err := verify.DecodeResponse([]byte(body))
	if err != nil {
		panic(err)
	}
	return resp
}
