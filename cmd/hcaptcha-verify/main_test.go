package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/hcaptcha/internal/testutil"
)

func defaultParams() Params {
	return Params{
		Secret:  "0x0000000123456789abcdefABCDEF000000000000",
		Token:   "10000000-aaaa-bbbb-cccc-000000000001",
		URL:     "https://hcaptcha.test/siteverify",
		Timeout: "5s",
	}
}

func TestRun(t *testing.T) {
	t.Run("accepted token prints the reply", func(t *testing.T) {
		transport := &testutil.FakeTransport{Body: []byte(`{"success":true,"hostname":"my-host.ie"}`)}
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), defaultParams(), transport, &stdout, &stderr)
		assert.Equal(t, exitOK, code)
		assert.Contains(t, stdout.String(), "Hostname:     my-host.ie")
		assert.Empty(t, stderr.String())

		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "https://hcaptcha.test/siteverify", calls[0].URL)
	})

	t.Run("json output", func(t *testing.T) {
		transport := &testutil.FakeTransport{Body: []byte(`{"success":true,"score":0.5}`)}
		params := defaultParams()
		params.JSON = true
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), params, transport, &stdout, &stderr)
		assert.Equal(t, exitOK, code)
		assert.JSONEq(t, `{"success":true,"score":0.5}`, stdout.String())
	})

	t.Run("rejected token lists the codes", func(t *testing.T) {
		transport := &testutil.FakeTransport{Body: []byte(`{"success":false,"error-codes":["invalid-input-response","bogus-code"]}`)}
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), defaultParams(), transport, &stdout, &stderr)
		assert.Equal(t, exitRejected, code)
		assert.Contains(t, stderr.String(), "invalid-input-response: The response parameter (verification token) is invalid or malformed.")
		assert.Contains(t, stderr.String(), "bogus-code: Unknown error: bogus-code")
		assert.Empty(t, stdout.String())
	})

	t.Run("forwards remote ip and site key", func(t *testing.T) {
		transport := &testutil.FakeTransport{Body: []byte(`{"success":true}`)}
		params := defaultParams()
		params.RemoteIP = "2001:db8::1"
		params.SiteKey = "10000000-ffff-ffff-ffff-000000000001"

		code := run(context.Background(), params, transport, &bytes.Buffer{}, &bytes.Buffer{})
		assert.Equal(t, exitOK, code)

		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "2001:db8::1", calls[0].Form.Get("remoteip"))
		assert.Equal(t, "10000000-ffff-ffff-ffff-000000000001", calls[0].Form.Get("sitekey"))
	})

	t.Run("integration failures exit 2", func(t *testing.T) {
		cases := map[string]func(p *Params){
			"blank secret":  func(p *Params) { p.Secret = "  " },
			"bad remote ip": func(p *Params) { p.RemoteIP = "not-an-ip" },
			"bad timeout":   func(p *Params) { p.Timeout = "soon" },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				transport := &testutil.FakeTransport{Body: []byte(`{"success":true}`)}
				params := defaultParams()
				mutate(&params)
				var stderr bytes.Buffer

				code := run(context.Background(), params, transport, &bytes.Buffer{}, &stderr)
				assert.Equal(t, exitFailure, code)
				assert.NotEmpty(t, stderr.String())
				assert.Empty(t, transport.Calls())
			})
		}
	})

	t.Run("transport error exits 2", func(t *testing.T) {
		transport := &testutil.FakeTransport{Err: errors.New("connection refused")}
		var stderr bytes.Buffer

		code := run(context.Background(), defaultParams(), transport, &bytes.Buffer{}, &stderr)
		assert.Equal(t, exitFailure, code)
		assert.Contains(t, stderr.String(), "connection refused")
	})
}
