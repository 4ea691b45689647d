// Command hcaptcha-verify checks a single h-captcha-response token.
//
// Every flag can also be set through the environment with the HCAPTCHA_ prefix,
// e.g. --site-key as HCAPTCHA_SITE_KEY.
//
// Exit status is 0 when the token is accepted, 1 when the service rejects it
// and 2 for any other failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stevenroose/gonfig"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
	"github.com/qolzam/hcaptcha/internal/pkg/log"
	"github.com/qolzam/hcaptcha/verify"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitFailure  = 2
)

type Params struct {
	Secret   string `id:"secret" short:"s" desc:"Site secret (0x... or ES_...)"`
	Token    string `id:"token" short:"t" desc:"The h-captcha-response value to verify"`
	RemoteIP string `id:"remoteip" short:"i" desc:"Client IP address to forward"`
	SiteKey  string `id:"site-key" short:"k" desc:"Site key the token must have been issued for"`
	URL      string `id:"verify-url" default:"https://api.hcaptcha.com/siteverify" desc:"Verification endpoint"`
	Timeout  string `id:"timeout" default:"5s" desc:"HTTP timeout, e.g. 5s"`
	JSON     bool   `id:"json" desc:"Print the reply as JSON"`
	Debug    bool   `id:"debug" desc:"Enable debug logging"`
}

func main() {
	var params Params
	err := gonfig.Load(&params, gonfig.Conf{
		FileDisable:       true,
		FlagIgnoreUnknown: false,
		EnvPrefix:         "HCAPTCHA_",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
	log.SetDebug(params.Debug)

	os.Exit(run(context.Background(), params, nil, os.Stdout, os.Stderr))
}

// run verifies params.Token and returns the exit status.
// A nil transport selects the default HTTP transport.
func run(ctx context.Context, params Params, transport verify.Transport, stdout, stderr io.Writer) int {
	timeout, err := time.ParseDuration(params.Timeout)
	if err != nil || timeout <= 0 {
		fmt.Fprintf(stderr, "invalid timeout %q\n", params.Timeout)
		return exitFailure
	}

	opts := []verify.Option{verify.WithURL(params.URL), verify.WithTimeout(timeout)}
	if transport != nil {
		opts = append(opts, verify.WithTransport(transport))
	}
	client := verify.NewClient(opts...)

	req, err := verify.NewRequestFromStrings(params.Secret, params.Token)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if params.RemoteIP != "" {
		if req, err = req.WithUserIPString(params.RemoteIP); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
	}
	if params.SiteKey != "" {
		req = req.WithSiteKey(params.SiteKey)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Verify(ctx, req)
	if err != nil {
		var verr *captchaErrors.VerificationError
		if !errors.As(err, &verr) {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintln(stderr, "verification failed:")
		for _, code := range verr.Codes.Slice() {
			fmt.Fprintf(stderr, "  %s: %s\n", code.Wire(), code.String())
		}
		return exitRejected
	}

	if params.JSON {
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintln(stdout, string(out))
		return exitOK
	}
	fmt.Fprint(stdout, resp)
	return exitOK
}
