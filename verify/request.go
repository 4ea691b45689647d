package verify

import (
	"net/netip"
	"net/url"

	"github.com/gorilla/schema"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
)

// Request carries the data posted to the siteverify endpoint.
// The With* methods return modified copies; a Request is never mutated.
type Request struct {
	secret   Secret
	response string
	userIP   *string
	siteKey  *string
}

type formPayload struct {
	Secret   string `schema:"secret"`
	Response string `schema:"response"`
	RemoteIP string `schema:"remoteip,omitempty"`
	SiteKey  string `schema:"sitekey,omitempty"`
}

var formEncoder = schema.NewEncoder()

// NewRequest builds a request. An empty response is allowed: the service
// reports it as missing-input-response.
func NewRequest(secret Secret, response string) Request {
	return Request{
		secret:   secret,
		response: response,
	}
}

// NewRequestFromStrings parses secret and builds a request.
func NewRequestFromStrings(secret, response string) (Request, error) {
	s, err := ParseSecret(secret)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(s, response), nil
}

// WithUserIP attaches the end user's address. An invalid (zero) address
// clears it.
func (r Request) WithUserIP(ip netip.Addr) Request {
	if !ip.IsValid() {
		r.userIP = nil
		return r
	}
	s := ip.String()
	r.userIP = &s
	return r
}

// WithUserIPString parses ip and attaches it.
func (r Request) WithUserIPString(ip string) (Request, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return r, captchaErrors.NewValidationError("remote ip is not a valid address: "+ip, captchaErrors.InvalidRemoteIP)
	}
	return r.WithUserIP(addr), nil
}

// WithSiteKey attaches the site key verbatim. An empty key clears it.
func (r Request) WithSiteKey(key string) Request {
	if key == "" {
		r.siteKey = nil
		return r
	}
	r.siteKey = &key
	return r
}

func (r Request) Secret() Secret {
	return r.secret
}

func (r Request) Response() string {
	return r.response
}

func (r Request) UserIP() (string, bool) {
	if r.userIP == nil {
		return "", false
	}
	return *r.userIP, true
}

func (r Request) SiteKey() (string, bool) {
	if r.siteKey == nil {
		return "", false
	}
	return *r.siteKey, true
}

// FormPayload returns the form fields posted to the service: secret and
// response always, remoteip and sitekey when set.
func (r Request) FormPayload() (url.Values, error) {
	payload := formPayload{
		Secret:   r.secret.String(),
		Response: r.response,
	}
	if ip, ok := r.UserIP(); ok {
		payload.RemoteIP = ip
	}
	if key, ok := r.SiteKey(); ok {
		payload.SiteKey = key
	}

	form := url.Values{}
	if err := formEncoder.Encode(payload, form); err != nil {
		return nil, err
	}
	return form, nil
}
