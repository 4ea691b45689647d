package verify

import (
	"fmt"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	captchaErrors "github.com/qolzam/hcaptcha/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the decoded reply of the siteverify endpoint.
//
// Optional fields report presence through their second return value. Score and
// ScoreReasons are only sent to Enterprise accounts.
type Response struct {
	success      bool
	challengeTS  *string
	hostname     *string
	credit       *bool
	errorCodes   captchaErrors.CodeSet
	score        *float64
	scoreReasons map[string]struct{}
}

type wireResponse struct {
	Success     *bool                 `json:"success"`
	ChallengeTS *string               `json:"challenge_ts,omitempty"`
	Hostname    *string               `json:"hostname,omitempty"`
	Credit      *bool                 `json:"credit,omitempty"`
	ErrorCodes  *[]captchaErrors.Code `json:"error-codes,omitempty"`
	Score       *float64              `json:"score,omitempty"`
	ScoreReason *[]string             `json:"score_reason,omitempty"`
}

// DecodeResponse decodes a reply body. Unknown fields are ignored; a missing
// or mistyped success field is a *DecodeError.
func DecodeResponse(raw []byte) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &captchaErrors.DecodeError{Cause: err}
	}
	if wire.Success == nil {
		return nil, &captchaErrors.DecodeError{Cause: fmt.Errorf("missing field \"success\"")}
	}

	r := &Response{
		success:     *wire.Success,
		challengeTS: wire.ChallengeTS,
		hostname:    wire.Hostname,
		credit:      wire.Credit,
		score:       wire.Score,
	}
	if wire.ErrorCodes != nil {
		r.errorCodes = captchaErrors.NewCodeSet(*wire.ErrorCodes...)
	}
	if wire.ScoreReason != nil {
		r.scoreReasons = make(map[string]struct{}, len(*wire.ScoreReason))
		for _, reason := range *wire.ScoreReason {
			r.scoreReasons[reason] = struct{}{}
		}
	}
	return r, nil
}

// Outcome returns nil when the service accepted the token and a
// *VerificationError otherwise. A failed reply without error-codes yields
// NoErrorCodes, never success.
func (r *Response) Outcome() error {
	if r.success {
		return nil
	}
	return captchaErrors.NewVerificationError(r.errorCodes.Clone())
}

func (r *Response) Success() bool {
	return r.success
}

// Timestamp returns challenge_ts as sent (ISO 8601).
func (r *Response) Timestamp() (string, bool) {
	if r.challengeTS == nil {
		return "", false
	}
	return *r.challengeTS, true
}

// ChallengeTime parses challenge_ts. It reports false when the field is
// absent or not RFC 3339.
func (r *Response) ChallengeTime() (time.Time, bool) {
	ts, ok := r.Timestamp()
	if !ok {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func (r *Response) Hostname() (string, bool) {
	if r.hostname == nil {
		return "", false
	}
	return *r.hostname, true
}

func (r *Response) Credit() (bool, bool) {
	if r.credit == nil {
		return false, false
	}
	return *r.credit, true
}

// ErrorCodes returns a copy of error-codes, or nil when the field was absent.
func (r *Response) ErrorCodes() captchaErrors.CodeSet {
	return r.errorCodes.Clone()
}

func (r *Response) Score() (float64, bool) {
	if r.score == nil {
		return 0, false
	}
	return *r.score, true
}

// ScoreReasons returns score_reason sorted, or nil when the field was absent.
func (r *Response) ScoreReasons() []string {
	if r.scoreReasons == nil {
		return nil
	}
	out := make([]string, 0, len(r.scoreReasons))
	for reason := range r.scoreReasons {
		out = append(out, reason)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the response in the service's wire shape.
func (r *Response) MarshalJSON() ([]byte, error) {
	wire := wireResponse{
		Success:     &r.success,
		ChallengeTS: r.challengeTS,
		Hostname:    r.hostname,
		Credit:      r.credit,
		Score:       r.score,
	}
	if r.errorCodes != nil {
		codes := r.errorCodes.Slice()
		wire.ErrorCodes = &codes
	}
	if r.scoreReasons != nil {
		reasons := r.ScoreReasons()
		wire.ScoreReason = &reasons
	}
	return json.Marshal(wire)
}

func (r *Response) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status:       %t\n", r.success)
	fmt.Fprintf(&b, "Timestamp:    %s\n", optional(r.Timestamp()))
	fmt.Fprintf(&b, "Hostname:     %s\n", optional(r.Hostname()))
	credit, ok := r.Credit()
	fmt.Fprintf(&b, "Credit:       %s\n", optional(fmt.Sprint(credit), ok))
	fmt.Fprintf(&b, "Error Codes:  %s\n", optional(r.errorCodes.String(), r.errorCodes != nil))
	score, ok := r.Score()
	fmt.Fprintf(&b, "Score:        %s\n", optional(fmt.Sprint(score), ok))
	fmt.Fprintf(&b, "Score Reason: %s\n", optional(strings.Join(r.ScoreReasons(), ", "), r.scoreReasons != nil))
	return b.String()
}

func optional(v string, ok bool) string {
	if !ok {
		return ""
	}
	return v
}
