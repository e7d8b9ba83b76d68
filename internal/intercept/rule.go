// Package intercept observes and rewrites backend calls made by the page under test.
//
// A Rule binds a URL glob to a Mode: PassThrough forwards the call to its real
// destination exactly once and records both bodies, Substitute answers with a
// synthetic response and never reaches the backend.
package intercept

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
)

// Mode is what an armed rule does with a matched call. It is either
// PassThrough or Substitute.
type Mode interface {
	isMode()
	String() string
}

// PassThrough forwards the call and records the real response
type PassThrough struct{}

func (PassThrough) isMode() {}

func (PassThrough) String() string { return "pass-through" }

// Substitute answers the call without contacting the backend
type Substitute struct {
	Status      int
	Body        []byte
	ContentType string
}

func (Substitute) isMode() {}

func (s Substitute) String() string { return fmt.Sprintf("substitute %d", s.Status) }

// SubstituteJSON builds a Substitute answering with v encoded as JSON
func SubstituteJSON(status int, v any) Substitute {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("intercept: unencodable substitute body: %v", err))
	}
	return Substitute{Status: status, Body: body, ContentType: "application/json"}
}

func (s Substitute) response() *browser.Response {
	ct := s.ContentType
	if ct == "" {
		ct = "application/json"
	}
	return &browser.Response{
		Status:  s.Status,
		Headers: map[string]string{"content-type": ct},
		Body:    s.Body,
	}
}

// Rule binds a URL pattern to a mode for the remainder of a scenario
type Rule struct {
	Name    string
	Pattern string
	Mode    Mode
	// Required rules fail Verify when nothing matched them
	Required bool
}

// Exchange is one matched call as the page saw it
type Exchange struct {
	Rule         string    `json:"rule"`
	Method       string    `json:"method"`
	URL          string    `json:"url"`
	RequestBody  []byte    `json:"request_body,omitempty"`
	Status       int       `json:"status"`
	ResponseBody []byte    `json:"response_body,omitempty"`
	Substituted  bool      `json:"substituted"`
	Err          string    `json:"error,omitempty"`
	At           time.Time `json:"at"`
}

// DecodeRequest unmarshals the request body into v
func (e Exchange) DecodeRequest(v any) error {
	if err := json.Unmarshal(e.RequestBody, v); err != nil {
		return fmt.Errorf("failed to decode %s request body: %w", e.Rule, err)
	}
	return nil
}

// DecodeResponse unmarshals the response body into v
func (e Exchange) DecodeResponse(v any) error {
	if err := json.Unmarshal(e.ResponseBody, v); err != nil {
		return fmt.Errorf("failed to decode %s response body: %w", e.Rule, err)
	}
	return nil
}
