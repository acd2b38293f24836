// Package api defines the wire contract shared by the gateway client
// and the server handlers: the response envelope and one snake_case
// DTO per entity with pure converters in each direction.
package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Envelope wraps every endpoint response. A response with Success
// false is a failure even under a 2xx status.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// FlattenErrors joins the field-level error map into one readable
// message: `field: msg1, msg2` entries joined with `; `, fields in
// sorted order so the output is deterministic.
func (e *Envelope) FlattenErrors() string {
	if len(e.Errors) == 0 {
		return e.Error
	}

	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Errors[f], ", ")))
	}

	return strings.Join(parts, "; ")
}

// OK builds a success envelope around a payload.
func OK(message string, data any) (*Envelope, error) {
	var raw json.RawMessage

	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding envelope data: %w", err)
		}

		raw = b
	}

	return &Envelope{Success: true, Message: message, Data: raw}, nil
}

// Fail builds a failure envelope.
func Fail(errMsg string) *Envelope {
	return &Envelope{Success: false, Error: errMsg}
}

// FailFields builds a failure envelope carrying field-level errors.
func FailFields(errMsg string, fields map[string][]string) *Envelope {
	return &Envelope{Success: false, Error: errMsg, Errors: fields}
}

// Decode unmarshals the envelope's data payload into out.
func (e *Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}

	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decoding envelope data: %w", err)
	}

	return nil
}
