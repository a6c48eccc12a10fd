package api

import (
	"bytes"
	"encoding/json"

	taskpiloterrors "github.com/taskpilot/taskpilot/internal/errors"
)

// Envelope is the uniform result shape every dispatcher call resolves to:
// a success flag plus either a data payload or a message string. Callers
// branch on Success (or the returned sentinel error) instead of exception
// handling.
type Envelope struct {
	// Success is taken from the body when the backend embeds one, otherwise
	// inferred from the HTTP status.
	Success bool

	// Data is the payload, kept raw so adapters decode into their own types.
	Data json.RawMessage

	// Message is the server-supplied text accompanying failures (and the
	// occasional success acknowledgment).
	Message string
}

// wireEnvelope is the backend's assumed response shape. Success is a pointer
// so its absence is distinguishable from an explicit false.
type wireEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decodeEnvelope parses a response body into an Envelope.
//
// Bodies that carry the {success, data, message} wrapper are unwrapped;
// bodies without any of those keys are passed through verbatim as Data, so
// endpoints that return bare payloads still work. An empty body yields an
// envelope whose Success reflects the status code.
func decodeEnvelope(body []byte, status int) (*Envelope, error) {
	ok := status >= 200 && status < 300

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{Success: ok}, nil
	}

	// Arrays and scalars cannot carry the wrapper; they are the payload.
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, taskpiloterrors.Wrap(taskpiloterrors.ErrEmptyValue, "response body is not valid JSON")
		}
		return &Envelope{Success: ok, Data: json.RawMessage(trimmed)}, nil
	}

	var wire wireEnvelope
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, taskpiloterrors.Wrap(err, "failed to decode response body")
	}

	env := &Envelope{Message: wire.Message}

	switch {
	case wire.Success != nil:
		env.Success = *wire.Success
	default:
		env.Success = ok
	}

	if wire.Data != nil {
		env.Data = wire.Data
	} else if wire.Success == nil && wire.Message == "" {
		// No envelope keys at all: the whole body is the payload.
		env.Data = json.RawMessage(body)
	}

	return env, nil
}

// Decode unmarshals the envelope's data payload into v.
// Decoding an absent payload is an error: callers that expect no payload
// should not call Decode.
func (e *Envelope) Decode(v any) error {
	if e == nil || e.Data == nil {
		return taskpiloterrors.Wrap(taskpiloterrors.ErrEmptyValue, "response has no data payload")
	}
	return taskpiloterrors.Wrap(json.Unmarshal(e.Data, v), "failed to decode data payload")
}
