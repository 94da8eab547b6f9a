package ws

import (
	"encoding/json"

	"github.com/mcoot/minigolf-go/internal/model"
)

// Envelope is the frame format in both directions: a named event and its
// payload
type Envelope struct {
	Event model.EventType `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload in an envelope frame
func Encode(event model.EventType, payload any) ([]byte, error) {
	frame, _, err := encodeEnvelope(event, payload)
	return frame, err
}

// encodeEnvelope returns the whole frame and the payload's JSON inside it
func encodeEnvelope(event model.EventType, payload any) (frame, data []byte, err error) {
	data, err = json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	frame, err = json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return nil, nil, err
	}
	return frame, data, nil
}

// Decode parses an inbound frame
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(frame, &env)
	return env, err
}
